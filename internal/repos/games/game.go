package games

// Player looks up a seated player by profile.
func (g Game) Player(profileID uint64) (Player, bool) {
	for _, p := range g.Players {
		if p.ProfileID == profileID {
			return p, true
		}
	}

	return Player{}, false
}

// TotalBuyIns sums buy-ins over all players.
func (g Game) TotalBuyIns() int64 {
	var total int64
	for _, p := range g.Players {
		total += p.BuyIns
	}

	return total
}

// TotalReturnBuyIns sums the return buy-ins entered so far.
func (g Game) TotalReturnBuyIns() int64 {
	var total int64

	for _, p := range g.Players {
		if p.ReturnBuyIns != nil {
			total += *p.ReturnBuyIns
		}
	}

	return total
}

// Balance is returnBuyIns - buyIns; ok is false until return buy-ins are entered.
func (p Player) Balance() (points int64, ok bool) {
	if p.ReturnBuyIns == nil {
		return 0, false
	}

	return *p.ReturnBuyIns - p.BuyIns, true
}

// TotalBalance sums the balances of players that have cashed out.
func (g Game) TotalBalance() int64 {
	var total int64

	for _, p := range g.Players {
		if b, ok := p.Balance(); ok {
			total += b
		}
	}

	return total
}
