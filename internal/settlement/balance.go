package settlement

import "github.com/shopspring/decimal"

// Points returns returnBuyIns - buyIns. ok is false until the player has a
// return buy-in count.
func Points(p Player) (points int64, ok bool) {
	if p.ReturnBuyIns == nil {
		return 0, false
	}

	return *p.ReturnBuyIns - p.BuyIns, true
}

// Balances derives a working balance for every player, in input order.
// It fails with *IncompleteDataError if any player lacks a return buy-in count.
func Balances(players []Player, currencyPerPoint decimal.Decimal) ([]PlayerBalance, error) {
	var missing []Player

	out := make([]PlayerBalance, 0, len(players))

	for _, p := range players {
		points, ok := Points(p)
		if !ok {
			missing = append(missing, p)
			continue
		}

		out = append(out, PlayerBalance{
			PlayerID:         p.ID,
			Amount:           decimal.NewFromInt(points).Mul(currencyPerPoint),
			CurrencyPerPoint: currencyPerPoint,
		})
	}

	if len(missing) > 0 {
		return nil, &IncompleteDataError{Players: missing}
	}

	return out, nil
}

// TotalPoints sums the points of players that have cashed out.
func TotalPoints(players []Player) int64 {
	var total int64

	for _, p := range players {
		points, ok := Points(p)
		if ok {
			total += points
		}
	}

	return total
}
