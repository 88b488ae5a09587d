package games

import (
	"fmt"
	"time"

	"github.com/fastprodman/pokerledger/internal/repos/games"
	"github.com/fastprodman/pokerledger/internal/settlement"
)

func newGame(in NewGame) (games.Game, error) {
	if !in.BuyInValue.IsPositive() {
		return games.Game{}, fmt.Errorf("%w: buy-in value must be positive", ErrValidation)
	}

	if in.BuyInPoints < 0 {
		return games.Game{}, fmt.Errorf("%w: buy-in points must be positive", ErrValidation)
	}

	if len(in.Players) < 2 {
		return games.Game{}, fmt.Errorf("%w: a game needs at least two players", ErrValidation)
	}

	g := games.Game{
		PlayDate:    in.PlayDate,
		BuyInValue:  in.BuyInValue,
		BuyInPoints: in.BuyInPoints,
		Players:     make([]games.Player, 0, len(in.Players)),
	}

	if g.PlayDate.IsZero() {
		g.PlayDate = time.Now()
	}

	if g.BuyInPoints == 0 {
		g.BuyInPoints = DefaultBuyInPoints
	}

	for _, p := range in.Players {
		if p.BuyIns == 0 {
			p.BuyIns = 1
		}

		err := validatePlayer(p.BuyIns, p.ReturnBuyIns)
		if err != nil {
			return games.Game{}, fmt.Errorf("profile %d: %w", p.ProfileID, err)
		}

		g.Players = append(g.Players, games.Player{
			ProfileID:    p.ProfileID,
			BuyIns:       p.BuyIns,
			ReturnBuyIns: p.ReturnBuyIns,
		})
	}

	return g, nil
}

func validatePlayer(buyIns int64, returnBuyIns *int64) error {
	if buyIns < 1 {
		return fmt.Errorf("%w: buy-ins must be at least 1", ErrValidation)
	}

	if returnBuyIns != nil && *returnBuyIns < 0 {
		return fmt.Errorf("%w: return buy-ins cannot be negative", ErrValidation)
	}

	return nil
}

func enginePlayers(in []games.Player) []settlement.Player {
	out := make([]settlement.Player, 0, len(in))
	for _, p := range in {
		out = append(out, settlement.Player{
			ID:           settlement.PlayerID(p.ProfileID),
			Name:         p.Name,
			BuyIns:       p.BuyIns,
			ReturnBuyIns: p.ReturnBuyIns,
		})
	}

	return out
}

func engineSettlements(in []games.Settlement) []settlement.Settlement {
	out := make([]settlement.Settlement, 0, len(in))
	for _, s := range in {
		out = append(out, settlement.Settlement{
			From:   settlement.PlayerID(s.From),
			To:     settlement.PlayerID(s.To),
			Amount: s.Amount,
			Manual: s.Manual,
		})
	}

	return out
}

func storedSettlements(in []settlement.Settlement) []games.Settlement {
	out := make([]games.Settlement, 0, len(in))
	for _, s := range in {
		out = append(out, games.Settlement{
			From:   uint64(s.From),
			To:     uint64(s.To),
			Amount: s.Amount,
			Manual: s.Manual,
		})
	}

	return out
}
