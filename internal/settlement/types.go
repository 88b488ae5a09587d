package settlement

import "github.com/shopspring/decimal"

// PlayerID identifies a player by profile.
type PlayerID uint64

// Player is a seat in one game. ReturnBuyIns is nil until the player cashes out.
type Player struct {
	ID           PlayerID
	Name         string
	BuyIns       int64
	ReturnBuyIns *int64
}

// PlayerBalance is a player's working balance in a settlement run.
//
// The balance is held in currency (points * CurrencyPerPoint) so that folding
// in manual settlements never divides. Positive means the player is owed money.
type PlayerBalance struct {
	PlayerID         PlayerID
	Amount           decimal.Decimal
	CurrencyPerPoint decimal.Decimal
}

// Points returns the balance expressed in points. Display only.
func (b PlayerBalance) Points() decimal.Decimal {
	if b.CurrencyPerPoint.IsZero() {
		return decimal.Zero
	}

	return b.Amount.Div(b.CurrencyPerPoint)
}

// Settlement is a directed money transfer between two players.
type Settlement struct {
	From   PlayerID
	To     PlayerID
	Amount decimal.Decimal
	Manual bool
}

// Result is the outcome of a settlement run: manual settlements in input
// order followed by generated ones in generation order.
type Result struct {
	Settlements []Settlement
}

// Generated returns the transfers produced by the matcher.
func (r Result) Generated() []Settlement {
	out := make([]Settlement, 0, len(r.Settlements))

	for _, s := range r.Settlements {
		if !s.Manual {
			out = append(out, s)
		}
	}

	return out
}
