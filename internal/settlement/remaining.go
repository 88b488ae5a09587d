package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Remaining projects what is still owed after the recorded settlements,
// using the same rules as Adjust. Players without a return buy-in count are
// skipped. The inputs are not modified.
func Remaining(players []Player, recorded []Settlement, currencyPerPoint decimal.Decimal) []PlayerBalance {
	balances := currencyBalances(players, currencyPerPoint)
	Adjust(balances, recorded)

	return balances
}

// currencyBalances converts the players that have a return buy-in count
// into currency balances.
func currencyBalances(players []Player, currencyPerPoint decimal.Decimal) []PlayerBalance {
	balances := make([]PlayerBalance, 0, len(players))

	for _, p := range players {
		points, ok := Points(p)
		if !ok {
			continue
		}

		balances = append(balances, PlayerBalance{
			PlayerID:         p.ID,
			Amount:           decimal.NewFromInt(points).Mul(currencyPerPoint),
			CurrencyPerPoint: currencyPerPoint,
		})
	}

	return balances
}

// MaxManualAmount is the largest manual settlement from one player to
// another that does not overshoot either remaining balance.
func MaxManualAmount(remaining []PlayerBalance, from, to PlayerID) (decimal.Decimal, error) {
	var (
		owed, due          decimal.Decimal
		fromFound, toFound bool
	)

	for _, b := range remaining {
		switch b.PlayerID {
		case from:
			owed, fromFound = b.Amount.Neg(), true
		case to:
			due, toFound = b.Amount, true
		}
	}

	switch {
	case from == to:
		return decimal.Zero, fmt.Errorf("%w: payer and payee are the same player", ErrInvalidManualSettlement)
	case !fromFound || !owed.IsPositive():
		return decimal.Zero, fmt.Errorf("%w: player %d owes nothing", ErrInvalidManualSettlement, from)
	case !toFound || !due.IsPositive():
		return decimal.Zero, fmt.Errorf("%w: player %d is owed nothing", ErrInvalidManualSettlement, to)
	}

	return decimal.Min(owed, due), nil
}
