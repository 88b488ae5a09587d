package settlement

import "github.com/shopspring/decimal"

// Adjust folds manual settlements into balances in place.
//
// Winners are reduced by what they already received, losers are credited
// with what they already paid. Nothing is clamped, so an overpaid balance
// flips sign. Adjust is not idempotent: applying it twice double counts.
func Adjust(balances []PlayerBalance, manual []Settlement) {
	received := make(map[PlayerID]decimal.Decimal)
	paid := make(map[PlayerID]decimal.Decimal)

	for _, m := range manual {
		received[m.To] = received[m.To].Add(m.Amount)
		paid[m.From] = paid[m.From].Add(m.Amount)
	}

	for i := range balances {
		b := &balances[i]

		switch b.Amount.Sign() {
		case 1:
			b.Amount = b.Amount.Sub(received[b.PlayerID])
		case -1:
			b.Amount = b.Amount.Add(paid[b.PlayerID])
		}
	}
}

// CheckManual reports whether recorded manual settlements are still valid
// for players, using the same rules Settle applies. Players without a
// return buy-in count are unknown, so a settlement naming one is rejected.
func CheckManual(players []Player, manual []Settlement, currencyPerPoint decimal.Decimal) error {
	if !currencyPerPoint.IsPositive() {
		return ErrInvalidRate
	}

	return validateManual(currencyBalances(players, currencyPerPoint), manual)
}

// validateManual checks manual settlements against pre-adjustment balances:
// each must move a positive amount from a net loser to a net winner.
func validateManual(balances []PlayerBalance, manual []Settlement) error {
	sign := make(map[PlayerID]int, len(balances))
	for _, b := range balances {
		sign[b.PlayerID] = b.Amount.Sign()
	}

	for i, m := range manual {
		if !m.Amount.IsPositive() {
			return manualError(i, "amount must be positive")
		}

		if m.From == m.To {
			return manualError(i, "payer and payee are the same player")
		}

		from, ok := sign[m.From]
		if !ok {
			return manualError(i, "payer is not in the game")
		}

		to, ok := sign[m.To]
		if !ok {
			return manualError(i, "payee is not in the game")
		}

		if from >= 0 {
			return manualError(i, "payer is not a net loser")
		}

		if to <= 0 {
			return manualError(i, "payee is not a net winner")
		}
	}

	return nil
}
