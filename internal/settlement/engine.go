// Package settlement turns the point balances of a finished game into money
// transfers that zero every player's balance.
//
// A run derives balances from buy-ins, folds in settlements players already
// made by hand, then greedily pairs losers with winners: exact offsets first,
// partial offsets otherwise. Ties are broken by the order players are given
// in, so the output is deterministic for a fixed input. The transfer count is
// bounded by n-1 but is not guaranteed to be minimal.
//
// The package is pure: no I/O, no locks, no shared state between runs.
package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Settle computes the full settlement list for a game.
//
// Manual settlements are returned first, unchanged and in input order,
// followed by the generated transfers in the order they were found. Settle
// fails with *IncompleteDataError when a player has no return buy-ins and
// with *UnbalancedTotalsError when points do not sum to zero; in both cases
// no transfers are produced.
func Settle(players []Player, manual []Settlement, currencyPerPoint decimal.Decimal) (Result, error) {
	if !currencyPerPoint.IsPositive() {
		return Result{}, ErrInvalidRate
	}

	balances, err := Balances(players, currencyPerPoint)
	if err != nil {
		return Result{}, err
	}

	residual := TotalPoints(players)
	if residual != 0 {
		return Result{}, &UnbalancedTotalsError{Residual: residual}
	}

	err = validateManual(balances, manual)
	if err != nil {
		return Result{}, err
	}

	Adjust(balances, manual)

	m := newMatcher(balances)

	err = m.run()
	if err != nil {
		return Result{}, fmt.Errorf("match balances: %w", err)
	}

	out := make([]Settlement, 0, len(manual)+len(m.out))

	for _, s := range manual {
		s.Manual = true
		out = append(out, s)
	}

	out = append(out, m.out...)

	return Result{Settlements: out}, nil
}
