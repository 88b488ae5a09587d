package settlement

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIncompleteData is matched by *IncompleteDataError.
	ErrIncompleteData = errors.New("incomplete data")
	// ErrUnbalancedTotals is matched by *UnbalancedTotalsError.
	ErrUnbalancedTotals = errors.New("unbalanced totals")
	// ErrNoEligibleMatch means the matcher stalled with balances left open.
	ErrNoEligibleMatch = errors.New("no eligible match")
	// ErrInvalidRate rejects a non-positive currency per point.
	ErrInvalidRate = errors.New("currency per point must be positive")
	// ErrInvalidManualSettlement rejects a manual settlement that does not
	// move money from a net loser to a net winner.
	ErrInvalidManualSettlement = errors.New("invalid manual settlement")
)

// IncompleteDataError names the players that have not entered a return buy-in count.
type IncompleteDataError struct {
	Players []Player
}

func (e *IncompleteDataError) Error() string {
	return fmt.Sprintf("%v: missing return buy-ins for %s", ErrIncompleteData, strings.Join(e.Names(), ", "))
}

func (e *IncompleteDataError) Unwrap() error {
	return ErrIncompleteData
}

// Names returns display names of the offending players, falling back to the id.
func (e *IncompleteDataError) Names() []string {
	names := make([]string, 0, len(e.Players))

	for _, p := range e.Players {
		if p.Name != "" {
			names = append(names, p.Name)
			continue
		}

		names = append(names, fmt.Sprintf("player %d", p.ID))
	}

	return names
}

// UnbalancedTotalsError reports the residual of the points sum.
// A positive Residual means more points were returned than bought.
type UnbalancedTotalsError struct {
	Residual int64
}

func (e *UnbalancedTotalsError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUnbalancedTotals, e.Hint())
}

func (e *UnbalancedTotalsError) Unwrap() error {
	return ErrUnbalancedTotals
}

// Magnitude is the absolute number of points the return buy-ins are off by.
func (e *UnbalancedTotalsError) Magnitude() int64 {
	if e.Residual < 0 {
		return -e.Residual
	}

	return e.Residual
}

// Hint tells the caller which way to correct return buy-ins.
func (e *UnbalancedTotalsError) Hint() string {
	if e.Residual > 0 {
		return fmt.Sprintf("return buy-ins exceed buy-ins by %d, decrease them", e.Residual)
	}

	return fmt.Sprintf("return buy-ins fall short of buy-ins by %d, increase them", -e.Residual)
}

func manualError(index int, reason string) error {
	return fmt.Errorf("%w: #%d: %s", ErrInvalidManualSettlement, index, reason)
}
