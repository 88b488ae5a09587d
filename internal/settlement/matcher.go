package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type side int

const (
	even side = iota
	profit
	loss
)

func sideOf(b PlayerBalance) side {
	switch b.Amount.Sign() {
	case 1:
		return profit
	case -1:
		return loss
	default:
		return even
	}
}

// matcher owns the working balances of a single run. Nothing outside the
// run holds a reference to them.
type matcher struct {
	balances []PlayerBalance
	out      []Settlement
}

func newMatcher(balances []PlayerBalance) *matcher {
	return &matcher{balances: balances}
}

// split classifies players by their current sign, keeping input order.
func (m *matcher) split() (profits, losses []int) {
	for i, b := range m.balances {
		switch sideOf(b) {
		case profit:
			profits = append(profits, i)
		case loss:
			losses = append(losses, i)
		case even:
		}
	}

	return profits, losses
}

// exact settles the first loss/profit pair that cancels out.
func (m *matcher) exact() bool {
	profits, losses := m.split()

	for _, l := range losses {
		for _, p := range profits {
			if m.balances[p].Amount.Add(m.balances[l].Amount).IsZero() {
				m.transfer(l, p, m.balances[p].Amount)
				return true
			}
		}
	}

	return false
}

// partial moves the smaller magnitude of the first pair that does not cancel out.
func (m *matcher) partial() bool {
	profits, losses := m.split()

	for _, l := range losses {
		for _, p := range profits {
			owed := m.balances[l].Amount.Neg()
			due := m.balances[p].Amount

			if owed.Equal(due) {
				continue
			}

			m.transfer(l, p, decimal.Min(owed, due))

			return true
		}
	}

	return false
}

func (m *matcher) transfer(l, p int, amount decimal.Decimal) {
	m.out = append(m.out, Settlement{
		From:   m.balances[l].PlayerID,
		To:     m.balances[p].PlayerID,
		Amount: amount,
	})

	m.balances[p].Amount = m.balances[p].Amount.Sub(amount)
	m.balances[l].Amount = m.balances[l].Amount.Add(amount)
}

// step is one outer iteration: an exact match (retried once on success)
// followed by one partial match.
func (m *matcher) step() bool {
	progressed := false

	if m.exact() {
		progressed = true

		m.exact()
	}

	if m.partial() {
		progressed = true
	}

	return progressed
}

// run matches until no loss players remain. Every transfer zeroes at least
// one balance, so it emits at most n-1 transfers for n non-zero players.
func (m *matcher) run() error {
	for {
		profits, losses := m.split()

		if len(losses) == 0 {
			if len(profits) > 0 {
				return fmt.Errorf("%w: %d winners left unpaid", ErrNoEligibleMatch, len(profits))
			}

			return nil
		}

		if !m.step() {
			return fmt.Errorf("%w: %d losers left with no counterpart", ErrNoEligibleMatch, len(losses))
		}
	}
}
