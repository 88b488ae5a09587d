package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balancesOf(amounts ...string) []PlayerBalance {
	out := make([]PlayerBalance, len(amounts))

	for i, a := range amounts {
		out[i] = PlayerBalance{PlayerID: PlayerID(i + 1), Amount: dec(a), CurrencyPerPoint: decimal.NewFromInt(1)}
	}

	return out
}

func TestMatcher_NoEligibleMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		balances []PlayerBalance
	}{
		{name: "only_losers", balances: balancesOf("-5", "0")},
		{name: "only_winners", balances: balancesOf("5", "0")},
		{name: "lopsided", balances: balancesOf("5", "-3")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := newMatcher(tt.balances).run()
			require.ErrorIs(t, err, ErrNoEligibleMatch)
		})
	}
}

func TestMatcher_ClassificationFollowsCurrentSign(t *testing.T) {
	t.Parallel()

	m := newMatcher(balancesOf("-4", "6", "-2"))

	profits, losses := m.split()
	assert.Equal(t, []int{1}, profits)
	assert.Equal(t, []int{0, 2}, losses)

	require.NoError(t, m.run())
	require.Len(t, m.out, 2)

	for _, b := range m.balances {
		assert.True(t, b.Amount.IsZero(), "player %d left with %s", b.PlayerID, b.Amount)
	}
}

func TestMatcher_PartialSkipsExactPairs(t *testing.T) {
	t.Parallel()

	m := newMatcher(balancesOf("3", "5", "-3", "-5"))

	require.True(t, m.partial())
	require.Len(t, m.out, 1)

	// -3 pairs exactly with 3, so the partial phase moves to 5.
	assertTransfer(t, m.out[0], 3, 2, "3", false)
}
