package settlement

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cashedOut(id PlayerID, name string, buyIns, returnBuyIns int64) Player {
	return Player{ID: id, Name: name, BuyIns: buyIns, ReturnBuyIns: &returnBuyIns}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertTransfer(t *testing.T, got Settlement, from, to PlayerID, amount string, manual bool) {
	t.Helper()

	assert.Equal(t, from, got.From, "from")
	assert.Equal(t, to, got.To, "to")
	assert.True(t, got.Amount.Equal(dec(amount)), "amount: want %s, got %s", amount, got.Amount)
	assert.Equal(t, manual, got.Manual, "manual")
}

// netFlow returns, per player, outgoing minus incoming amounts.
func netFlow(settlements []Settlement) map[PlayerID]decimal.Decimal {
	net := make(map[PlayerID]decimal.Decimal)

	for _, s := range settlements {
		net[s.From] = net[s.From].Add(s.Amount)
		net[s.To] = net[s.To].Sub(s.Amount)
	}

	return net
}

func TestSettle_OneWinnerTwoLosers(t *testing.T) {
	t.Parallel()

	players := []Player{
		cashedOut(1, "X", 1, 6), // +5
		cashedOut(2, "Y", 4, 1), // -3
		cashedOut(3, "Z", 3, 1), // -2
	}

	res, err := Settle(players, nil, dec("10"))
	require.NoError(t, err)
	require.Len(t, res.Settlements, 2)

	assertTransfer(t, res.Settlements[0], 2, 1, "30", false)
	assertTransfer(t, res.Settlements[1], 3, 1, "20", false)
}

func TestSettle_ManualSettlementIsFoldedIn(t *testing.T) {
	t.Parallel()

	players := []Player{
		cashedOut(1, "X", 1, 6), // +5
		cashedOut(2, "Y", 6, 1), // -5
	}
	manual := []Settlement{{From: 2, To: 1, Amount: dec("20")}}

	res, err := Settle(players, manual, dec("10"))
	require.NoError(t, err)
	require.Len(t, res.Settlements, 2)

	assertTransfer(t, res.Settlements[0], 2, 1, "20", true)
	assertTransfer(t, res.Settlements[1], 2, 1, "30", false)

	assert.Len(t, res.Generated(), 1)
	assert.False(t, manual[0].Manual, "input must not be modified")
}

func TestSettle_OverpaidManualSettlementFlipsSign(t *testing.T) {
	t.Parallel()

	players := []Player{
		cashedOut(1, "X", 1, 6), // +5
		cashedOut(2, "Y", 6, 1), // -5
	}
	manual := []Settlement{{From: 2, To: 1, Amount: dec("70")}}

	res, err := Settle(players, manual, dec("10"))
	require.NoError(t, err)
	require.Len(t, res.Settlements, 2)

	// X was overpaid by 20 and now pays it back.
	assertTransfer(t, res.Settlements[1], 1, 2, "20", false)

	net := netFlow(res.Settlements)
	assert.True(t, net[1].Equal(dec("-50")), "X net %s", net[1])
	assert.True(t, net[2].Equal(dec("50")), "Y net %s", net[2])
}

func TestSettle_ExactMatchesBeforePartial(t *testing.T) {
	t.Parallel()

	players := []Player{
		cashedOut(1, "A", 1, 4), // +3
		cashedOut(2, "B", 1, 3), // +2
		cashedOut(3, "C", 3, 1), // -2
		cashedOut(4, "D", 4, 1), // -3
	}

	res, err := Settle(players, nil, dec("5"))
	require.NoError(t, err)
	require.Len(t, res.Settlements, 2)

	assertTransfer(t, res.Settlements[0], 3, 2, "10", false)
	assertTransfer(t, res.Settlements[1], 4, 1, "15", false)
}

func TestSettle_FractionalRateIsExact(t *testing.T) {
	t.Parallel()

	players := []Player{
		cashedOut(1, "X", 1, 8), // +7
		cashedOut(2, "Y", 5, 1), // -4
		cashedOut(3, "Z", 4, 1), // -3
	}
	manual := []Settlement{{From: 3, To: 1, Amount: dec("0.05")}}

	res, err := Settle(players, manual, dec("0.1"))
	require.NoError(t, err)

	net := netFlow(res.Settlements)
	assert.True(t, net[1].Equal(dec("-0.7")), "X net %s", net[1])
	assert.True(t, net[2].Equal(dec("0.4")), "Y net %s", net[2])
	assert.True(t, net[3].Equal(dec("0.3")), "Z net %s", net[3])
}

func TestSettle_AllEven(t *testing.T) {
	t.Parallel()

	players := []Player{
		cashedOut(1, "X", 2, 2),
		cashedOut(2, "Y", 1, 1),
	}

	res, err := Settle(players, nil, dec("10"))
	require.NoError(t, err)
	assert.Empty(t, res.Settlements)
}

func TestSettle_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		players []Player
		manual  []Settlement
		rate    decimal.Decimal
		wantErr error
	}{
		{
			name:    "non_positive_rate",
			players: []Player{cashedOut(1, "X", 1, 1)},
			rate:    decimal.Zero,
			wantErr: ErrInvalidRate,
		},
		{
			name: "missing_return_buy_ins",
			players: []Player{
				cashedOut(1, "X", 1, 2),
				{ID: 2, Name: "Y", BuyIns: 1},
			},
			rate:    dec("10"),
			wantErr: ErrIncompleteData,
		},
		{
			name: "unbalanced",
			players: []Player{
				cashedOut(1, "X", 1, 6),
				cashedOut(2, "Y", 4, 1),
			},
			rate:    dec("10"),
			wantErr: ErrUnbalancedTotals,
		},
		{
			name: "manual_from_winner",
			players: []Player{
				cashedOut(1, "X", 1, 6),
				cashedOut(2, "Y", 6, 1),
			},
			manual:  []Settlement{{From: 1, To: 2, Amount: dec("10")}},
			rate:    dec("10"),
			wantErr: ErrInvalidManualSettlement,
		},
		{
			name: "manual_unknown_player",
			players: []Player{
				cashedOut(1, "X", 1, 6),
				cashedOut(2, "Y", 6, 1),
			},
			manual:  []Settlement{{From: 9, To: 1, Amount: dec("10")}},
			rate:    dec("10"),
			wantErr: ErrInvalidManualSettlement,
		},
		{
			name: "manual_zero_amount",
			players: []Player{
				cashedOut(1, "X", 1, 6),
				cashedOut(2, "Y", 6, 1),
			},
			manual:  []Settlement{{From: 2, To: 1, Amount: decimal.Zero}},
			rate:    dec("10"),
			wantErr: ErrInvalidManualSettlement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := Settle(tt.players, tt.manual, tt.rate)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, res.Settlements)
		})
	}
}

func TestSettle_IncompleteDataNamesPlayers(t *testing.T) {
	t.Parallel()

	players := []Player{
		cashedOut(1, "X", 1, 2),
		{ID: 2, Name: "Y", BuyIns: 1},
		{ID: 3, BuyIns: 2},
	}

	_, err := Settle(players, nil, dec("10"))

	var incomplete *IncompleteDataError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []string{"Y", "player 3"}, incomplete.Names())
	assert.Contains(t, err.Error(), "Y, player 3")
}

func TestSettle_UnbalancedReportsSignedResidual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		players      []Player
		wantResidual int64
		wantHint     string
	}{
		{
			name:         "too_many_returned",
			players:      []Player{cashedOut(1, "X", 1, 6), cashedOut(2, "Y", 4, 1)},
			wantResidual: 2,
			wantHint:     "decrease",
		},
		{
			name:         "too_few_returned",
			players:      []Player{cashedOut(1, "X", 1, 3), cashedOut(2, "Y", 4, 1)},
			wantResidual: -1,
			wantHint:     "increase",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Settle(tt.players, nil, dec("10"))

			var unbalanced *UnbalancedTotalsError
			require.True(t, errors.As(err, &unbalanced))
			assert.Equal(t, tt.wantResidual, unbalanced.Residual)
			assert.Contains(t, unbalanced.Hint(), tt.wantHint)
		})
	}
}

// TestSettle_RandomGames checks zero-sum closure and the transfer bound over
// seeded random games with and without manual settlements.
func TestSettle_RandomGames(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(42, 7))
	rates := []decimal.Decimal{dec("1"), dec("0.25"), dec("10"), dec("2.5")}

	for round := 0; round < 500; round++ {
		players := randomGame(rng, 2+rng.IntN(9))
		rate := rates[rng.IntN(len(rates))]

		var manual []Settlement
		if rng.IntN(2) == 0 {
			manual = randomManual(rng, players, rate)
		}

		res, err := Settle(players, manual, rate)
		require.NoError(t, err, "round %d", round)

		net := netFlow(res.Settlements)
		for _, p := range players {
			points, _ := Points(p)
			want := decimal.NewFromInt(-points).Mul(rate)
			require.True(t, net[p.ID].Equal(want),
				"round %d player %d: net %s, want %s", round, p.ID, net[p.ID], want)
		}

		nonZero := 0
		for _, b := range Remaining(players, manual, rate) {
			if !b.Amount.IsZero() {
				nonZero++
			}
		}

		generated := len(res.Generated())
		if nonZero == 0 {
			require.Zero(t, generated, "round %d", round)
			continue
		}
		require.LessOrEqual(t, generated, nonZero-1, "round %d", round)

		for i, s := range res.Settlements[:len(manual)] {
			require.True(t, s.Manual)
			require.True(t, s.Amount.Equal(manual[i].Amount))
		}
	}
}

func randomGame(rng *rand.Rand, n int) []Player {
	players := make([]Player, n)

	var total int64
	for i := range players {
		buyIns := int64(1 + rng.IntN(5))
		total += buyIns
		players[i] = Player{ID: PlayerID(i + 1), BuyIns: buyIns}
	}

	// Hand the pot out in random chunks so returns sum to buy-ins.
	returns := make([]int64, n)
	for total > 0 {
		returns[rng.IntN(n)]++
		total--
	}

	for i := range players {
		r := returns[i]
		players[i].ReturnBuyIns = &r
	}

	return players
}

func randomManual(rng *rand.Rand, players []Player, rate decimal.Decimal) []Settlement {
	var manual []Settlement

	for range 3 {
		remaining := Remaining(players, manual, rate)

		var losers, winners []PlayerID
		for _, b := range remaining {
			switch b.Amount.Sign() {
			case -1:
				losers = append(losers, b.PlayerID)
			case 1:
				winners = append(winners, b.PlayerID)
			}
		}

		if len(losers) == 0 || len(winners) == 0 {
			break
		}

		from := losers[rng.IntN(len(losers))]
		to := winners[rng.IntN(len(winners))]

		limit, err := MaxManualAmount(remaining, from, to)
		if err != nil {
			break
		}

		// Any amount up to the limit, in cents.
		cents := limit.Mul(decimal.NewFromInt(100)).IntPart()
		if cents <= 0 {
			break
		}

		amount := decimal.New(1+rng.Int64N(cents), -2)
		manual = append(manual, Settlement{From: from, To: to, Amount: amount})
	}

	return manual
}
