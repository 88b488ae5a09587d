package games

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/fastprodman/pokerledger/internal/infra/pgtestutil"
	"github.com/fastprodman/pokerledger/internal/notify"
	"github.com/fastprodman/pokerledger/internal/repos/games"
	"github.com/fastprodman/pokerledger/internal/settlement"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (n *recordingNotifier) Notify(_ context.Context, msgs []notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.msgs = append(n.msgs, msgs...)

	return nil
}

func seedProfile(t *testing.T, db *sql.DB, name, email string) uint64 {
	t.Helper()

	var id uint64

	err := db.QueryRow(`
		INSERT INTO profiles (name, email, opt_in) VALUES ($1, $2, $3) RETURNING id
	`, name, email, email != "").Scan(&id)
	require.NoError(t, err)

	return id
}

type fixture struct {
	svc      *GamesService
	notifier *recordingNotifier
	metrics  *Metrics
	alice    uint64
	bob      uint64
	carol    uint64
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db, cleanup := pgtestutil.NewTestDB(t)
	t.Cleanup(cleanup)

	n := &recordingNotifier{}
	m := NewMetrics(prometheus.NewRegistry())

	return fixture{
		svc:      New(db, n, m, nil),
		notifier: n,
		metrics:  m,
		alice:    seedProfile(t, db, "Alice", "alice@example.com"),
		bob:      seedProfile(t, db, "Bob", "bob@example.com"),
		carol:    seedProfile(t, db, "Carol", ""),
	}
}

func (f fixture) threeWay(t *testing.T) games.Game {
	t.Helper()

	g, err := f.svc.CreateGame(t.Context(), NewGame{
		BuyInValue: decimal.NewFromInt(10),
		Players: []NewPlayer{
			{ProfileID: f.alice, BuyIns: 1},
			{ProfileID: f.bob, BuyIns: 4},
			{ProfileID: f.carol, BuyIns: 3},
		},
	})
	require.NoError(t, err)

	return g
}

func (f fixture) cashOut(t *testing.T, gameID uint64, returns map[uint64]int64) {
	t.Helper()

	g, err := f.svc.GetGame(t.Context(), gameID)
	require.NoError(t, err)

	for _, p := range g.Players {
		r, ok := returns[p.ProfileID]
		if !ok {
			continue
		}

		_, err = f.svc.UpdatePlayer(t.Context(), gameID, p.ProfileID, PlayerUpdate{BuyIns: p.BuyIns, ReturnBuyIns: &r})
		require.NoError(t, err)
	}
}

func TestGamesService_SettleFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()
	g := f.threeWay(t)

	_, err := f.svc.Settle(ctx, g.ID)

	var incomplete *settlement.IncompleteDataError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, incomplete.Names())

	f.cashOut(t, g.ID, map[uint64]int64{f.alice: 6, f.bob: 1, f.carol: 2})

	_, err = f.svc.Settle(ctx, g.ID)

	var unbalanced *settlement.UnbalancedTotalsError
	require.ErrorAs(t, err, &unbalanced)
	assert.Equal(t, int64(1), unbalanced.Residual)

	f.cashOut(t, g.ID, map[uint64]int64{f.carol: 1})

	// Bob already handed Alice 10 in cash.
	_, err = f.svc.AddManualSettlement(ctx, g.ID, ManualSettlement{From: f.bob, To: f.alice, Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)

	remaining, err := f.svc.Remaining(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 3)
	assert.True(t, remaining[0].Amount.Equal(decimal.NewFromInt(40)), remaining[0].Amount.String())
	assert.True(t, remaining[1].Amount.Equal(decimal.NewFromInt(-20)), remaining[1].Amount.String())
	assert.True(t, remaining[1].Points.Equal(decimal.NewFromInt(-2)), remaining[1].Points.String())

	settled, err := f.svc.Settle(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, settled.IsSettled)
	require.Len(t, settled.Settlements, 3)

	assert.True(t, settled.Settlements[0].Manual)
	assert.Equal(t, f.bob, settled.Settlements[1].From)
	assert.True(t, settled.Settlements[1].Amount.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, f.carol, settled.Settlements[2].From)
	assert.True(t, settled.Settlements[2].Amount.Equal(decimal.NewFromInt(20)))

	remaining, err = f.svc.Remaining(ctx, g.ID)
	require.NoError(t, err)

	for _, r := range remaining {
		assert.True(t, r.Amount.IsZero(), "%s still has %s", r.Name, r.Amount)
	}

	_, err = f.svc.Settle(ctx, g.ID)
	require.ErrorIs(t, err, ErrGameSettled)

	_, err = f.svc.UpdatePlayer(ctx, g.ID, f.alice, PlayerUpdate{BuyIns: 2})
	require.ErrorIs(t, err, ErrGameSettled)

	// Carol has not opted in: two messages per Bob transfer, one for hers.
	assert.Len(t, f.notifier.msgs, 5)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.SettleRuns.WithLabelValues("settled")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.SettleRuns.WithLabelValues("incomplete")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(f.metrics.TransfersCreated.WithLabelValues("generated")), 0)

	stats, err := f.svc.Stats(ctx, nil)
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, "Alice", stats[0].Name)
	assert.True(t, stats[0].Net.Equal(decimal.NewFromInt(50)))
}

func TestGamesService_ManualSettlementLimits(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()
	g := f.threeWay(t)
	f.cashOut(t, g.ID, map[uint64]int64{f.alice: 6, f.bob: 1, f.carol: 1})

	tests := []struct {
		name    string
		in      ManualSettlement
		wantErr error
	}{
		{name: "zero", in: ManualSettlement{From: f.bob, To: f.alice}, wantErr: ErrValidation},
		{name: "winner_pays", in: ManualSettlement{From: f.alice, To: f.bob, Amount: decimal.NewFromInt(1)}, wantErr: settlement.ErrInvalidManualSettlement},
		{name: "loser_paid", in: ManualSettlement{From: f.bob, To: f.carol, Amount: decimal.NewFromInt(1)}, wantErr: settlement.ErrInvalidManualSettlement},
		{name: "exceeds_owed", in: ManualSettlement{From: f.carol, To: f.alice, Amount: decimal.NewFromInt(21)}, wantErr: settlement.ErrInvalidManualSettlement},
		{name: "not_seated", in: ManualSettlement{From: 999, To: f.alice, Amount: decimal.NewFromInt(1)}, wantErr: settlement.ErrInvalidManualSettlement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddManualSettlement(ctx, g.ID, tt.in)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	got, err := f.svc.AddManualSettlement(ctx, g.ID, ManualSettlement{From: f.carol, To: f.alice, Amount: decimal.NewFromInt(20)})
	require.NoError(t, err)
	require.Len(t, got.Settlements, 1)

	// Carol is square now.
	_, err = f.svc.AddManualSettlement(ctx, g.ID, ManualSettlement{From: f.carol, To: f.alice, Amount: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, settlement.ErrInvalidManualSettlement)
}

func TestGamesService_UpdatePlayerKeepsManualSettlementsValid(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()
	g := f.threeWay(t)
	f.cashOut(t, g.ID, map[uint64]int64{f.alice: 6, f.bob: 1, f.carol: 1})

	_, err := f.svc.AddManualSettlement(ctx, g.ID, ManualSettlement{From: f.bob, To: f.alice, Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)

	zero, nine := int64(0), int64(9)

	tests := []struct {
		name      string
		profileID uint64
		upd       PlayerUpdate
	}{
		{name: "payee_becomes_loser", profileID: f.alice, upd: PlayerUpdate{BuyIns: 1, ReturnBuyIns: &zero}},
		{name: "payer_becomes_winner", profileID: f.bob, upd: PlayerUpdate{BuyIns: 4, ReturnBuyIns: &nine}},
		{name: "payer_return_cleared", profileID: f.bob, upd: PlayerUpdate{BuyIns: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UpdatePlayer(ctx, g.ID, tt.profileID, tt.upd)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	got, err := f.svc.GetGame(ctx, g.ID)
	require.NoError(t, err)

	alice, ok := got.Player(f.alice)
	require.True(t, ok)
	require.NotNil(t, alice.ReturnBuyIns)
	assert.Equal(t, int64(6), *alice.ReturnBuyIns)

	// Edits that keep every sign are accepted.
	f.cashOut(t, g.ID, map[uint64]int64{f.alice: 5, f.bob: 2})

	settled, err := f.svc.Settle(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, settled.Settlements, 3)
	assert.True(t, settled.IsSettled)
}

func TestGamesService_NotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()

	_, err := f.svc.GetGame(ctx, 404)
	require.ErrorIs(t, err, games.ErrGameNotFound)

	_, err = f.svc.Settle(ctx, 404)
	require.ErrorIs(t, err, games.ErrGameNotFound)

	err = f.svc.DeleteGame(ctx, 404)
	require.ErrorIs(t, err, games.ErrGameNotFound)

	g := f.threeWay(t)

	_, err = f.svc.UpdatePlayer(ctx, g.ID, 999, PlayerUpdate{BuyIns: 1})
	require.ErrorIs(t, err, games.ErrPlayerNotFound)

	_, err = f.svc.CreateGame(ctx, NewGame{
		BuyInValue: decimal.NewFromInt(1),
		Players:    []NewPlayer{{ProfileID: f.alice}, {ProfileID: 999}},
	})
	require.ErrorIs(t, err, games.ErrUnknownProfile)
}

func TestGamesService_ConcurrentSettleOnce(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	g := f.threeWay(t)
	f.cashOut(t, g.ID, map[uint64]int64{f.alice: 6, f.bob: 1, f.carol: 1})

	const workers = 6

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		refused int
	)

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := f.svc.Settle(t.Context(), g.ID)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrGameSettled):
				refused++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, refused)

	got, err := f.svc.GetGame(t.Context(), g.ID)
	require.NoError(t, err)
	assert.Len(t, got.Settlements, 2)
}
