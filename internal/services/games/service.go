package games

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fastprodman/pokerledger/internal/infra/pgutils"
	"github.com/fastprodman/pokerledger/internal/notify"
	"github.com/fastprodman/pokerledger/internal/repos/games"
	pggames "github.com/fastprodman/pokerledger/internal/repos/games/postgres"
	"github.com/fastprodman/pokerledger/internal/repos/profiles"
	pgprofiles "github.com/fastprodman/pokerledger/internal/repos/profiles/postgres"
	"github.com/fastprodman/pokerledger/internal/settlement"
)

type GamesService struct {
	db       *sql.DB
	games    games.Games
	profiles profiles.Profiles
	notifier notify.Notifier
	metrics  *Metrics
	logger   *slog.Logger
}

// New wires the service to Postgres. A nil notifier discards messages and
// nil metrics are not recorded.
func New(dbx *sql.DB, notifier notify.Notifier, metrics *Metrics, logger *slog.Logger) *GamesService {
	if notifier == nil {
		notifier = notify.Discard{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &GamesService{
		db:       dbx,
		games:    pggames.New(dbx),
		profiles: pgprofiles.New(dbx),
		notifier: notifier,
		metrics:  metrics,
		logger:   logger.With("component", "games"),
	}
}

func (s *GamesService) CreateGame(ctx context.Context, in NewGame) (games.Game, error) {
	g, err := newGame(in)
	if err != nil {
		return games.Game{}, err
	}

	var id uint64

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		id, err = s.games.Insert(ctx, tx, g)

		return err
	})
	if err != nil {
		return games.Game{}, fmt.Errorf("create game: %w", err)
	}

	s.logger.InfoContext(ctx, "game created", "game_id", id, "players", len(g.Players))

	return s.GetGame(ctx, id)
}

func (s *GamesService) GetGame(ctx context.Context, gameID uint64) (games.Game, error) {
	g, err := s.games.Get(ctx, gameID)
	if err != nil {
		return games.Game{}, fmt.Errorf("get game: %w", err)
	}

	return g, nil
}

func (s *GamesService) ListGames(ctx context.Context, filter games.ListFilter) ([]games.Game, error) {
	list, err := s.games.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	return list, nil
}

func (s *GamesService) DeleteGame(ctx context.Context, gameID uint64) error {
	err := s.games.Delete(ctx, gameID)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}

	s.logger.InfoContext(ctx, "game deleted", "game_id", gameID)

	return nil
}

// UpdatePlayer replaces a seated player's buy-in counts on an open game.
func (s *GamesService) UpdatePlayer(ctx context.Context, gameID, profileID uint64, upd PlayerUpdate) (games.Game, error) {
	err := validatePlayer(upd.BuyIns, upd.ReturnBuyIns)
	if err != nil {
		return games.Game{}, err
	}

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		g, err := s.lockOpen(ctx, tx, gameID)
		if err != nil {
			return err
		}

		p, ok := g.Player(profileID)
		if !ok {
			return games.ErrPlayerNotFound
		}

		p.BuyIns = upd.BuyIns
		p.ReturnBuyIns = upd.ReturnBuyIns

		// Recorded manual settlements must stay valid or the game could
		// never be settled.
		if len(g.Settlements) > 0 {
			updated := make([]games.Player, len(g.Players))
			copy(updated, g.Players)

			for i := range updated {
				if updated[i].ProfileID == profileID {
					updated[i] = p
				}
			}

			err = settlement.CheckManual(enginePlayers(updated), engineSettlements(g.Settlements), g.BuyInValue)
			if err != nil {
				return fmt.Errorf("%w: edit conflicts with recorded settlements: %v", ErrValidation, err)
			}
		}

		return s.games.UpdatePlayer(ctx, tx, gameID, p)
	})
	if err != nil {
		return games.Game{}, fmt.Errorf("update player: %w", err)
	}

	return s.GetGame(ctx, gameID)
}

// AddManualSettlement records a payment players made among themselves.
// The payer must still owe money, the payee must still be owed money and
// the amount may not exceed either remaining balance.
func (s *GamesService) AddManualSettlement(ctx context.Context, gameID uint64, in ManualSettlement) (games.Game, error) {
	if !in.Amount.IsPositive() {
		return games.Game{}, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		g, err := s.lockOpen(ctx, tx, gameID)
		if err != nil {
			return err
		}

		remaining := settlement.Remaining(enginePlayers(g.Players), engineSettlements(g.Settlements), g.BuyInValue)

		limit, err := settlement.MaxManualAmount(remaining, settlement.PlayerID(in.From), settlement.PlayerID(in.To))
		if err != nil {
			return err
		}

		if in.Amount.GreaterThan(limit) {
			return fmt.Errorf("%w: amount %s exceeds remaining %s",
				settlement.ErrInvalidManualSettlement, in.Amount.StringFixed(2), limit.StringFixed(2))
		}

		return s.games.AppendSettlements(ctx, tx, gameID, []games.Settlement{
			{From: in.From, To: in.To, Amount: in.Amount, Manual: true},
		})
	})
	if err != nil {
		return games.Game{}, fmt.Errorf("add manual settlement: %w", err)
	}

	s.metrics.ObserveTransfers("manual", 1)
	s.logger.InfoContext(ctx, "manual settlement recorded",
		"game_id", gameID, "from", in.From, "to", in.To, "amount", in.Amount.String())

	return s.GetGame(ctx, gameID)
}

// Remaining projects the open balances of the players that have cashed out.
func (s *GamesService) Remaining(ctx context.Context, gameID uint64) ([]RemainingBalance, error) {
	g, err := s.games.Get(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("remaining: %w", err)
	}

	names := make(map[uint64]string, len(g.Players))
	for _, p := range g.Players {
		names[p.ProfileID] = p.Name
	}

	balances := settlement.Remaining(enginePlayers(g.Players), engineSettlements(g.Settlements), g.BuyInValue)

	out := make([]RemainingBalance, 0, len(balances))
	for _, b := range balances {
		out = append(out, RemainingBalance{
			ProfileID: uint64(b.PlayerID),
			Name:      names[uint64(b.PlayerID)],
			Points:    b.Points(),
			Amount:    b.Amount,
		})
	}

	return out, nil
}

// Settle runs the settlement engine under the game's row lock, stores the
// generated transfers and marks the game settled. Players are notified once
// the transaction has committed.
func (s *GamesService) Settle(ctx context.Context, gameID uint64) (games.Game, error) {
	start := time.Now()

	var result settlement.Result

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		g, err := s.lockOpen(ctx, tx, gameID)
		if err != nil {
			return err
		}

		result, err = settlement.Settle(enginePlayers(g.Players), engineSettlements(g.Settlements), g.BuyInValue)
		if err != nil {
			return err
		}

		err = s.games.AppendSettlements(ctx, tx, gameID, storedSettlements(result.Generated()))
		if err != nil {
			return fmt.Errorf("store transfers: %w", err)
		}

		return s.games.MarkSettled(ctx, tx, gameID)
	})

	s.metrics.ObserveSettle(settleOutcome(err), time.Since(start))

	if err != nil {
		s.logger.WarnContext(ctx, "settle failed", "game_id", gameID, "error", err)
		return games.Game{}, fmt.Errorf("settle game %d: %w", gameID, err)
	}

	generated := len(result.Generated())
	s.metrics.ObserveTransfers("generated", generated)
	s.logger.InfoContext(ctx, "game settled", "game_id", gameID, "transfers", generated,
		"manual", len(result.Settlements)-generated)

	s.notifyPlayers(ctx, gameID, result.Settlements)

	return s.GetGame(ctx, gameID)
}

// lockOpen locks the game and refuses to continue once it is settled.
func (s *GamesService) lockOpen(ctx context.Context, tx *sql.Tx, gameID uint64) (games.Game, error) {
	g, err := s.games.LockAndGet(ctx, tx, gameID)
	if err != nil {
		return games.Game{}, err
	}

	if g.IsSettled {
		return games.Game{}, ErrGameSettled
	}

	return g, nil
}

// notifyPlayers is best effort: failures are logged, never returned.
func (s *GamesService) notifyPlayers(ctx context.Context, gameID uint64, result []settlement.Settlement) {
	if len(result) == 0 {
		return
	}

	ids := make([]uint64, 0, len(result)*2)
	transfers := make([]notify.Transfer, 0, len(result))

	for _, st := range result {
		ids = append(ids, uint64(st.From), uint64(st.To))
		transfers = append(transfers, notify.Transfer{From: uint64(st.From), To: uint64(st.To), Amount: st.Amount})
	}

	list, err := s.profiles.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.ErrorContext(ctx, "load contacts", "game_id", gameID, "error", err)
		return
	}

	contacts := make([]notify.Contact, 0, len(list))
	for _, p := range list {
		contacts = append(contacts, notify.Contact{
			ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone, Carrier: p.Carrier, OptIn: p.OptIn,
		})
	}

	msgs, err := notify.Compose(gameID, transfers, contacts)
	if err != nil {
		s.logger.WarnContext(ctx, "some players cannot be notified", "game_id", gameID, "error", err)
	}

	if len(msgs) == 0 {
		return
	}

	err = s.notifier.Notify(ctx, msgs)
	if err != nil {
		s.logger.ErrorContext(ctx, "notify players", "game_id", gameID, "error", err)
		return
	}

	s.metrics.ObserveNotifications(len(msgs))
}

func settleOutcome(err error) string {
	switch {
	case err == nil:
		return "settled"
	case errors.Is(err, ErrGameSettled):
		return "already_settled"
	case errors.Is(err, settlement.ErrIncompleteData):
		return "incomplete"
	case errors.Is(err, settlement.ErrUnbalancedTotals):
		return "unbalanced"
	case errors.Is(err, settlement.ErrInvalidManualSettlement):
		return "invalid_manual"
	case errors.Is(err, games.ErrGameNotFound):
		return "not_found"
	default:
		return "error"
	}
}
