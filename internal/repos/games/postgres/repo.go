package games

import (
	"context"
	"database/sql"

	"github.com/fastprodman/pokerledger/internal/repos/games"
)

var _ games.Games = (*gamesRepo)(nil)

type gamesRepo struct{ db *sql.DB }

func New(db *sql.DB) *gamesRepo {
	return &gamesRepo{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

const gameColumns = `id, play_date, buy_in_value, buy_in_points, is_settled, settled_at`

func scanGame(row rowScanner) (games.Game, error) {
	var (
		g         games.Game
		settledAt sql.NullTime
	)

	err := row.Scan(&g.ID, &g.PlayDate, &g.BuyInValue, &g.BuyInPoints, &g.IsSettled, &settledAt)
	if err != nil {
		return games.Game{}, err
	}

	if settledAt.Valid {
		t := settledAt.Time
		g.SettledAt = &t
	}

	return g, nil
}

func toKeys(ids []uint64) []int64 {
	keys := make([]int64, len(ids))
	for i, id := range ids {
		keys[i] = int64(id)
	}

	return keys
}
