package games

import (
	"context"
	"fmt"

	"github.com/fastprodman/pokerledger/internal/repos/games"
)

// List returns games newest first, with players but without settlements.
func (r *gamesRepo) List(ctx context.Context, filter games.ListFilter) ([]games.Game, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE (NOT $1::boolean OR is_settled)
		ORDER BY play_date DESC, id DESC
	`, filter.SettledOnly)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	var (
		out []games.Game
		ids []uint64
	)

	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}

		out = append(out, g)
		ids = append(ids, g.ID)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}

	if len(ids) == 0 {
		return out, nil
	}

	players, err := loadPlayers(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Players = players[out[i].ID]
	}

	return out, nil
}
