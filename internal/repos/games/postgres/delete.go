package games

import (
	"context"
	"fmt"

	"github.com/fastprodman/pokerledger/internal/repos/games"
)

func (r *gamesRepo) Delete(ctx context.Context, gameID uint64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM games
		WHERE id = $1
	`, gameID)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return games.ErrGameNotFound
	}

	return nil
}
