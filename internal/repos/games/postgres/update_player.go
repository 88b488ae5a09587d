package games

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/pokerledger/internal/infra/pgutils"
	"github.com/fastprodman/pokerledger/internal/repos/games"
)

func (r *gamesRepo) UpdatePlayer(ctx context.Context, tx *sql.Tx, gameID uint64, p games.Player) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE game_players
		SET buy_ins = $3, return_buy_ins = $4
		WHERE game_id = $1
		  AND profile_id = $2
	`, gameID, p.ProfileID, p.BuyIns, p.ReturnBuyIns)
	if err != nil {
		if pgutils.IsCheckViolation(err) {
			return fmt.Errorf("update player: %w", games.ErrOutOfRange)
		}

		return fmt.Errorf("update player: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return games.ErrPlayerNotFound
	}

	return nil
}
