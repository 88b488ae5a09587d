package games

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/pokerledger/internal/infra/pgutils"
	"github.com/fastprodman/pokerledger/internal/repos/games"
)

// Insert stores the game and seats its players in slice order.
func (r *gamesRepo) Insert(ctx context.Context, tx *sql.Tx, g games.Game) (uint64, error) {
	var id uint64

	err := tx.QueryRowContext(ctx, `
		INSERT INTO games (play_date, buy_in_value, buy_in_points)
		VALUES ($1, $2, $3)
		RETURNING id
	`, g.PlayDate, g.BuyInValue, g.BuyInPoints).Scan(&id)
	if err != nil {
		if pgutils.IsCheckViolation(err) {
			return 0, fmt.Errorf("insert game: %w", games.ErrOutOfRange)
		}

		return 0, fmt.Errorf("insert game: %w", err)
	}

	for seat, p := range g.Players {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO game_players (game_id, profile_id, seat, buy_ins, return_buy_ins)
			VALUES ($1, $2, $3, $4, $5)
		`, id, p.ProfileID, seat, p.BuyIns, p.ReturnBuyIns)
		if err != nil {
			switch {
			case pgutils.IsForeignKeyViolation(err):
				return 0, fmt.Errorf("seat profile %d: %w", p.ProfileID, games.ErrUnknownProfile)
			case pgutils.IsUniqueViolation(err):
				return 0, fmt.Errorf("seat profile %d: %w", p.ProfileID, games.ErrDuplicatePlayer)
			case pgutils.IsCheckViolation(err):
				return 0, fmt.Errorf("seat profile %d: %w", p.ProfileID, games.ErrOutOfRange)
			default:
				return 0, fmt.Errorf("insert player: %w", err)
			}
		}
	}

	return id, nil
}
