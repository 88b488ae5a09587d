package games

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/pokerledger/internal/infra/pgutils"
	"github.com/fastprodman/pokerledger/internal/repos/games"
)

// AppendSettlements stores s after the game's existing settlements, keeping
// slice order. The caller must hold the game lock.
func (r *gamesRepo) AppendSettlements(ctx context.Context, tx *sql.Tx, gameID uint64, s []games.Settlement) error {
	if len(s) == 0 {
		return nil
	}

	var last int

	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0)
		FROM settlements
		WHERE game_id = $1
	`, gameID).Scan(&last)
	if err != nil {
		return fmt.Errorf("last settlement seq: %w", err)
	}

	for i, st := range s {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO settlements (game_id, seq, from_profile_id, to_profile_id, amount, is_manual)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, gameID, last+i+1, st.From, st.To, st.Amount, st.Manual)
		if err != nil {
			if pgutils.IsForeignKeyViolation(err) {
				return fmt.Errorf("settlement %d -> %d: %w", st.From, st.To, games.ErrPlayerNotFound)
			}

			return fmt.Errorf("insert settlement: %w", err)
		}
	}

	return nil
}

func (r *gamesRepo) MarkSettled(ctx context.Context, tx *sql.Tx, gameID uint64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE games
		SET is_settled = TRUE, settled_at = now()
		WHERE id = $1
	`, gameID)
	if err != nil {
		return fmt.Errorf("mark settled: %w", err)
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
