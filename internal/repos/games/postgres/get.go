package games

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/pokerledger/internal/repos/games"
)

func (r *gamesRepo) Get(ctx context.Context, gameID uint64) (games.Game, error) {
	g, err := scanGame(r.db.QueryRowContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE id = $1
	`, gameID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return games.Game{}, games.ErrGameNotFound
		}

		return games.Game{}, fmt.Errorf("get game: %w", err)
	}

	return loadDetails(ctx, r.db, g)
}

// LockAndGet loads the game holding a row lock for the rest of tx.
func (r *gamesRepo) LockAndGet(ctx context.Context, tx *sql.Tx, gameID uint64) (games.Game, error) {
	g, err := scanGame(tx.QueryRowContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE id = $1
		FOR UPDATE
	`, gameID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return games.Game{}, games.ErrGameNotFound
		}

		return games.Game{}, fmt.Errorf("lock/get game: %w", err)
	}

	return loadDetails(ctx, tx, g)
}

func loadDetails(ctx context.Context, q querier, g games.Game) (games.Game, error) {
	players, err := loadPlayers(ctx, q, []uint64{g.ID})
	if err != nil {
		return games.Game{}, err
	}

	g.Players = players[g.ID]

	g.Settlements, err = loadSettlements(ctx, q, g.ID)
	if err != nil {
		return games.Game{}, err
	}

	return g, nil
}

// loadPlayers returns the players of each game in seat order.
func loadPlayers(ctx context.Context, q querier, gameIDs []uint64) (map[uint64][]games.Player, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT gp.game_id, gp.profile_id, p.name, gp.buy_ins, gp.return_buy_ins
		FROM game_players gp
		JOIN profiles p ON p.id = gp.profile_id
		WHERE gp.game_id = ANY($1)
		ORDER BY gp.game_id, gp.seat
	`, toKeys(gameIDs))
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	out := make(map[uint64][]games.Player, len(gameIDs))

	for rows.Next() {
		var (
			gameID uint64
			p      games.Player
			ret    sql.NullInt64
		)

		err = rows.Scan(&gameID, &p.ProfileID, &p.Name, &p.BuyIns, &ret)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}

		if ret.Valid {
			v := ret.Int64
			p.ReturnBuyIns = &v
		}

		out[gameID] = append(out[gameID], p)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}

	return out, nil
}

func loadSettlements(ctx context.Context, q querier, gameID uint64) ([]games.Settlement, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT seq, from_profile_id, to_profile_id, amount, is_manual, created_at
		FROM settlements
		WHERE game_id = $1
		ORDER BY seq
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query settlements: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	var out []games.Settlement

	for rows.Next() {
		var s games.Settlement

		err = rows.Scan(&s.Seq, &s.From, &s.To, &s.Amount, &s.Manual, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}

		out = append(out, s)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate settlements: %w", err)
	}

	return out, nil
}
