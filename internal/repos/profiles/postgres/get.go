package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/pokerledger/internal/repos/profiles"
)

func (r *profilesRepo) Get(ctx context.Context, id uint64) (profiles.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return profiles.Profile{}, profiles.ErrProfileNotFound
		}

		return profiles.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return p, nil
}

func (r *profilesRepo) List(ctx context.Context) ([]profiles.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	return collect(rows)
}

func (r *profilesRepo) ListByIDs(ctx context.Context, ids []uint64) ([]profiles.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]int64, len(ids))
	for i, id := range ids {
		keys[i] = int64(id)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE id = ANY($1)
		ORDER BY id
	`, keys)
	if err != nil {
		return nil, fmt.Errorf("list profiles by id: %w", err)
	}

	return collect(rows)
}

func collect(rows *sql.Rows) ([]profiles.Profile, error) {
	//nolint:errcheck
	defer rows.Close()

	var out []profiles.Profile

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}

		out = append(out, p)
	}

	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return out, nil
}
