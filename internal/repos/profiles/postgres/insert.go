package profiles

import (
	"context"
	"fmt"

	"github.com/fastprodman/pokerledger/internal/repos/profiles"
)

func (r *profilesRepo) Insert(ctx context.Context, p profiles.Profile) (uint64, error) {
	var id uint64

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO profiles (name, phone, carrier, email, opt_in)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, p.Name, p.Phone, p.Carrier, p.Email, p.OptIn).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert profile: %w", err)
	}

	return id, nil
}
