package profiles

import (
	"context"
	"fmt"

	"github.com/fastprodman/pokerledger/internal/infra/pgutils"
	"github.com/fastprodman/pokerledger/internal/repos/profiles"
)

func (r *profilesRepo) Update(ctx context.Context, p profiles.Profile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET name = $2, phone = $3, carrier = $4, email = $5, opt_in = $6
		WHERE id = $1
	`, p.ID, p.Name, p.Phone, p.Carrier, p.Email, p.OptIn)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return requireAffected(res)
}

func (r *profilesRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM profiles
		WHERE id = $1
	`, id)
	if err != nil {
		if pgutils.IsForeignKeyViolation(err) {
			return profiles.ErrProfileInUse
		}

		return fmt.Errorf("delete profile: %w", err)
	}

	return requireAffected(res)
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func requireAffected(res rowsAffecter) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return profiles.ErrProfileNotFound
	}

	return nil
}
