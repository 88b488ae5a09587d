package profiles

import (
	"database/sql"

	"github.com/fastprodman/pokerledger/internal/repos/profiles"
)

var _ profiles.Profiles = (*profilesRepo)(nil)

type profilesRepo struct{ db *sql.DB }

func New(db *sql.DB) *profilesRepo {
	return &profilesRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

const profileColumns = `id, name, phone, carrier, email, opt_in`

func scanProfile(row rowScanner) (profiles.Profile, error) {
	var p profiles.Profile

	err := row.Scan(&p.ID, &p.Name, &p.Phone, &p.Carrier, &p.Email, &p.OptIn)

	return p, err
}
