package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fastprodman/pokerledger/internal/notify"
	"github.com/fastprodman/pokerledger/internal/repos/profiles"
	pgprofiles "github.com/fastprodman/pokerledger/internal/repos/profiles/postgres"
)

var ErrValidation = errors.New("invalid profile")

type ProfilesService struct {
	profiles profiles.Profiles
	logger   *slog.Logger
}

func New(dbx *sql.DB, logger *slog.Logger) *ProfilesService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ProfilesService{
		profiles: pgprofiles.New(dbx),
		logger:   logger.With("component", "profiles"),
	}
}

func (s *ProfilesService) Create(ctx context.Context, p profiles.Profile) (profiles.Profile, error) {
	p, err := normalize(p)
	if err != nil {
		return profiles.Profile{}, err
	}

	p.ID, err = s.profiles.Insert(ctx, p)
	if err != nil {
		return profiles.Profile{}, fmt.Errorf("create profile: %w", err)
	}

	s.logger.InfoContext(ctx, "profile created", "profile_id", p.ID)

	return p, nil
}

func (s *ProfilesService) Get(ctx context.Context, id uint64) (profiles.Profile, error) {
	p, err := s.profiles.Get(ctx, id)
	if err != nil {
		return profiles.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return p, nil
}

func (s *ProfilesService) List(ctx context.Context) ([]profiles.Profile, error) {
	list, err := s.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	return list, nil
}

func (s *ProfilesService) Update(ctx context.Context, p profiles.Profile) (profiles.Profile, error) {
	p, err := normalize(p)
	if err != nil {
		return profiles.Profile{}, err
	}

	err = s.profiles.Update(ctx, p)
	if err != nil {
		return profiles.Profile{}, fmt.Errorf("update profile: %w", err)
	}

	return p, nil
}

// Delete removes a profile that never sat in a game.
func (s *ProfilesService) Delete(ctx context.Context, id uint64) error {
	err := s.profiles.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	s.logger.InfoContext(ctx, "profile deleted", "profile_id", id)

	return nil
}

func normalize(p profiles.Profile) (profiles.Profile, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Carrier = strings.ToLower(strings.TrimSpace(p.Carrier))

	switch {
	case p.Name == "":
		return p, fmt.Errorf("%w: name is required", ErrValidation)
	case !notify.ValidEmail(p.Email):
		return p, fmt.Errorf("%w: malformed email %q", ErrValidation, p.Email)
	case !notify.KnownCarrier(p.Carrier):
		return p, fmt.Errorf("%w: unknown carrier %q", ErrValidation, p.Carrier)
	case p.Carrier != "" && p.Phone == "":
		return p, fmt.Errorf("%w: carrier set without a phone number", ErrValidation)
	}

	return p, nil
}
