package profiles

import (
	"context"
	"errors"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileInUse    = errors.New("profile has played in a game")
)

// Profile is a regular of the home game.
type Profile struct {
	ID      uint64
	Name    string
	Phone   string
	Carrier string
	Email   string
	OptIn   bool
}

type Profiles interface {
	Insert(ctx context.Context, p Profile) (uint64, error)
	Get(ctx context.Context, id uint64) (Profile, error)
	List(ctx context.Context) ([]Profile, error)
	ListByIDs(ctx context.Context, ids []uint64) ([]Profile, error)
	Update(ctx context.Context, p Profile) error
	Delete(ctx context.Context, id uint64) error
}
