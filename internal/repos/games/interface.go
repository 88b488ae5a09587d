package games

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrPlayerNotFound  = errors.New("player not seated in game")
	ErrUnknownProfile  = errors.New("unknown profile")
	ErrDuplicatePlayer = errors.New("player seated twice")
	ErrOutOfRange      = errors.New("value out of range")
)

// Player is a profile seated in a game. ReturnBuyIns is nil until entered.
type Player struct {
	ProfileID    uint64
	Name         string
	BuyIns       int64
	ReturnBuyIns *int64
}

// Settlement is a stored transfer. Seq orders the transfers of a game.
type Settlement struct {
	Seq       int
	From      uint64
	To        uint64
	Amount    decimal.Decimal
	Manual    bool
	CreatedAt time.Time
}

// Game is one session. BuyInValue is the currency value of one point.
type Game struct {
	ID          uint64
	PlayDate    time.Time
	BuyInValue  decimal.Decimal
	BuyInPoints int64
	IsSettled   bool
	SettledAt   *time.Time
	Players     []Player
	Settlements []Settlement
}

type ListFilter struct {
	SettledOnly bool
}

type Games interface {
	Insert(ctx context.Context, tx *sql.Tx, g Game) (uint64, error)
	Get(ctx context.Context, gameID uint64) (Game, error)
	List(ctx context.Context, filter ListFilter) ([]Game, error)
	Delete(ctx context.Context, gameID uint64) error
	LockAndGet(ctx context.Context, tx *sql.Tx, gameID uint64) (Game, error)
	UpdatePlayer(ctx context.Context, tx *sql.Tx, gameID uint64, p Player) error
	AppendSettlements(ctx context.Context, tx *sql.Tx, gameID uint64, s []Settlement) error
	MarkSettled(ctx context.Context, tx *sql.Tx, gameID uint64) error
}
