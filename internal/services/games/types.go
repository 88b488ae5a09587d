package games

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrValidation  = errors.New("invalid input")
	ErrGameSettled = errors.New("game already settled")
)

const DefaultBuyInPoints = 200

type NewPlayer struct {
	ProfileID    uint64
	BuyIns       int64 // 0 means 1
	ReturnBuyIns *int64
}

type NewGame struct {
	PlayDate    time.Time // zero means now
	BuyInValue  decimal.Decimal
	BuyInPoints int64 // 0 means DefaultBuyInPoints
	Players     []NewPlayer
}

type PlayerUpdate struct {
	BuyIns       int64
	ReturnBuyIns *int64
}

type ManualSettlement struct {
	From   uint64
	To     uint64
	Amount decimal.Decimal
}

// RemainingBalance is what a player still owes (negative) or is owed
// after the recorded settlements.
type RemainingBalance struct {
	ProfileID uint64
	Name      string
	Points    decimal.Decimal
	Amount    decimal.Decimal
}

// Stat is a player's lifetime result over settled games.
type Stat struct {
	ProfileID uint64
	Name      string
	Games     int
	Net       decimal.Decimal
}
