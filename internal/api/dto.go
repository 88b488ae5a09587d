package api

import (
	"fmt"
	"time"

	"github.com/fastprodman/pokerledger/internal/repos/games"
	"github.com/fastprodman/pokerledger/internal/repos/profiles"
	gamessvc "github.com/fastprodman/pokerledger/internal/services/games"
	"github.com/shopspring/decimal"
)

type errorResponse struct {
	Error    string   `json:"error"`
	Players  []string `json:"players,omitempty"`
	Residual *int64   `json:"residual,omitempty"`
	Hint     string   `json:"hint,omitempty"`
}

// money renders amounts with two fractional digits.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func parseMoney(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s", field)
	}

	if !d.Equal(d.Round(2)) {
		return decimal.Zero, fmt.Errorf("%s supports up to 2 decimals", field)
	}

	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%s must be > 0", field)
	}

	return d, nil
}

// --- Profiles ---

type profileDTO struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Carrier string `json:"carrier"`
	Email   string `json:"email"`
	OptIn   bool   `json:"optIn"`
}

func toProfileDTO(p profiles.Profile) profileDTO {
	return profileDTO{ID: p.ID, Name: p.Name, Phone: p.Phone, Carrier: p.Carrier, Email: p.Email, OptIn: p.OptIn}
}

type profileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Carrier string `json:"carrier"`
	Email   string `json:"email"`
	OptIn   bool   `json:"optIn"`
}

func (req profileRequest) toProfile(id uint64) profiles.Profile {
	return profiles.Profile{ID: id, Name: req.Name, Phone: req.Phone, Carrier: req.Carrier, Email: req.Email, OptIn: req.OptIn}
}

// --- Games ---

type playerDTO struct {
	ProfileID    uint64 `json:"profileId"`
	Name         string `json:"name"`
	BuyIns       int64  `json:"buyIns"`
	ReturnBuyIns *int64 `json:"returnBuyIns"`
	Balance      *int64 `json:"balance"`
}

type settlementDTO struct {
	Seq    int    `json:"seq"`
	From   uint64 `json:"from"`
	To     uint64 `json:"to"`
	Amount string `json:"amount"`
	Manual bool   `json:"manual"`
}

type gameDTO struct {
	ID                uint64          `json:"id"`
	PlayDate          time.Time       `json:"playDate"`
	BuyInValue        string          `json:"buyInValue"`
	BuyInPoints       int64           `json:"buyInPoints"`
	IsSettled         bool            `json:"isSettled"`
	SettledAt         *time.Time      `json:"settledAt,omitempty"`
	TotalBuyIns       int64           `json:"totalBuyIns"`
	TotalReturnBuyIns int64           `json:"totalReturnBuyIns"`
	TotalBalance      int64           `json:"totalBalance"`
	Players           []playerDTO     `json:"players"`
	Settlements       []settlementDTO `json:"settlements"`
}

func toGameDTO(g games.Game) gameDTO {
	out := gameDTO{
		ID:                g.ID,
		PlayDate:          g.PlayDate,
		BuyInValue:        money(g.BuyInValue),
		BuyInPoints:       g.BuyInPoints,
		IsSettled:         g.IsSettled,
		SettledAt:         g.SettledAt,
		TotalBuyIns:       g.TotalBuyIns(),
		TotalReturnBuyIns: g.TotalReturnBuyIns(),
		TotalBalance:      g.TotalBalance(),
		Players:           make([]playerDTO, 0, len(g.Players)),
		Settlements:       make([]settlementDTO, 0, len(g.Settlements)),
	}

	for _, p := range g.Players {
		dto := playerDTO{ProfileID: p.ProfileID, Name: p.Name, BuyIns: p.BuyIns, ReturnBuyIns: p.ReturnBuyIns}
		if b, ok := p.Balance(); ok {
			dto.Balance = &b
		}

		out.Players = append(out.Players, dto)
	}

	for _, s := range g.Settlements {
		out.Settlements = append(out.Settlements, settlementDTO{
			Seq: s.Seq, From: s.From, To: s.To, Amount: money(s.Amount), Manual: s.Manual,
		})
	}

	return out
}

type newPlayerRequest struct {
	ProfileID    uint64 `json:"profileId"`
	BuyIns       int64  `json:"buyIns"`
	ReturnBuyIns *int64 `json:"returnBuyIns"`
}

type gameRequest struct {
	PlayDate    *time.Time         `json:"playDate"`
	BuyInValue  string             `json:"buyInValue"`
	BuyInPoints int64              `json:"buyInPoints"`
	Players     []newPlayerRequest `json:"players"`
}

func (req gameRequest) toNewGame() (gamessvc.NewGame, error) {
	value, err := parseMoney("buyInValue", req.BuyInValue)
	if err != nil {
		return gamessvc.NewGame{}, err
	}

	in := gamessvc.NewGame{
		BuyInValue:  value,
		BuyInPoints: req.BuyInPoints,
		Players:     make([]gamessvc.NewPlayer, 0, len(req.Players)),
	}

	if req.PlayDate != nil {
		in.PlayDate = *req.PlayDate
	}

	for _, p := range req.Players {
		if p.ProfileID == 0 {
			return gamessvc.NewGame{}, fmt.Errorf("profileId required")
		}

		in.Players = append(in.Players, gamessvc.NewPlayer{
			ProfileID:    p.ProfileID,
			BuyIns:       p.BuyIns,
			ReturnBuyIns: p.ReturnBuyIns,
		})
	}

	return in, nil
}

type playerUpdateRequest struct {
	BuyIns       int64  `json:"buyIns"`
	ReturnBuyIns *int64 `json:"returnBuyIns"`
}

type manualSettlementRequest struct {
	From   uint64 `json:"from"`
	To     uint64 `json:"to"`
	Amount string `json:"amount"`
}

type remainingDTO struct {
	ProfileID uint64 `json:"profileId"`
	Name      string `json:"name"`
	Points    string `json:"points"`
	Amount    string `json:"amount"`
}

func toRemainingDTO(in []gamessvc.RemainingBalance) []remainingDTO {
	out := make([]remainingDTO, 0, len(in))
	for _, r := range in {
		out = append(out, remainingDTO{
			ProfileID: r.ProfileID,
			Name:      r.Name,
			Points:    money(r.Points),
			Amount:    money(r.Amount),
		})
	}

	return out
}

type statDTO struct {
	ProfileID uint64 `json:"profileId"`
	Name      string `json:"name"`
	Games     int    `json:"games"`
	Net       string `json:"net"`
}

func toStatDTOs(in []gamessvc.Stat) []statDTO {
	out := make([]statDTO, 0, len(in))
	for _, s := range in {
		out = append(out, statDTO{ProfileID: s.ProfileID, Name: s.Name, Games: s.Games, Net: money(s.Net)})
	}

	return out
}
