package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fastprodman/pokerledger/internal/settlement"
	"github.com/shopspring/decimal"
)

type gameFile struct {
	BuyInValue decimal.Decimal `json:"buyInValue"`
	Players    []playerEntry   `json:"players"`
	Manual     []manualEntry   `json:"manual"`
}

type playerEntry struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	BuyIns       int64  `json:"buyIns"`
	ReturnBuyIns *int64 `json:"returnBuyIns"`
}

type manualEntry struct {
	From   uint64          `json:"from"`
	To     uint64          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// readGame decodes a game file into engine input.
func readGame(r io.Reader) ([]settlement.Player, []settlement.Settlement, decimal.Decimal, error) {
	var f gameFile

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	err := dec.Decode(&f)
	if err != nil {
		return nil, nil, decimal.Zero, fmt.Errorf("decode game file: %w", err)
	}

	if len(f.Players) == 0 {
		return nil, nil, decimal.Zero, errors.New("game file has no players")
	}

	players := make([]settlement.Player, 0, len(f.Players))
	seen := make(map[uint64]bool, len(f.Players))

	for i, p := range f.Players {
		if p.ID == 0 {
			p.ID = uint64(i + 1)
		}

		if seen[p.ID] {
			return nil, nil, decimal.Zero, fmt.Errorf("player id %d listed twice", p.ID)
		}

		seen[p.ID] = true

		players = append(players, settlement.Player{
			ID:           settlement.PlayerID(p.ID),
			Name:         p.Name,
			BuyIns:       p.BuyIns,
			ReturnBuyIns: p.ReturnBuyIns,
		})
	}

	manual := make([]settlement.Settlement, 0, len(f.Manual))
	for _, m := range f.Manual {
		manual = append(manual, settlement.Settlement{
			From:   settlement.PlayerID(m.From),
			To:     settlement.PlayerID(m.To),
			Amount: m.Amount,
		})
	}

	return players, manual, f.BuyInValue, nil
}

// transferTable renders the settlement list as pterm table rows.
func transferTable(players []settlement.Player, res settlement.Result) [][]string {
	names := make(map[settlement.PlayerID]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
		if p.Name == "" {
			names[p.ID] = fmt.Sprintf("player %d", p.ID)
		}
	}

	rows := [][]string{{"#", "From", "To", "Amount", "Kind"}}

	for i, s := range res.Settlements {
		kind := "generated"
		if s.Manual {
			kind = "manual"
		}

		rows = append(rows, []string{
			fmt.Sprint(i + 1), names[s.From], names[s.To], s.Amount.StringFixed(2), kind,
		})
	}

	return rows
}

// balanceTable lists each player's net result in points and currency.
func balanceTable(players []settlement.Player, rate decimal.Decimal) [][]string {
	rows := [][]string{{"Player", "Buy-ins", "Returned", "Points", "Amount"}}

	for _, p := range players {
		points, ok := settlement.Points(p)
		if !ok {
			rows = append(rows, []string{p.Name, fmt.Sprint(p.BuyIns), "-", "-", "-"})
			continue
		}

		rows = append(rows, []string{
			p.Name,
			fmt.Sprint(p.BuyIns),
			fmt.Sprint(*p.ReturnBuyIns),
			fmt.Sprint(points),
			decimal.NewFromInt(points).Mul(rate).StringFixed(2),
		})
	}

	return rows
}
