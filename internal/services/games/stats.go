package games

import (
	"context"
	"fmt"
	"slices"

	"github.com/fastprodman/pokerledger/internal/repos/games"
	"github.com/shopspring/decimal"
)

// Stats sums each player's winnings over all settled games, best first.
// An empty profileIDs selects everyone.
func (s *GamesService) Stats(ctx context.Context, profileIDs []uint64) ([]Stat, error) {
	settled, err := s.games.List(ctx, games.ListFilter{SettledOnly: true})
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	return aggregateStats(settled, profileIDs), nil
}

func aggregateStats(settled []games.Game, profileIDs []uint64) []Stat {
	byID := make(map[uint64]*Stat)

	var order []uint64

	for _, g := range settled {
		for _, p := range g.Players {
			if len(profileIDs) > 0 && !slices.Contains(profileIDs, p.ProfileID) {
				continue
			}

			points, _ := p.Balance()

			st, ok := byID[p.ProfileID]
			if !ok {
				st = &Stat{ProfileID: p.ProfileID, Name: p.Name, Net: decimal.Zero}
				byID[p.ProfileID] = st
				order = append(order, p.ProfileID)
			}

			st.Games++
			st.Net = st.Net.Add(decimal.NewFromInt(points).Mul(g.BuyInValue))
		}
	}

	out := make([]Stat, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}

	slices.SortStableFunc(out, func(a, b Stat) int {
		return b.Net.Cmp(a.Net)
	})

	return out
}
