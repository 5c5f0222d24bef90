package aggregate

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/okian/pldash/internal/domain/model"
)

// TeamTrend is one team's revenue history. Revenue is indexed like
// Trends.Seasons; GrowthPct[i] is the change from season i to i+1.
// Missing samples are nil.
type TeamTrend struct {
	Team      string     `json:"team"`
	Revenue   []*float64 `json:"revenue"`
	GrowthPct []*float64 `json:"growth_pct"`
}

// Trends is the season-by-team revenue pivot.
type Trends struct {
	Seasons []string    `json:"seasons"`
	Teams   []TeamTrend `json:"teams"`
}

// RevenueTrends pivots total revenue per team across all seasons, rounded to
// one decimal, and derives season-over-season growth from the rounded values.
func RevenueTrends(ctx context.Context, src Source, teams []string) (Trends, error) {
	selected := lo.Uniq(teams)
	if len(selected) == 0 {
		return Trends{}, fmt.Errorf("revenue trends: no teams selected: %w", model.ErrEmptySelection)
	}

	seasons := src.Seasons(ctx)
	seasonIdx := lo.SliceToMap(lo.Range(len(seasons)), func(i int) (string, int) { return seasons[i], i })

	byTeam := make(map[string][]*float64)
	var order []string
	for _, p := range src.RevenueHistory(ctx, selected) {
		i, ok := seasonIdx[p.Season]
		if !ok {
			continue
		}
		if _, seen := byTeam[p.Team]; !seen {
			byTeam[p.Team] = make([]*float64, len(seasons))
			order = append(order, p.Team)
		}
		v := round(p.TotalRevenue, 1)
		byTeam[p.Team][i] = &v
	}

	// Canonical team order rather than history order.
	canonical := lo.Filter(src.Teams(ctx), func(t string, _ int) bool { _, ok := byTeam[t]; return ok })
	canonical = append(canonical, lo.Without(order, canonical...)...)

	out := Trends{Seasons: seasons}
	for _, team := range canonical {
		revenue := byTeam[team]
		trend := TeamTrend{Team: team, Revenue: revenue}
		if len(revenue) > 1 {
			trend.GrowthPct = make([]*float64, len(revenue)-1)
		}
		for i := 1; i < len(revenue); i++ {
			prev, curr := revenue[i-1], revenue[i]
			if prev == nil || curr == nil {
				continue
			}
			if *prev == 0 {
				return Trends{}, fmt.Errorf("revenue trends: %s %s has zero revenue: %w", team, seasons[i-1], model.ErrDivisionByZero)
			}
			g := round((*curr-*prev) / *prev * 100, 1)
			trend.GrowthPct[i-1] = &g
		}
		out.Teams = append(out.Teams, trend)
	}
	return out, nil
}
