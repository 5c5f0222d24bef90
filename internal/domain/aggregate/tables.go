package aggregate

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/okian/pldash/internal/domain/model"
)

// QuickStats are the side-panel figures of a view.
type QuickStats struct {
	TeamsAnalyzed int     `json:"teams_analyzed"`
	TotalRevenue  float64 `json:"total_revenue"`
	AvgGrowth     float64 `json:"avg_growth"`

	// Current season only.
	AvgPoints    *float64 `json:"avg_points,omitempty"`
	TopPerformer string   `json:"top_performer,omitempty"`

	// Historical seasons only.
	TopRevenueTeam string `json:"top_revenue_team,omitempty"`
}

// Stats derives the quick stats of a scored or unscored view. Ties go to
// the first row.
func Stats(view View) QuickStats {
	qs := QuickStats{
		TeamsAnalyzed: len(view.Rows),
		TotalRevenue:  view.KPIs.TotalRevenue,
		AvgGrowth:     view.KPIs.AvgGrowth,
	}
	if len(view.Rows) == 0 {
		return qs
	}

	if view.HasPerformanceData {
		withPerf := lo.Filter(view.Rows, func(r model.ScoredTeamRow, _ int) bool { return r.Performance != nil })
		if len(withPerf) > 0 {
			avg := lo.SumBy(withPerf, func(r model.ScoredTeamRow) float64 { return float64(r.Performance.Points) }) / float64(len(withPerf))
			qs.AvgPoints = &avg
			qs.TopPerformer = lo.MaxBy(withPerf, func(a, b model.ScoredTeamRow) bool {
				return a.Performance.Points > b.Performance.Points
			}).Team
		}
		return qs
	}

	qs.TopRevenueTeam = lo.MaxBy(view.Rows, func(a, b model.ScoredTeamRow) bool {
		return a.TotalRevenue > b.TotalRevenue
	}).Team
	return qs
}

// FEIRow is one line of the efficiency ranking.
type FEIRow struct {
	Team               string  `json:"team"`
	TotalRevenue       float64 `json:"total_revenue"`
	RevenueGrowthPct   float64 `json:"revenue_growth_pct"`
	CommercialSharePct float64 `json:"commercial_share_pct"`
	MatchdaySharePct   float64 `json:"matchday_share_pct"`
	Points             *int    `json:"points,omitempty"`
	FEI                float64 `json:"fei"`
}

// FEITable ranks scored rows by FEI, highest first. Equal scores keep row order.
func FEITable(rows []model.ScoredTeamRow) []FEIRow {
	table := lo.Map(rows, func(r model.ScoredTeamRow, _ int) FEIRow {
		out := FEIRow{
			Team:               r.Team,
			TotalRevenue:       r.TotalRevenue,
			RevenueGrowthPct:   r.RevenueGrowthPct,
			CommercialSharePct: round(r.CommercialShare*100, 1),
			MatchdaySharePct:   round(r.MatchdayShare*100, 1),
			FEI:                r.FEI,
		}
		if r.Performance != nil {
			points := r.Performance.Points
			out.Points = &points
		}
		return out
	})
	slices.SortStableFunc(table, func(a, b FEIRow) int { return cmp.Compare(b.FEI, a.FEI) })
	return table
}

// RevenueBreakdown is the per-stream split of one team's revenue.
type RevenueBreakdown struct {
	Team         string  `json:"team"`
	Season       string  `json:"season"`
	Matchday     float64 `json:"matchday"`
	Broadcasting float64 `json:"broadcasting"`
	Commercial   float64 `json:"commercial"`
	Total        float64 `json:"total"`
}

// Breakdown returns the revenue split of team within view.
func Breakdown(view View, team string) (RevenueBreakdown, error) {
	row, ok := lo.Find(view.Rows, func(r model.ScoredTeamRow) bool { return r.Team == team })
	if !ok {
		return RevenueBreakdown{}, fmt.Errorf("%w: %q in %s", ErrTeamNotInView, team, view.Season)
	}
	return RevenueBreakdown{
		Team:         row.Team,
		Season:       row.Season,
		Matchday:     row.MatchdayRevenue,
		Broadcasting: row.BroadcastingRevenue,
		Commercial:   row.CommercialRevenue,
		Total:        row.TotalRevenue,
	}, nil
}

func round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
