// Package aggregate filters and joins the reference records of a request and
// computes the summary KPIs shown on the dashboard.
package aggregate

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/pldash/internal/domain/model"
)

// Source is the read side of the reference data needed by the aggregator.
type Source interface {
	Seasons(ctx context.Context) []string
	CurrentSeason(ctx context.Context) string
	Teams(ctx context.Context) []string
	PerformanceRecords(ctx context.Context) []model.TeamPerformanceRecord
	FinancialRecords(ctx context.Context, season string) ([]model.TeamFinancialRecord, error)
	SeasonTarget(ctx context.Context, season string) model.SeasonTarget
	RevenueHistory(ctx context.Context, teams []string) []model.RevenuePoint
}

// Sides of the current-season join a selected team can be missing from.
const (
	MissingFinancial   = "financial"
	MissingPerformance = "performance"
)

// Mismatch reports a selected team dropped by the filter or the join.
type Mismatch struct {
	Team    string `json:"team"`
	Missing string `json:"missing"`
}

// KPIs are the summary figures of a view, in £M and percent.
type KPIs struct {
	TotalRevenue         float64 `json:"total_revenue"`
	AvgTotalRevenue      float64 `json:"avg_total_revenue"`
	AvgCommercial        float64 `json:"avg_commercial"`
	CommercialSharePct   float64 `json:"commercial_share_pct"`
	AvgBroadcasting      float64 `json:"avg_broadcasting"`
	BroadcastingSharePct float64 `json:"broadcasting_share_pct"`
	AvgMatchday          float64 `json:"avg_matchday"`
	MatchdaySharePct     float64 `json:"matchday_share_pct"`
	AvgGrowth            float64 `json:"avg_growth"`

	// Deltas against the season target.
	TargetDiff        float64 `json:"target_diff"`
	GrowthVsBenchmark float64 `json:"growth_vs_benchmark"`
}

// View is the filtered, joined row set of one request plus its KPIs.
type View struct {
	Season             string                `json:"season"`
	HasPerformanceData bool                  `json:"has_performance_data"`
	Rows               []model.ScoredTeamRow `json:"rows"`
	KPIs               KPIs                  `json:"kpis"`
	Target             model.SeasonTarget    `json:"target"`
	Mismatches         []Mismatch            `json:"mismatches,omitempty"`
}

// BuildView selects the season's financial rows for the requested teams,
// joins performance rows for the current season and computes the KPIs.
//
// Rows keep the dataset's canonical order. When the selection yields no rows
// the returned *EmptySelectionError wraps model.ErrEmptySelection and both it
// and the view carry the season and any mismatches. Rows are not scored; FEI stays zero.
func BuildView(ctx context.Context, src Source, req model.FilterRequest) (View, error) {
	financial, err := src.FinancialRecords(ctx, req.Season)
	if err != nil {
		return View{}, fmt.Errorf("build view: %w", err)
	}

	view := View{
		Season:             req.Season,
		HasPerformanceData: req.Season == src.CurrentSeason(ctx),
		Target:             src.SeasonTarget(ctx, req.Season),
	}

	selected := lo.Uniq(req.Teams)
	if len(selected) == 0 {
		return view, &EmptySelectionError{Season: req.Season, Reason: "no teams selected"}
	}
	wanted := lo.SliceToMap(selected, func(t string) (string, struct{}) { return t, struct{}{} })

	var performance map[string]model.TeamPerformanceRecord
	if view.HasPerformanceData {
		performance = lo.SliceToMap(src.PerformanceRecords(ctx), func(p model.TeamPerformanceRecord) (string, model.TeamPerformanceRecord) {
			return p.Team, p
		})
	}

	inSeason := make(map[string]struct{}, len(financial))
	for _, rec := range financial {
		inSeason[rec.Team] = struct{}{}
		if _, ok := wanted[rec.Team]; !ok {
			continue
		}
		if !view.HasPerformanceData {
			view.Rows = append(view.Rows, model.NewScoredRow(rec, nil))
			continue
		}
		perf, ok := performance[rec.Team]
		if !ok {
			continue // inner join; reported below
		}
		view.Rows = append(view.Rows, model.NewScoredRow(rec, &perf))
	}

	for _, team := range selected {
		if _, ok := inSeason[team]; !ok {
			view.Mismatches = append(view.Mismatches, Mismatch{Team: team, Missing: MissingFinancial})
			continue
		}
		if _, ok := performance[team]; view.HasPerformanceData && !ok {
			view.Mismatches = append(view.Mismatches, Mismatch{Team: team, Missing: MissingPerformance})
		}
	}

	if len(view.Rows) == 0 {
		return view, &EmptySelectionError{Season: req.Season, Reason: "selection matched no rows", Mismatches: view.Mismatches}
	}

	kpis, err := ComputeKPIs(view.Rows, view.Target)
	if err != nil {
		return View{}, fmt.Errorf("build view %s: %w", req.Season, err)
	}
	view.KPIs = kpis
	return view, nil
}

// ComputeKPIs summarises rows against target. rows must not be empty.
func ComputeKPIs(rows []model.ScoredTeamRow, target model.SeasonTarget) (KPIs, error) {
	if len(rows) == 0 {
		return KPIs{}, model.ErrEmptySelection
	}

	var k KPIs
	for _, r := range rows {
		k.TotalRevenue += r.TotalRevenue
	}

	k.AvgTotalRevenue = mean(rows, func(r model.ScoredTeamRow) float64 { return r.TotalRevenue })
	if k.AvgTotalRevenue == 0 {
		return KPIs{}, fmt.Errorf("revenue shares: mean total revenue is zero: %w", model.ErrDivisionByZero)
	}

	k.AvgCommercial = mean(rows, func(r model.ScoredTeamRow) float64 { return r.CommercialRevenue })
	k.AvgBroadcasting = mean(rows, func(r model.ScoredTeamRow) float64 { return r.BroadcastingRevenue })
	k.AvgMatchday = mean(rows, func(r model.ScoredTeamRow) float64 { return r.MatchdayRevenue })
	k.AvgGrowth = mean(rows, func(r model.ScoredTeamRow) float64 { return r.RevenueGrowthPct })

	k.CommercialSharePct = k.AvgCommercial / k.AvgTotalRevenue * 100
	k.BroadcastingSharePct = k.AvgBroadcasting / k.AvgTotalRevenue * 100
	k.MatchdaySharePct = k.AvgMatchday / k.AvgTotalRevenue * 100

	k.TargetDiff = k.TotalRevenue - target.RevenueTarget
	k.GrowthVsBenchmark = k.AvgGrowth - target.GrowthBenchmark
	return k, nil
}

func mean(rows []model.ScoredTeamRow, field func(model.ScoredTeamRow) float64) float64 {
	return stat.Mean(lo.Map(rows, func(r model.ScoredTeamRow, _ int) float64 { return field(r) }), nil)
}
