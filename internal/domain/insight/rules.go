package insight

import (
	"fmt"
	"math"

	"github.com/okian/pldash/internal/domain/model"
)

// Rule kinds.
const (
	KindDecliningRevenue         = "declining_revenue"
	KindBroadcastingReliance     = "broadcasting_reliance"
	KindLowCommercial            = "low_commercial"
	KindBelowMedianFEI           = "below_median_fei"
	KindHighRevenueLowEfficiency = "high_revenue_low_efficiency"
	KindLargeBaseLowGrowth       = "large_base_low_growth"

	KindFinancialOptimization  = "financial_optimization"
	KindCommercialExpansion    = "commercial_expansion"
	KindGrowthStrategy         = "growth_strategy"
	KindMatchdayEnhancement    = "matchday_enhancement"
	KindPriorityFocus          = "priority_focus"
	KindFEITarget              = "fei_target"
	KindRevenueBalance         = "revenue_balance"
	KindPerformanceAlignment   = "performance_alignment"
	KindRevenueDiversification = "revenue_diversification"
	KindGrowthFocus            = "growth_focus"
)

// setStats are the figures of the whole row set some rules compare against.
type setStats struct {
	medianFEI float64
	meanFEI   float64
}

// rowRule checks one row. Within a stage the first matching rule wins when
// the stage is exclusive; otherwise every matching rule fires.
type rowRule struct {
	kind     string
	severity model.Severity
	match    func(t Thresholds, s setStats, r model.ScoredTeamRow) bool
	message  func(s setStats, r model.ScoredTeamRow) string
	values   func(s setStats, r model.ScoredTeamRow) map[string]float64
}

// stage is a group of rules applied across all rows before the next stage.
type stage struct {
	exclusive bool
	rules     []rowRule
}

var stages = []stage{
	{rules: []rowRule{{
		kind:     KindDecliningRevenue,
		severity: model.SeverityWarning,
		match: func(_ Thresholds, _ setStats, r model.ScoredTeamRow) bool {
			return r.RevenueGrowthPct < 0
		},
		message: func(_ setStats, r model.ScoredTeamRow) string {
			return fmt.Sprintf("%s: Revenue declining by %.1f%% | FEI: %.3f", r.Team, math.Abs(r.RevenueGrowthPct), r.FEI)
		},
		values: func(_ setStats, r model.ScoredTeamRow) map[string]float64 {
			return map[string]float64{"revenue_growth_pct": r.RevenueGrowthPct, "fei": r.FEI}
		},
	}}},
	{exclusive: true, rules: []rowRule{{
		kind:     KindBroadcastingReliance,
		severity: model.SeverityError,
		match: func(t Thresholds, _ setStats, r model.ScoredTeamRow) bool {
			return r.BroadcastingShare > t.BroadcastingReliance
		},
		message: func(_ setStats, r model.ScoredTeamRow) string {
			return fmt.Sprintf("%s: Over-reliant on broadcasting (%.1f%% of revenue)", r.Team, r.BroadcastingShare*100)
		},
		values: func(_ setStats, r model.ScoredTeamRow) map[string]float64 {
			return map[string]float64{"broadcasting_share": r.BroadcastingShare}
		},
	}, {
		kind:     KindLowCommercial,
		severity: model.SeverityInfo,
		match: func(t Thresholds, _ setStats, r model.ScoredTeamRow) bool {
			return r.CommercialShare < t.LowCommercialShare
		},
		message: func(_ setStats, r model.ScoredTeamRow) string {
			return fmt.Sprintf("%s: Low commercial diversification (%.1f%% of revenue)", r.Team, r.CommercialShare*100)
		},
		values: func(_ setStats, r model.ScoredTeamRow) map[string]float64 {
			return map[string]float64{"commercial_share": r.CommercialShare}
		},
	}}},
	{rules: []rowRule{{
		kind:     KindBelowMedianFEI,
		severity: model.SeverityError,
		match: func(_ Thresholds, s setStats, r model.ScoredTeamRow) bool {
			return r.FEI < s.medianFEI
		},
		// The comparison is against the median; the message quotes the mean.
		message: func(s setStats, r model.ScoredTeamRow) string {
			return fmt.Sprintf("%s: Below-average financial efficiency (FEI: %.3f vs avg: %.3f)", r.Team, r.FEI, s.meanFEI)
		},
		values: func(s setStats, r model.ScoredTeamRow) map[string]float64 {
			return map[string]float64{"fei": r.FEI, "median_fei": s.medianFEI, "mean_fei": s.meanFEI}
		},
	}}},
	{rules: []rowRule{{
		kind:     KindHighRevenueLowEfficiency,
		severity: model.SeverityWarning,
		match: func(t Thresholds, _ setStats, r model.ScoredTeamRow) bool {
			return r.TotalRevenue > t.HighRevenue && r.FEI < t.LowEfficiency
		},
		message: func(_ setStats, r model.ScoredTeamRow) string {
			return fmt.Sprintf("%s: High revenue (£%.1fM) but poor financial efficiency (FEI: %.3f)", r.Team, r.TotalRevenue, r.FEI)
		},
		values: func(_ setStats, r model.ScoredTeamRow) map[string]float64 {
			return map[string]float64{"total_revenue": r.TotalRevenue, "fei": r.FEI}
		},
	}, {
		kind:     KindLargeBaseLowGrowth,
		severity: model.SeverityInfo,
		match: func(t Thresholds, _ setStats, r model.ScoredTeamRow) bool {
			return r.TotalRevenue > t.LargeRevenueBase && r.RevenueGrowthPct < t.LowGrowth
		},
		message: func(_ setStats, r model.ScoredTeamRow) string {
			return fmt.Sprintf("%s: Large revenue base (£%.1fM) with low growth (%.1f%%) - focus on innovation", r.Team, r.TotalRevenue, r.RevenueGrowthPct)
		},
		values: func(_ setStats, r model.ScoredTeamRow) map[string]float64 {
			return map[string]float64{"total_revenue": r.TotalRevenue, "revenue_growth_pct": r.RevenueGrowthPct}
		},
	}}},
}

func (r rowRule) insight(s setStats, row model.ScoredTeamRow) model.Insight {
	return model.Insight{
		Severity: r.severity,
		Kind:     r.kind,
		Team:     row.Team,
		Message:  r.message(s, row),
		Values:   r.values(s, row),
	}
}

var (
	performanceSeasonAdvice = []model.Insight{
		{Severity: model.SeverityInfo, Kind: KindFEITarget, Message: "FEI Target: Maintain FEI above 0.600 for sustainable financial efficiency"},
		{Severity: model.SeverityInfo, Kind: KindRevenueBalance, Message: "Revenue Balance: Optimal split - 45% Broadcasting, 35% Commercial, 20% Matchday"},
		{Severity: model.SeverityInfo, Kind: KindPerformanceAlignment, Message: "Performance Alignment: Balance on-field investment with revenue diversification"},
	}
	historicalSeasonAdvice = []model.Insight{
		{Severity: model.SeverityInfo, Kind: KindFEITarget, Message: "FEI Target: Maintain FEI above 0.600 for financial sustainability"},
		{Severity: model.SeverityInfo, Kind: KindRevenueDiversification, Message: "Revenue Diversification: Reduce dependence on single revenue streams"},
		{Severity: model.SeverityInfo, Kind: KindGrowthFocus, Message: "Growth Focus: Target 5-8% annual revenue growth through strategic initiatives"},
	}
)
