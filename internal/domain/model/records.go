// Package model contains domain models passed between layers.
package model

// TeamPerformanceRecord holds on-field results of one team for the current season.
type TeamPerformanceRecord struct {
	Team           string `json:"team"`
	MatchesPlayed  int    `json:"matches_played"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	GoalsScored    int    `json:"goals_scored"`
	GoalsConceded  int    `json:"goals_conceded"`
	Points         int    `json:"points"`
	GoalDifference int    `json:"goal_difference"`
}

// TeamFinancialRecord holds revenue figures of one team for one season, in £M.
type TeamFinancialRecord struct {
	Team                string  `json:"team"`
	Season              string  `json:"season"`
	MatchdayRevenue     float64 `json:"matchday_revenue"`
	BroadcastingRevenue float64 `json:"broadcasting_revenue"`
	CommercialRevenue   float64 `json:"commercial_revenue"`
	TotalRevenue        float64 `json:"total_revenue"`
	RevenueGrowthPct    float64 `json:"revenue_growth_pct"`
}

// SeasonTarget carries the revenue target and growth benchmark of a season.
type SeasonTarget struct {
	Season          string  `json:"season"`
	RevenueTarget   float64 `json:"revenue_target"`
	GrowthBenchmark float64 `json:"growth_benchmark"`
	Context         string  `json:"context"`
}

// RevenuePoint is one (team, season) total revenue sample of the history.
type RevenuePoint struct {
	Team         string  `json:"team"`
	Season       string  `json:"season"`
	TotalRevenue float64 `json:"total_revenue"`
}

// ScoredTeamRow joins a financial record with the optional performance record
// of the same team and the derived efficiency figures.
type ScoredTeamRow struct {
	TeamFinancialRecord

	// Performance is set only for the current season.
	Performance *TeamPerformanceRecord `json:"performance,omitempty"`

	FEI               float64 `json:"fei"`
	CommercialShare   float64 `json:"commercial_share"`
	BroadcastingShare float64 `json:"broadcasting_share"`
	MatchdayShare     float64 `json:"matchday_share"`
}

// NewScoredRow builds an unscored row and fills the per-stream shares.
// Shares stay zero when the total revenue is zero.
func NewScoredRow(fin TeamFinancialRecord, perf *TeamPerformanceRecord) ScoredTeamRow {
	row := ScoredTeamRow{TeamFinancialRecord: fin}
	if perf != nil {
		p := *perf
		row.Performance = &p
	}
	if fin.TotalRevenue != 0 {
		row.CommercialShare = fin.CommercialRevenue / fin.TotalRevenue
		row.BroadcastingShare = fin.BroadcastingRevenue / fin.TotalRevenue
		row.MatchdayShare = fin.MatchdayRevenue / fin.TotalRevenue
	}
	return row
}

// FilterRequest is the request-scoped selection threaded through the pipeline.
type FilterRequest struct {
	Season string   `json:"season"`
	Teams  []string `json:"teams"`
}
