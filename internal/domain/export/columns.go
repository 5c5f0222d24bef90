package export

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"github.com/okian/pldash/internal/domain/model"
)

// column maps one exported field onto a scored row.
type column struct {
	name        string
	performance bool
	value       func(r model.ScoredTeamRow) any
	parse       func(r *model.ScoredTeamRow, perf *model.TeamPerformanceRecord, s string) error
}

func intColumn(name string, field func(*model.TeamPerformanceRecord) *int) column {
	return column{
		name:        name,
		performance: true,
		value:       func(r model.ScoredTeamRow) any { return *field(r.Performance) },
		parse: func(_ *model.ScoredTeamRow, perf *model.TeamPerformanceRecord, s string) error {
			v, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*field(perf) = v
			return nil
		},
	}
}

func floatColumn(name string, field func(*model.ScoredTeamRow) *float64) column {
	return column{
		name:  name,
		value: func(r model.ScoredTeamRow) any { return *field(&r) },
		parse: func(r *model.ScoredTeamRow, _ *model.TeamPerformanceRecord, s string) error {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*field(r) = v
			return nil
		},
	}
}

// columns follow the merge order of the analytics table: team, performance
// fields, revenue streams, season and FEI.
var columns = []column{
	{
		name:  "Team",
		value: func(r model.ScoredTeamRow) any { return r.Team },
		parse: func(r *model.ScoredTeamRow, _ *model.TeamPerformanceRecord, s string) error {
			r.Team = s
			return nil
		},
	},
	intColumn("Matches_Played", func(p *model.TeamPerformanceRecord) *int { return &p.MatchesPlayed }),
	intColumn("Wins", func(p *model.TeamPerformanceRecord) *int { return &p.Wins }),
	intColumn("Draws", func(p *model.TeamPerformanceRecord) *int { return &p.Draws }),
	intColumn("Losses", func(p *model.TeamPerformanceRecord) *int { return &p.Losses }),
	intColumn("Goals_Scored", func(p *model.TeamPerformanceRecord) *int { return &p.GoalsScored }),
	intColumn("Goals_Conceded", func(p *model.TeamPerformanceRecord) *int { return &p.GoalsConceded }),
	intColumn("Points", func(p *model.TeamPerformanceRecord) *int { return &p.Points }),
	intColumn("Goal_Difference", func(p *model.TeamPerformanceRecord) *int { return &p.GoalDifference }),
	floatColumn("Matchday_Revenue", func(r *model.ScoredTeamRow) *float64 { return &r.MatchdayRevenue }),
	floatColumn("Broadcasting_Revenue", func(r *model.ScoredTeamRow) *float64 { return &r.BroadcastingRevenue }),
	floatColumn("Commercial_Revenue", func(r *model.ScoredTeamRow) *float64 { return &r.CommercialRevenue }),
	floatColumn("Total_Revenue", func(r *model.ScoredTeamRow) *float64 { return &r.TotalRevenue }),
	floatColumn("Revenue_Growth", func(r *model.ScoredTeamRow) *float64 { return &r.RevenueGrowthPct }),
	{
		name:  "Season",
		value: func(r model.ScoredTeamRow) any { return r.Season },
		parse: func(r *model.ScoredTeamRow, _ *model.TeamPerformanceRecord, s string) error {
			r.Season = s
			return nil
		},
	},
	floatColumn("FEI", func(r *model.ScoredTeamRow) *float64 { return &r.FEI }),
}

// columnsFor returns the exported columns with or without performance fields.
func columnsFor(hasPerformanceData bool) []column {
	if hasPerformanceData {
		return columns
	}
	return lo.Reject(columns, func(c column, _ int) bool { return c.performance })
}

// Header returns the exported column names.
func Header(hasPerformanceData bool) []string {
	return lo.Map(columnsFor(hasPerformanceData), func(c column, _ int) string { return c.name })
}

// withPerformance reports whether rows can be written with performance columns.
func withPerformance(rows []model.ScoredTeamRow, declared bool) bool {
	return declared && lo.EveryBy(rows, func(r model.ScoredTeamRow) bool { return r.Performance != nil })
}
