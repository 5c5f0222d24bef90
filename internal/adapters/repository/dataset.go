package repository

import "github.com/okian/pldash/internal/domain/model"

// Dataset is the complete reference data served by a Store.
type Dataset struct {
	// Seasons is ordered oldest to latest; the latest is the current season.
	Seasons     []string
	Performance []model.TeamPerformanceRecord
	Financial   []model.TeamFinancialRecord
	Targets     []model.SeasonTarget
}

var defaultTeams = []string{
	"Manchester City", "Arsenal", "Liverpool", "Chelsea", "Manchester United", "Tottenham",
}

// seasonColumns lists one season's figures per team in defaultTeams order.
type seasonColumns struct {
	matchday, broadcasting, commercial, total, growth []float64
}

// DefaultDataset returns the built-in figures: 2024-25 performance after ten
// matches and 2020-21 to 2024-25 revenue in £M (2024-25 projected).
func DefaultDataset() Dataset {
	seasons := []string{"2020-21", "2021-22", "2022-23", "2023-24", "2024-25"}
	columns := map[string]seasonColumns{
		"2020-21": { // COVID-impacted matchday
			matchday:     []float64{7.1, 8.2, 7.5, 6.8, 11.2, 8.5},
			broadcasting: []float64{295.4, 201.8, 269.3, 198.7, 254.8, 162.2},
			commercial:   []float64{342.4, 177.8, 273.6, 287.6, 227.9, 231.7},
			total:        []float64{644.9, 388.0, 550.4, 493.1, 494.1, 402.4},
			growth:       []float64{-10.2, -12.9, -1.4, 5.0, -14.9, -9.7},
		},
		"2021-22": {
			matchday:     []float64{53.4, 45.2, 71.8, 78.3, 91.0, 45.7},
			broadcasting: []float64{307.2, 201.8, 275.3, 201.7, 230.8, 167.2},
			commercial:   []float64{370.4, 186.5, 354.6, 288.3, 305.3, 229.9},
			total:        []float64{731.0, 433.5, 701.7, 568.3, 627.1, 442.8},
			growth:       []float64{13.3, 11.7, 27.5, 15.3, 26.9, 10.0},
		},
		"2022-23": {
			matchday:     []float64{71.4, 85.2, 83.2, 89.8, 111.0, 65.4},
			broadcasting: []float64{289.6, 201.8, 235.2, 198.7, 256.8, 150.2},
			commercial:   []float64{315.1, 146.5, 275.9, 192.8, 280.6, 167.4},
			total:        []float64{676.1, 433.5, 594.3, 481.3, 648.4, 383.0},
			growth:       []float64{-7.5, 0.0, -15.3, -15.3, 3.4, -13.5},
		},
		"2023-24": {
			matchday:     []float64{78.2, 103.5, 84.2, 67.8, 110.1, 85.4},
			broadcasting: []float64{314.1, 201.8, 275.2, 203.7, 230.8, 167.2},
			commercial:   []float64{341.2, 188.4, 247.1, 201.5, 279.3, 175.8},
			total:        []float64{733.5, 493.7, 606.5, 473.0, 620.2, 428.4},
			growth:       []float64{8.5, 13.9, 2.1, -1.7, -4.3, 11.9},
		},
		"2024-25": { // projected
			matchday:     []float64{82.5, 108.7, 89.1, 72.3, 115.2, 91.8},
			broadcasting: []float64{325.3, 215.9, 287.4, 218.9, 242.1, 178.5},
			commercial:   []float64{358.7, 201.3, 265.8, 215.6, 295.7, 188.2},
			total:        []float64{766.5, 525.9, 642.3, 506.8, 653.0, 458.5},
			growth:       []float64{4.5, 6.5, 5.9, 7.1, 5.3, 7.0},
		},
	}

	financial := make([]model.TeamFinancialRecord, 0, len(seasons)*len(defaultTeams))
	for _, season := range seasons {
		c := columns[season]
		for i, team := range defaultTeams {
			financial = append(financial, model.TeamFinancialRecord{
				Team:                team,
				Season:              season,
				MatchdayRevenue:     c.matchday[i],
				BroadcastingRevenue: c.broadcasting[i],
				CommercialRevenue:   c.commercial[i],
				TotalRevenue:        c.total[i],
				RevenueGrowthPct:    c.growth[i],
			})
		}
	}

	return Dataset{
		Seasons: seasons,
		Performance: []model.TeamPerformanceRecord{
			{Team: "Manchester City", MatchesPlayed: 10, Wins: 7, Draws: 2, Losses: 1, GoalsScored: 22, GoalsConceded: 8, Points: 23, GoalDifference: 14},
			{Team: "Arsenal", MatchesPlayed: 10, Wins: 6, Draws: 3, Losses: 1, GoalsScored: 18, GoalsConceded: 10, Points: 21, GoalDifference: 8},
			{Team: "Liverpool", MatchesPlayed: 10, Wins: 6, Draws: 3, Losses: 1, GoalsScored: 21, GoalsConceded: 6, Points: 21, GoalDifference: 15},
			{Team: "Chelsea", MatchesPlayed: 10, Wins: 5, Draws: 3, Losses: 2, GoalsScored: 16, GoalsConceded: 11, Points: 18, GoalDifference: 5},
			{Team: "Manchester United", MatchesPlayed: 10, Wins: 4, Draws: 3, Losses: 3, GoalsScored: 12, GoalsConceded: 12, Points: 15, GoalDifference: 0},
			{Team: "Tottenham", MatchesPlayed: 10, Wins: 4, Draws: 1, Losses: 5, GoalsScored: 15, GoalsConceded: 18, Points: 13, GoalDifference: -3},
		},
		Financial: financial,
		Targets: []model.SeasonTarget{
			{Season: "2020-21", RevenueTarget: 2400, GrowthBenchmark: -8.0, Context: "COVID Impact"},
			{Season: "2021-22", RevenueTarget: 2800, GrowthBenchmark: 15.0, Context: "Recovery Phase"},
			{Season: "2022-23", RevenueTarget: 3000, GrowthBenchmark: -5.0, Context: "Stabilization"},
			{Season: "2023-24", RevenueTarget: 3200, GrowthBenchmark: 5.0, Context: "Growth Return"},
			{Season: "2024-25", RevenueTarget: 3400, GrowthBenchmark: 6.0, Context: "Projected Growth"},
		},
	}
}
