package repository

import (
	"fmt"
	"math"
	"strings"
)

// streamTolerance bounds |total - (matchday + broadcasting + commercial)|
// before a record is reported. Published totals are rounded independently.
const streamTolerance = 1.0

// Validate checks the dataset invariants. Hard violations are returned as an
// ErrInvalidDataset error; soft ones (revenue streams not adding up to the
// total) are returned as warnings.
func Validate(d Dataset) ([]string, error) {
	var problems, warnings []string

	if len(d.Seasons) == 0 {
		problems = append(problems, "no seasons")
	}
	known := make(map[string]bool, len(d.Seasons))
	for _, s := range d.Seasons {
		if known[s] {
			problems = append(problems, fmt.Sprintf("duplicate season %q", s))
		}
		known[s] = true
	}

	seenTeam := make(map[string]bool, len(d.Performance))
	for _, p := range d.Performance {
		switch {
		case strings.TrimSpace(p.Team) == "":
			problems = append(problems, "performance record without team")
			continue
		case seenTeam[p.Team]:
			problems = append(problems, fmt.Sprintf("duplicate performance record for %q", p.Team))
		}
		seenTeam[p.Team] = true
		if p.Wins+p.Draws+p.Losses != p.MatchesPlayed {
			problems = append(problems, fmt.Sprintf("%s: wins+draws+losses=%d, matches_played=%d",
				p.Team, p.Wins+p.Draws+p.Losses, p.MatchesPlayed))
		}
		if p.GoalsScored-p.GoalsConceded != p.GoalDifference {
			problems = append(problems, fmt.Sprintf("%s: goal_difference=%d, scored-conceded=%d",
				p.Team, p.GoalDifference, p.GoalsScored-p.GoalsConceded))
		}
	}

	seenPair := make(map[[2]string]bool, len(d.Financial))
	for _, f := range d.Financial {
		if strings.TrimSpace(f.Team) == "" {
			problems = append(problems, "financial record without team")
			continue
		}
		if !known[f.Season] {
			problems = append(problems, fmt.Sprintf("%s: unknown season %q", f.Team, f.Season))
		}
		key := [2]string{f.Team, f.Season}
		if seenPair[key] {
			problems = append(problems, fmt.Sprintf("duplicate financial record for %s %s", f.Team, f.Season))
		}
		seenPair[key] = true

		sum := f.MatchdayRevenue + f.BroadcastingRevenue + f.CommercialRevenue
		if math.Abs(f.TotalRevenue-sum) > streamTolerance {
			warnings = append(warnings, fmt.Sprintf("%s %s: total revenue %.1f differs from stream sum %.1f",
				f.Team, f.Season, f.TotalRevenue, sum))
		}
	}

	for _, t := range d.Targets {
		if !known[t.Season] {
			problems = append(problems, fmt.Sprintf("target for unknown season %q", t.Season))
		}
	}

	if len(problems) > 0 {
		return warnings, fmt.Errorf("%w: %s", ErrInvalidDataset, strings.Join(problems, "; "))
	}
	return warnings, nil
}
