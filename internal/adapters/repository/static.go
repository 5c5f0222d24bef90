package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/okian/pldash/internal/domain/model"
)

// StaticStore implements Store over an in-memory Dataset.
type StaticStore struct {
	dataset Dataset

	teams    []string
	bySeason map[string][]model.TeamFinancialRecord
	targets  map[string]model.SeasonTarget
}

// NewStaticStore creates a store over the built-in dataset unless
// WithDataset overrides it.
func NewStaticStore(opts ...Option) *StaticStore {
	s := &StaticStore{
		dataset: DefaultDataset(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.index()
	return s
}

// index builds the lookup tables once; the dataset is immutable afterwards.
func (s *StaticStore) index() {
	s.bySeason = make(map[string][]model.TeamFinancialRecord, len(s.dataset.Seasons))
	for _, rec := range s.dataset.Financial {
		s.bySeason[rec.Season] = append(s.bySeason[rec.Season], rec)
	}

	s.targets = make(map[string]model.SeasonTarget, len(s.dataset.Targets))
	for _, t := range s.dataset.Targets {
		s.targets[t.Season] = t
	}

	// Canonical order follows first appearance: performance rows, then any
	// team only present in financial rows.
	names := lo.Map(s.dataset.Performance, func(p model.TeamPerformanceRecord, _ int) string { return p.Team })
	names = append(names, lo.Map(s.dataset.Financial, func(f model.TeamFinancialRecord, _ int) string { return f.Team })...)
	s.teams = lo.Uniq(names)
}

// Seasons returns the known season labels, oldest first.
func (s *StaticStore) Seasons(_ context.Context) []string {
	return slices.Clone(s.dataset.Seasons)
}

// CurrentSeason returns the latest season.
func (s *StaticStore) CurrentSeason(_ context.Context) string {
	if len(s.dataset.Seasons) == 0 {
		return ""
	}
	return s.dataset.Seasons[len(s.dataset.Seasons)-1]
}

// Teams returns team names in canonical order.
func (s *StaticStore) Teams(_ context.Context) []string {
	return slices.Clone(s.teams)
}

// PerformanceRecords returns the current season's performance rows.
func (s *StaticStore) PerformanceRecords(_ context.Context) []model.TeamPerformanceRecord {
	return slices.Clone(s.dataset.Performance)
}

// FinancialRecords returns one season's financial rows.
func (s *StaticStore) FinancialRecords(_ context.Context, season string) ([]model.TeamFinancialRecord, error) {
	if !slices.Contains(s.dataset.Seasons, season) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSeason, season)
	}
	return slices.Clone(s.bySeason[season]), nil
}

// SeasonTarget returns a season's target or the latest season's target.
func (s *StaticStore) SeasonTarget(ctx context.Context, season string) model.SeasonTarget {
	if t, ok := s.targets[season]; ok {
		return t
	}
	return s.targets[s.CurrentSeason(ctx)]
}

// RevenueHistory returns total revenue per (team, season) for teams.
func (s *StaticStore) RevenueHistory(_ context.Context, teams []string) []model.RevenuePoint {
	wanted := lo.SliceToMap(teams, func(t string) (string, struct{}) { return t, struct{}{} })

	var points []model.RevenuePoint
	for _, season := range s.dataset.Seasons {
		for _, rec := range s.bySeason[season] {
			if _, ok := wanted[rec.Team]; !ok {
				continue
			}
			points = append(points, model.RevenuePoint{
				Team:         rec.Team,
				Season:       rec.Season,
				TotalRevenue: rec.TotalRevenue,
			})
		}
	}
	return points
}
