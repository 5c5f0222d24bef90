// Package repository serves the read-only team reference data.
package repository

import (
	"context"

	"github.com/okian/pldash/internal/domain/model"
)

// Store provides read access to performance and financial reference data.
// Implementations never mutate or share their backing slices with callers.
type Store interface {
	// Seasons returns the known season labels, oldest first.
	Seasons(ctx context.Context) []string

	// CurrentSeason returns the single season with performance data.
	CurrentSeason(ctx context.Context) string

	// Teams returns team names in canonical order.
	Teams(ctx context.Context) []string

	// PerformanceRecords returns the current season's performance rows.
	PerformanceRecords(ctx context.Context) []model.TeamPerformanceRecord

	// FinancialRecords returns one season's financial rows.
	// Returns ErrUnknownSeason for labels outside Seasons.
	FinancialRecords(ctx context.Context, season string) ([]model.TeamFinancialRecord, error)

	// SeasonTarget returns a season's target, falling back to the latest
	// season's target for unknown labels.
	SeasonTarget(ctx context.Context, season string) model.SeasonTarget

	// RevenueHistory returns total revenue per (team, season) for the given
	// teams across all seasons, ordered by season then canonical team order.
	RevenueHistory(ctx context.Context, teams []string) []model.RevenuePoint
}
