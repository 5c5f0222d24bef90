// Package types contains the response shapes shared by the service and its
// HTTP, MCP and CLI surfaces.
package types

import (
	"time"

	"github.com/okian/pldash/internal/domain/aggregate"
	"github.com/okian/pldash/internal/domain/insight"
)

// EmptySelectionMessage is shown when a selection matches no rows.
const EmptySelectionMessage = "Please select at least one team to view analytics."

// SeasonsInfo lists the selectable seasons and teams.
type SeasonsInfo struct {
	Seasons []string `json:"seasons"`
	Current string   `json:"current"`
	Teams   []string `json:"teams"`
}

// LiveStatus reports the latest live data probe. Disabled checks are never live.
type LiveStatus struct {
	Enabled   bool      `json:"enabled"`
	Live      bool      `json:"live"`
	CheckedAt time.Time `json:"checked_at"`
	URL       string    `json:"url,omitempty"`
}

// Source names where the dashboard figures come from.
func (s LiveStatus) Source() string {
	if s.Live {
		return "live"
	}
	return "static"
}

// Dashboard is everything the dashboard page renders for one request.
type Dashboard struct {
	View       aggregate.View       `json:"view"`
	QuickStats aggregate.QuickStats `json:"quick_stats"`
	FEITable   []aggregate.FEIRow   `json:"fei_table"`
	Trends     aggregate.Trends     `json:"trends"`
	Insights   insight.Result       `json:"insights"`
	Live       LiveStatus           `json:"live"`
}

// EmptyNotice is returned in place of a result when the selection is empty.
// Mismatches lists the selected teams the season or the join dropped.
type EmptyNotice struct {
	Empty      bool                 `json:"empty"`
	Season     string               `json:"season,omitempty"`
	Message    string               `json:"message"`
	Mismatches []aggregate.Mismatch `json:"mismatches,omitempty"`
}

// NewEmptyNotice builds the notice for season.
func NewEmptyNotice(season string) EmptyNotice {
	return EmptyNotice{Empty: true, Season: season, Message: EmptySelectionMessage}
}

// EmptyNoticeFor builds the notice for season and copies the dropped teams
// of an empty selection error in err.
func EmptyNoticeFor(season string, err error) EmptyNotice {
	n := NewEmptyNotice(season)
	n.Mismatches = aggregate.DroppedTeams(err)
	return n
}
