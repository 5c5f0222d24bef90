// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/pldash/internal/domain/aggregate"
	"github.com/okian/pldash/internal/domain/export"
	"github.com/okian/pldash/internal/domain/insight"
	"github.com/okian/pldash/internal/domain/model"
	"github.com/okian/pldash/internal/domain/types"
	"github.com/okian/pldash/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Seasons lists the selectable seasons and teams.
	Seasons(ctx context.Context) (types.SeasonsInfo, error)
	// ResolveRequest fills the default season and team selection.
	ResolveRequest(ctx context.Context, season string, teams []string) (model.FilterRequest, error)

	View(ctx context.Context, req model.FilterRequest) (aggregate.View, error)
	Insights(ctx context.Context, req model.FilterRequest) (insight.Result, error)
	Dashboard(ctx context.Context, req model.FilterRequest) (types.Dashboard, error)
	Trends(ctx context.Context, teams []string) (aggregate.Trends, error)
	Breakdown(ctx context.Context, req model.FilterRequest, team string) (aggregate.RevenueBreakdown, error)
	Export(ctx context.Context, w io.Writer, f export.Format, req model.FilterRequest) error

	LiveStatus(ctx context.Context) types.LiveStatus
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	analyticsHandler *AnalyticsHandler
	exportHandler    *ExportHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		analyticsHandler: NewAnalyticsHandler(deps, log),
		exportHandler:    NewExportHandler(deps, log),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /dashboard", s.dashboardHandler.HandleDashboard)

	a := s.analyticsHandler
	mux.HandleFunc("GET /api/seasons", MetricsMiddleware(a.HandleSeasons, "seasons"))
	mux.HandleFunc("GET /api/view", MetricsMiddleware(a.HandleView, "view"))
	mux.HandleFunc("GET /api/insights", MetricsMiddleware(a.HandleInsights, "insights"))
	mux.HandleFunc("GET /api/dashboard", MetricsMiddleware(a.HandleDashboard, "dashboard"))
	mux.HandleFunc("GET /api/trends", MetricsMiddleware(a.HandleTrends, "trends"))
	mux.HandleFunc("GET /api/breakdown", MetricsMiddleware(a.HandleBreakdown, "breakdown"))
	mux.HandleFunc("GET /api/status", MetricsMiddleware(a.HandleStatus, "status"))
	mux.HandleFunc("GET /api/export", MetricsMiddleware(s.exportHandler.HandleExport, "export"))

	mux.HandleFunc("/api/", MetricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", ErrUnknownRoute)
	}, "unknown"))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure answers err with its mapped status. Empty selections are not
// failures and are answered with 200 and a notice.
func writeFailure(ctx context.Context, log logger.Logger, w http.ResponseWriter, season string, err error) {
	if errors.Is(err, model.ErrEmptySelection) {
		writeJSON(w, http.StatusOK, types.EmptyNoticeFor(season, err))
		return
	}
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error(ctx, "request failed",
			logger.String("code", code),
			logger.String("request_id", RequestID(ctx)),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}
