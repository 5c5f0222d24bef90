package api

import (
	"net/http"
	"strings"

	"github.com/okian/pldash/internal/domain/model"
	"github.com/okian/pldash/internal/domain/types"
	"github.com/okian/pldash/pkg/logger"
)

// AnalyticsHandler serves the JSON analytics routes.
type AnalyticsHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(deps Dependencies, log logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{deps: deps, log: log}
}

// statusResponse is the body of GET /api/status.
type statusResponse struct {
	types.LiveStatus
	Source string `json:"source"`
}

// resolve turns the request query into a pipeline request.
func (h *AnalyticsHandler) resolve(r *http.Request) (model.FilterRequest, error) {
	sel := parseSelection(r)
	return h.deps.ResolveRequest(r.Context(), sel.season, sel.teams)
}

// HandleSeasons handles GET /api/seasons requests.
func (h *AnalyticsHandler) HandleSeasons(w http.ResponseWriter, r *http.Request) {
	info, err := h.deps.Seasons(r.Context())
	if err != nil {
		writeFailure(r.Context(), h.log, w, "", err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HandleView handles GET /api/view?season=&teams= requests.
func (h *AnalyticsHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	req, err := h.resolve(r)
	if err != nil {
		writeFailure(r.Context(), h.log, w, "", err)
		return
	}
	view, err := h.deps.View(r.Context(), req)
	if err != nil {
		writeFailure(r.Context(), h.log, w, req.Season, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleInsights handles GET /api/insights?season=&teams= requests.
func (h *AnalyticsHandler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	req, err := h.resolve(r)
	if err != nil {
		writeFailure(r.Context(), h.log, w, "", err)
		return
	}
	res, err := h.deps.Insights(r.Context(), req)
	if err != nil {
		writeFailure(r.Context(), h.log, w, req.Season, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleDashboard handles GET /api/dashboard?season=&teams= requests.
func (h *AnalyticsHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	req, err := h.resolve(r)
	if err != nil {
		writeFailure(r.Context(), h.log, w, "", err)
		return
	}
	dash, err := h.deps.Dashboard(r.Context(), req)
	if err != nil {
		writeFailure(r.Context(), h.log, w, req.Season, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// HandleTrends handles GET /api/trends?teams= requests.
func (h *AnalyticsHandler) HandleTrends(w http.ResponseWriter, r *http.Request) {
	sel := parseSelection(r)
	trends, err := h.deps.Trends(r.Context(), sel.teams)
	if err != nil {
		writeFailure(r.Context(), h.log, w, "", err)
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

// HandleBreakdown handles GET /api/breakdown?season=&team=&teams= requests.
func (h *AnalyticsHandler) HandleBreakdown(w http.ResponseWriter, r *http.Request) {
	team := strings.TrimSpace(r.URL.Query().Get("team"))
	if team == "" {
		writeFailure(r.Context(), h.log, w, "", ErrMissingTeam)
		return
	}
	req, err := h.resolve(r)
	if err != nil {
		writeFailure(r.Context(), h.log, w, "", err)
		return
	}
	bd, err := h.deps.Breakdown(r.Context(), req, team)
	if err != nil {
		writeFailure(r.Context(), h.log, w, req.Season, err)
		return
	}
	writeJSON(w, http.StatusOK, bd)
}

// HandleStatus handles GET /api/status requests.
func (h *AnalyticsHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	st := h.deps.LiveStatus(r.Context())
	writeJSON(w, http.StatusOK, statusResponse{LiveStatus: st, Source: st.Source()})
}
