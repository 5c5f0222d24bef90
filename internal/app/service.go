// Package service wires the analytics pipeline behind the HTTP, MCP and CLI
// surfaces: request resolution, view building, scoring, insights and export.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/okian/pldash/internal/adapters/livecheck"
	"github.com/okian/pldash/internal/adapters/repository"
	"github.com/okian/pldash/internal/domain/aggregate"
	"github.com/okian/pldash/internal/domain/export"
	"github.com/okian/pldash/internal/domain/insight"
	"github.com/okian/pldash/internal/domain/model"
	"github.com/okian/pldash/internal/domain/scoring"
	"github.com/okian/pldash/internal/domain/types"
	"github.com/okian/pldash/pkg/logger"
	"github.com/okian/pldash/pkg/metrics"
	"github.com/samber/lo"
)

// Service implements the API dependencies of the dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	scorer    *scoring.Scorer
	engine    *insight.Engine
	checker   *livecheck.Checker
	scheduler *livecheck.Scheduler

	// Configuration
	datasetPath  string
	scoringOpts  []scoring.Option
	insightOpts  []insight.Option
	liveEnabled  bool
	liveURL      string
	liveTimeout  time.Duration
	liveSchedule string

	// State
	started   bool
	startedAt time.Time
	now       func() time.Time

	logger logger.Logger
}

// New constructs a Service. Components are built by Start.
func New(opts ...Option) *Service {
	s := &Service{
		now: time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset, builds the pipeline and schedules the live check.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting analytics service...")

	if s.store == nil {
		store, err := s.openStore(ctx)
		if err != nil {
			return err
		}
		s.store = store
	}

	s.scorer = scoring.NewScorer(s.scoringOpts...)
	s.engine = insight.NewEngine(s.insightOpts...)

	seasons := s.store.Seasons(ctx)
	teams := s.store.Teams(ctx)
	metrics.UpdateDatasetRecords("seasons", len(seasons))
	metrics.UpdateDatasetRecords("teams", len(teams))
	metrics.UpdateDatasetRecords("performance", len(s.store.PerformanceRecords(ctx)))

	if s.liveEnabled {
		s.checker = livecheck.New(
			livecheck.WithURL(s.liveURL),
			livecheck.WithTimeout(s.liveTimeout),
			livecheck.WithLogger(s.logger.Named("livecheck")),
			livecheck.WithProbeHook(func(live bool, took time.Duration) {
				metrics.RecordLiveCheck(live, float64(took.Milliseconds()))
			}),
		)
		scheduler, err := livecheck.NewScheduler(s.checker, s.liveSchedule, s.logger)
		if err != nil {
			return err
		}
		s.scheduler = scheduler
		s.scheduler.Start(ctx)
	}

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "analytics service started",
		logger.Strings("seasons", seasons),
		logger.Int("teams", len(teams)),
		logger.String("current_season", s.store.CurrentSeason(ctx)),
		logger.Bool("live_check", s.liveEnabled),
	)
	return nil
}

func (s *Service) openStore(ctx context.Context) (repository.Store, error) {
	if s.datasetPath == "" {
		s.logger.Info(ctx, "using built-in dataset")
		return repository.NewStaticStore(), nil
	}

	dataset, err := repository.LoadDataset(ctx, s.datasetPath, s.logger.Named("dataset"))
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "using dataset file", logger.String("path", s.datasetPath))
	return repository.NewStaticStore(repository.WithDataset(dataset)), nil
}

// Stop halts the live check schedule.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(ctx, "stopping analytics service...")
	if s.scheduler != nil {
		s.scheduler.Stop(ctx)
		s.scheduler = nil
	}

	s.started = false
	s.logger.Info(ctx, "analytics service stopped")
}

// components returns the pipeline or ErrNotStarted.
func (s *Service) components() (repository.Store, *scoring.Scorer, *insight.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, nil, ErrNotStarted
	}
	return s.store, s.scorer, s.engine, nil
}

// Seasons returns the selectable seasons and teams.
func (s *Service) Seasons(ctx context.Context) (types.SeasonsInfo, error) {
	store, _, _, err := s.components()
	if err != nil {
		return types.SeasonsInfo{}, err
	}
	return types.SeasonsInfo{
		Seasons: store.Seasons(ctx),
		Current: store.CurrentSeason(ctx),
		Teams:   store.Teams(ctx),
	}, nil
}

// ResolveRequest fills defaults: an empty season is the current season and
// nil teams is every team. A non-nil empty team list stays empty.
func (s *Service) ResolveRequest(ctx context.Context, season string, teams []string) (model.FilterRequest, error) {
	store, _, _, err := s.components()
	if err != nil {
		return model.FilterRequest{}, err
	}
	if season == "" {
		season = store.CurrentSeason(ctx)
	}
	if teams == nil {
		teams = store.Teams(ctx)
	}
	return model.FilterRequest{Season: season, Teams: teams}, nil
}

// View builds and scores the view of req.
func (s *Service) View(ctx context.Context, req model.FilterRequest) (aggregate.View, error) {
	store, scorer, _, err := s.components()
	if err != nil {
		return aggregate.View{}, err
	}

	start := s.now()
	view, err := aggregate.BuildView(ctx, store, req)
	for _, m := range view.Mismatches {
		metrics.RecordJoinMismatch(m.Missing)
		s.logger.Warn(ctx, "selected team dropped from view",
			logger.String("team", m.Team),
			logger.String("missing", m.Missing),
			logger.String("season", req.Season),
		)
	}
	if errors.Is(err, model.ErrEmptySelection) {
		metrics.RecordEmptySelection()
		s.logger.Debug(ctx, "empty selection", logger.String("season", req.Season))
		return view, err
	}
	if err != nil {
		metrics.RecordErrorByComponent("aggregate", errorType(err))
		return aggregate.View{}, err
	}

	view.Rows, err = scorer.ScoreRows(view.Rows)
	if err != nil {
		metrics.RecordScoringError()
		s.logger.Error(ctx, "scoring failed", logger.String("season", req.Season), logger.Error(err))
		return aggregate.View{}, fmt.Errorf("score view %s: %w", req.Season, err)
	}

	for _, r := range view.Rows {
		metrics.ObserveFEI(r.FEI)
	}
	metrics.RecordViewBuilt(req.Season, float64(s.now().Sub(start).Microseconds())/1000)
	return view, nil
}

// Insights evaluates warnings and recommendations for req.
func (s *Service) Insights(ctx context.Context, req model.FilterRequest) (insight.Result, error) {
	view, err := s.View(ctx, req)
	if err != nil {
		return insight.Result{}, err
	}
	return s.evaluate(ctx, view)
}

func (s *Service) evaluate(_ context.Context, view aggregate.View) (insight.Result, error) {
	_, _, engine, err := s.components()
	if err != nil {
		return insight.Result{}, err
	}
	res, err := engine.Evaluate(view.Rows, view.HasPerformanceData)
	if err != nil {
		return insight.Result{}, err
	}
	for _, w := range res.Warnings {
		metrics.RecordInsight(string(w.Severity))
	}
	for _, r := range res.Recommendations {
		metrics.RecordInsight(string(r.Severity))
	}
	return res, nil
}

// Dashboard assembles the full dashboard of req.
func (s *Service) Dashboard(ctx context.Context, req model.FilterRequest) (types.Dashboard, error) {
	view, err := s.View(ctx, req)
	if err != nil {
		return types.Dashboard{View: view, Live: s.LiveStatus(ctx)}, err
	}
	res, err := s.evaluate(ctx, view)
	if err != nil {
		return types.Dashboard{}, err
	}
	trends, err := s.Trends(ctx, lo.Map(view.Rows, func(r model.ScoredTeamRow, _ int) string { return r.Team }))
	if err != nil {
		return types.Dashboard{}, err
	}
	return types.Dashboard{
		View:       view,
		QuickStats: aggregate.Stats(view),
		FEITable:   aggregate.FEITable(view.Rows),
		Trends:     trends,
		Insights:   res,
		Live:       s.LiveStatus(ctx),
	}, nil
}

// Trends returns the revenue history of teams; nil means every team.
func (s *Service) Trends(ctx context.Context, teams []string) (aggregate.Trends, error) {
	store, _, _, err := s.components()
	if err != nil {
		return aggregate.Trends{}, err
	}
	if teams == nil {
		teams = store.Teams(ctx)
	}
	return aggregate.RevenueTrends(ctx, store, teams)
}

// Breakdown returns the revenue split of team within the view of req.
func (s *Service) Breakdown(ctx context.Context, req model.FilterRequest, team string) (aggregate.RevenueBreakdown, error) {
	view, err := s.View(ctx, req)
	if err != nil {
		return aggregate.RevenueBreakdown{}, err
	}
	return aggregate.Breakdown(view, team)
}

// Export writes the scored view of req to w in format f.
func (s *Service) Export(ctx context.Context, w io.Writer, f export.Format, req model.FilterRequest) error {
	view, err := s.View(ctx, req)
	if err != nil {
		return err
	}
	if err := export.Write(w, f, view); err != nil {
		metrics.RecordErrorByComponent("export", string(f))
		return err
	}
	metrics.RecordExport(string(f))
	s.logger.Debug(ctx, "exported view",
		logger.String("format", string(f)),
		logger.String("season", req.Season),
		logger.Int("rows", len(view.Rows)),
	)
	return nil
}

// LiveStatus returns the latest probe result; disabled checks are never live.
func (s *Service) LiveStatus(_ context.Context) types.LiveStatus {
	s.mu.RLock()
	checker := s.checker
	s.mu.RUnlock()

	if checker == nil {
		return types.LiveStatus{}
	}
	st := checker.Status()
	return types.LiveStatus{Enabled: true, Live: st.Live, CheckedAt: st.CheckedAt, URL: st.URL}
}

// CheckLive runs one probe now; disabled checks report false.
func (s *Service) CheckLive(ctx context.Context) bool {
	s.mu.RLock()
	checker := s.checker
	s.mu.RUnlock()

	if checker == nil {
		return false
	}
	return checker.Check(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":    s.started,
		"live_check": s.liveEnabled,
	}

	if s.started {
		stats["uptime_seconds"] = int(s.now().Sub(s.startedAt).Seconds())
		stats["seasons"] = len(s.store.Seasons(ctx))
		stats["teams"] = len(s.store.Teams(ctx))
		stats["current_season"] = s.store.CurrentSeason(ctx)
		for key, name := range map[string]string{
			"views_built":      "views_built_total",
			"empty_selections": "empty_selections_total",
			"exports":          "exports_total",
		} {
			if v, err := metrics.CounterValue(name, nil); err == nil {
				stats[key] = v
			}
		}
	}

	return stats
}

// errorType labels err for metrics.
func errorType(err error) string {
	switch {
	case errors.Is(err, repository.ErrUnknownSeason):
		return "unknown_season"
	case errors.Is(err, model.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, model.ErrEmptySelection):
		return "empty_selection"
	default:
		return "internal"
	}
}
