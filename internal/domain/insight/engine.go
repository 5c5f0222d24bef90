// Package insight turns a scored row set into risk warnings and strategic
// recommendations.
package insight

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/pldash/internal/domain/model"
)

// Result holds the output of one evaluation, in presentation order.
type Result struct {
	Warnings        []model.Insight `json:"warnings"`
	Recommendations []model.Insight `json:"recommendations"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithThresholds replaces the default thresholds.
func WithThresholds(t Thresholds) Option {
	return func(e *Engine) {
		e.thresholds = t
	}
}

// Engine evaluates the rule table. It holds no state between calls.
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates an engine with the default thresholds.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{thresholds: DefaultThresholds()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate applies the per-row rules stage by stage and then the set-wide
// recommendations. rows must already be scored.
func (e *Engine) Evaluate(rows []model.ScoredTeamRow, hasPerformanceData bool) (Result, error) {
	if len(rows) == 0 {
		return Result{}, fmt.Errorf("evaluate insights: %w", model.ErrEmptySelection)
	}

	feis := lo.Map(rows, func(r model.ScoredTeamRow, _ int) float64 { return r.FEI })
	s := setStats{
		medianFEI: median(feis),
		meanFEI:   stat.Mean(feis, nil),
	}

	var res Result
	for _, st := range stages {
		for _, row := range rows {
			for _, rule := range st.rules {
				if !rule.match(e.thresholds, s, row) {
					continue
				}
				res.Warnings = append(res.Warnings, rule.insight(s, row))
				if st.exclusive {
					break
				}
			}
		}
	}

	res.Recommendations = e.recommend(rows, s, hasPerformanceData)
	return res, nil
}

func (e *Engine) recommend(rows []model.ScoredTeamRow, s setStats, hasPerformanceData bool) []model.Insight {
	t := e.thresholds
	meanOf := func(field func(model.ScoredTeamRow) float64) float64 {
		return stat.Mean(lo.Map(rows, func(r model.ScoredTeamRow, _ int) float64 { return field(r) }), nil)
	}
	commercial := meanOf(func(r model.ScoredTeamRow) float64 { return r.CommercialShare })
	growth := meanOf(func(r model.ScoredTeamRow) float64 { return r.RevenueGrowthPct })
	matchday := meanOf(func(r model.ScoredTeamRow) float64 { return r.MatchdayShare })

	var out []model.Insight
	add := func(kind, msg string, values map[string]float64) {
		out = append(out, model.Insight{Severity: model.SeverityInfo, Kind: kind, Message: msg, Values: values})
	}

	if s.meanFEI < t.TargetFEI {
		add(KindFinancialOptimization,
			fmt.Sprintf("Financial Optimization: Average FEI (%.3f) below target %.3f - improve revenue diversification and growth", s.meanFEI, t.TargetFEI),
			map[string]float64{"mean_fei": s.meanFEI})
	}
	if commercial < t.TargetCommercialShare {
		add(KindCommercialExpansion,
			fmt.Sprintf("Commercial Expansion: Current commercial share (%.1f%%) below optimal %.0f%%+ - focus on sponsorship and partnerships", commercial*100, t.TargetCommercialShare*100),
			map[string]float64{"commercial_share": commercial})
	}
	if growth < t.TargetGrowth {
		add(KindGrowthStrategy,
			fmt.Sprintf("Growth Strategy: Revenue growth (%.1f%%) below industry target of %.0f%%+ - diversify revenue streams", growth, t.TargetGrowth),
			map[string]float64{"revenue_growth_pct": growth})
	}
	if matchday < t.TargetMatchdayShare {
		add(KindMatchdayEnhancement,
			fmt.Sprintf("Matchday Enhancement: Current matchday share (%.1f%%) below optimal %.0f%%+ - improve stadium experience", matchday*100, t.TargetMatchdayShare*100),
			map[string]float64{"matchday_share": matchday})
	}

	lowest := lo.MinBy(rows, func(a, b model.ScoredTeamRow) bool { return a.FEI < b.FEI })
	out = append(out, model.Insight{
		Severity: model.SeverityInfo,
		Kind:     KindPriorityFocus,
		Team:     lowest.Team,
		Message:  fmt.Sprintf("Priority Focus: %s (FEI: %.3f) needs immediate financial efficiency improvements", lowest.Team, lowest.FEI),
		Values:   map[string]float64{"fei": lowest.FEI},
	})

	if hasPerformanceData {
		return append(out, performanceSeasonAdvice...)
	}
	return append(out, historicalSeasonAdvice...)
}

// median averages the two middle values of an even-sized sample.
func median(xs []float64) float64 {
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
