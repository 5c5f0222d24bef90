// Package scoring computes the Financial Efficiency Index (FEI) of a team row.
//
// FEI = (growth factor × commercial diversification × revenue stability) / risk factor
//
//	growth factor             max(0.5, (growth% + 10) / 10)
//	commercial diversification commercial / total
//	revenue stability         1 + matchday / total
//	risk factor               max(0.5, total / 500)
//
// The result is rounded to three decimals. Higher is better.
package scoring

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/okian/pldash/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultPrecision   = 3
	defaultRiskScale   = 500.0
	defaultGrowthFloor = 0.5
	defaultRiskFloor   = 0.5
	maxPrecision       = 6
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithPrecision sets the number of decimals the index is rounded to.
func WithPrecision(decimals int) Option {
	return func(s *Scorer) {
		if decimals >= 0 && decimals <= maxPrecision {
			s.precision = int32(decimals)
		}
	}
}

// WithRiskScale sets the revenue (in £M) at which the risk factor reaches 1.
func WithRiskScale(scale float64) Option {
	return func(s *Scorer) {
		if scale > 0 {
			s.riskScale = scale
		}
	}
}

// WithGrowthFloor sets the lower bound of the growth factor.
func WithGrowthFloor(floor float64) Option {
	return func(s *Scorer) {
		if floor > 0 {
			s.growthFloor = floor
		}
	}
}

// WithRiskFloor sets the lower bound of the risk factor.
func WithRiskFloor(floor float64) Option {
	return func(s *Scorer) {
		if floor > 0 {
			s.riskFloor = floor
		}
	}
}

// Scorer computes FEI values. It holds only immutable parameters, so one
// instance can score rows from any number of goroutines.
type Scorer struct {
	precision   int32
	riskScale   float64
	growthFloor float64
	riskFloor   float64
}

// NewScorer creates a scorer with the standard FEI parameters.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		precision:   defaultPrecision,
		riskScale:   defaultRiskScale,
		growthFloor: defaultGrowthFloor,
		riskFloor:   defaultRiskFloor,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Components breaks an index down into its factors, unrounded.
type Components struct {
	GrowthFactor     float64 `json:"growth_factor"`
	CommercialDiv    float64 `json:"commercial_diversification"`
	RevenueStability float64 `json:"revenue_stability"`
	RiskFactor       float64 `json:"risk_factor"`
	Raw              float64 `json:"raw"`
}

// Explain returns the unrounded factors of the index for rec.
func (s *Scorer) Explain(rec model.TeamFinancialRecord) (Components, error) {
	if rec.TotalRevenue == 0 {
		return Components{}, fmt.Errorf("fei for %s %s: total revenue is zero: %w", rec.Team, rec.Season, model.ErrDivisionByZero)
	}

	c := Components{
		GrowthFactor:     math.Max(s.growthFloor, (rec.RevenueGrowthPct+10)/10),
		CommercialDiv:    rec.CommercialRevenue / rec.TotalRevenue,
		RevenueStability: 1 + (rec.MatchdayRevenue / rec.TotalRevenue),
		RiskFactor:       math.Max(s.riskFloor, rec.TotalRevenue/s.riskScale),
	}
	c.Raw = (c.GrowthFactor * c.CommercialDiv * c.RevenueStability) / c.RiskFactor
	return c, nil
}

// Score returns the rounded index for rec.
func (s *Scorer) Score(rec model.TeamFinancialRecord) (float64, error) {
	c, err := s.Explain(rec)
	if err != nil {
		return 0, err
	}
	return round(c.Raw, s.precision), nil
}

// ScoreRows returns copies of rows with FEI filled in. Input rows are not
// modified. The first failing row aborts scoring.
func (s *Scorer) ScoreRows(rows []model.ScoredTeamRow) ([]model.ScoredTeamRow, error) {
	out := make([]model.ScoredTeamRow, len(rows))
	for i, row := range rows {
		fei, err := s.Score(row.TeamFinancialRecord)
		if err != nil {
			return nil, err
		}
		out[i] = row
		out[i].FEI = fei
	}
	return out, nil
}

// FEI scores rec with the standard parameters.
func FEI(rec model.TeamFinancialRecord) (float64, error) {
	return standard.Score(rec)
}

var standard = NewScorer()

// round rounds half away from zero on the shortest decimal form of v rather
// than on its binary value.
func round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
