package repository

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/pldash/internal/domain/model"
	"github.com/okian/pldash/pkg/logger"
)

// datasetFile mirrors the YAML layout of a dataset override file.
type datasetFile struct {
	Seasons     []string          `koanf:"seasons"`
	Performance []performanceFile `koanf:"performance"`
	Financial   []financialFile   `koanf:"financial"`
	Targets     []targetFile      `koanf:"targets"`
}

type performanceFile struct {
	Team           string `koanf:"team"`
	MatchesPlayed  int    `koanf:"matches_played"`
	Wins           int    `koanf:"wins"`
	Draws          int    `koanf:"draws"`
	Losses         int    `koanf:"losses"`
	GoalsScored    int    `koanf:"goals_scored"`
	GoalsConceded  int    `koanf:"goals_conceded"`
	Points         int    `koanf:"points"`
	GoalDifference int    `koanf:"goal_difference"`
}

type financialFile struct {
	Team                string  `koanf:"team"`
	Season              string  `koanf:"season"`
	MatchdayRevenue     float64 `koanf:"matchday_revenue"`
	BroadcastingRevenue float64 `koanf:"broadcasting_revenue"`
	CommercialRevenue   float64 `koanf:"commercial_revenue"`
	TotalRevenue        float64 `koanf:"total_revenue"`
	RevenueGrowthPct    float64 `koanf:"revenue_growth_pct"`
}

type targetFile struct {
	Season          string  `koanf:"season"`
	RevenueTarget   float64 `koanf:"revenue_target"`
	GrowthBenchmark float64 `koanf:"growth_benchmark"`
	Context         string  `koanf:"context"`
}

// LoadDataset reads a YAML dataset file and validates it. Soft validation
// findings are logged at warn level when log is non-nil.
func LoadDataset(ctx context.Context, path string, log logger.Logger) (Dataset, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Dataset{}, fmt.Errorf("load dataset %s: %w", path, err)
	}

	var raw datasetFile
	if err := k.UnmarshalWithConf("", &raw, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset %s: %w", path, err)
	}

	d := raw.toDataset()
	warnings, err := Validate(d)
	if err != nil {
		return Dataset{}, err
	}
	if log != nil {
		for _, w := range warnings {
			log.Warn(ctx, "dataset warning", logger.String("path", path), logger.String("detail", w))
		}
	}
	return d, nil
}

func (f datasetFile) toDataset() Dataset {
	d := Dataset{
		Seasons:     f.Seasons,
		Performance: make([]model.TeamPerformanceRecord, 0, len(f.Performance)),
		Financial:   make([]model.TeamFinancialRecord, 0, len(f.Financial)),
		Targets:     make([]model.SeasonTarget, 0, len(f.Targets)),
	}
	for _, p := range f.Performance {
		d.Performance = append(d.Performance, model.TeamPerformanceRecord(p))
	}
	for _, r := range f.Financial {
		d.Financial = append(d.Financial, model.TeamFinancialRecord(r))
	}
	for _, t := range f.Targets {
		d.Targets = append(d.Targets, model.SeasonTarget(t))
	}
	return d
}
