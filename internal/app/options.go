package service

import (
	"time"

	"github.com/okian/pldash/internal/adapters/repository"
	"github.com/okian/pldash/internal/domain/insight"
	"github.com/okian/pldash/internal/domain/scoring"
	"github.com/okian/pldash/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore serves data from store instead of loading a dataset on Start.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDatasetPath loads the dataset from a YAML file on Start.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		s.datasetPath = path
	}
}

// WithScoringOptions configures the FEI scorer.
func WithScoringOptions(opts ...scoring.Option) Option {
	return func(s *Service) {
		s.scoringOpts = append(s.scoringOpts, opts...)
	}
}

// WithThresholds replaces the insight thresholds.
func WithThresholds(t insight.Thresholds) Option {
	return func(s *Service) {
		s.insightOpts = append(s.insightOpts, insight.WithThresholds(t))
	}
}

// WithLiveCheck enables the background live data probe.
func WithLiveCheck(url string, timeout time.Duration, schedule string) Option {
	return func(s *Service) {
		s.liveEnabled = true
		s.liveURL = url
		s.liveTimeout = timeout
		s.liveSchedule = schedule
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
