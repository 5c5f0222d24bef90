package repository

// Option applies a configuration option to the StaticStore.
type Option func(*StaticStore)

// WithDataset replaces the built-in dataset.
func WithDataset(d Dataset) Option {
	return func(s *StaticStore) {
		if len(d.Seasons) > 0 {
			s.dataset = d
		}
	}
}
