package matchx

import "log/slog"

// CollectorOption represents a Collector configuration option.
type CollectorOption interface {
	Apply(*CollectorConfig)
}

// CollectorConfig holds all Collector configuration parameters.
type CollectorConfig struct {
	// Logger receives debug records about dropped and merged partials.
	Logger *slog.Logger
}

// optionFunc is a function that implements CollectorOption.
type optionFunc func(*CollectorConfig)

// Apply implements the CollectorOption interface for optionFunc.
func (f optionFunc) Apply(cfg *CollectorConfig) {
	f(cfg)
}

// WithLogger sets the logger used by the Collector.
func WithLogger(logger *slog.Logger) CollectorOption {
	return optionFunc(func(cfg *CollectorConfig) {
		cfg.Logger = logger
	})
}
