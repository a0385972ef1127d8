package repeatable

import (
	"log/slog"

	"github.com/goliatone/go-formrows/pkg/refdata"
)

// Option configures a Manager.
type Option func(*config)

type config struct {
	logger    *slog.Logger
	data      refdata.Set
	scheduler Scheduler
	scroller  Scroller
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithReferenceData supplies the choices used to populate selects on Add.
func WithReferenceData(data refdata.Set) Option {
	return func(cfg *config) {
		cfg.data = data
	}
}

// WithScheduler overrides how cosmetic tasks are deferred.
func WithScheduler(scheduler Scheduler) Option {
	return func(cfg *config) {
		if scheduler != nil {
			cfg.scheduler = scheduler
		}
	}
}

// WithScroller receives scroll-into-view requests for new instances.
func WithScroller(scroller Scroller) Option {
	return func(cfg *config) {
		if scroller != nil {
			cfg.scroller = scroller
		}
	}
}
