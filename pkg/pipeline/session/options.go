package session

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/askiada/go-pipeline-graph/pkg/pipeline"
)

const (
	defaultSaveDelay       = time.Second
	defaultRefreshInterval = 2 * time.Second
)

type options struct {
	logger        *slog.Logger
	saveDelay     time.Duration
	schedule      cron.Schedule
	pipelineName  string
	reconcileOpts []pipeline.ReconcileOption
}

func defaultOptions() options {
	return options{
		logger:    slog.Default(),
		saveDelay: defaultSaveDelay,
		schedule:  cron.Every(defaultRefreshInterval),
	}
}

// Option configures a Session.
type Option func(o *options)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSaveDelay sets how long the session waits after the last edit before saving.
func WithSaveDelay(delay time.Duration) Option {
	return func(o *options) {
		if delay > 0 {
			o.saveDelay = delay
		}
	}
}

// WithRefreshSchedule sets when the status and metrics are polled.
func WithRefreshSchedule(schedule cron.Schedule) Option {
	return func(o *options) {
		if schedule != nil {
			o.schedule = schedule
		}
	}
}

// WithPipeline opens the named pipeline on Start instead of the running one.
func WithPipeline(name string) Option {
	return func(o *options) {
		o.pipelineName = name
	}
}

// WithHelpHidden stops pointing at open lanes.
func WithHelpHidden(hidden bool) Option {
	return func(o *options) {
		o.reconcileOpts = append(o.reconcileOpts, pipeline.WithHelpHidden(hidden))
	}
}

// WithLaneMatcher changes how open lane issues are mapped to output lanes.
func WithLaneMatcher(match pipeline.LaneMatcher) Option {
	return func(o *options) {
		o.reconcileOpts = append(o.reconcileOpts, pipeline.WithLaneMatcher(match))
	}
}
