// Package session holds the state of one pipeline editing session.
//
// A Session loads pipeline configurations from the agent, keeps the selection of the
// graph editor across reloads, saves edits after a short delay and polls the agent for the
// pipeline status and metrics. Views follow it through the events published on its Hub.
package session

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-pipeline-graph/internal/ctxlog"
	"github.com/askiada/go-pipeline-graph/internal/debounce"
	"github.com/askiada/go-pipeline-graph/internal/poller"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/events"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/measure"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

var ErrAlreadyStarted = errors.New("session already started")

// Session is the state of one editing session. It is safe for concurrent use.
type Session struct {
	id     string
	api    API
	hub    events.Hub
	logger *slog.Logger
	opts   options

	saver   *debounce.Debouncer
	pollers []*poller.Poller

	mu          sync.Mutex
	runCtx      context.Context
	started     bool
	closed      bool
	loaded      bool
	definitions *model.Definitions
	pipelines   []model.PipelineInfo
	activeInfo  *model.PipelineInfo
	config      *model.PipelineConfig
	status      *model.PipelineStatus
	metrics     *measure.Snapshot
	selection   model.Selection
	view        pipeline.View
	running     bool
	errs        []error

	dirty        bool
	saving       bool
	previewMode  bool
	snapshotMode bool
}

// New creates a session. Nothing is fetched until Start is called.
func New(api API, hub events.Hub, opts ...Option) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.NewString()
	s := &Session{
		id:     id,
		api:    api,
		hub:    hub,
		logger: o.logger.With(slog.String("session_id", id)),
		opts:   o,
		runCtx: context.Background(),
	}

	s.saver = debounce.New(o.saveDelay, s.saveLater)
	s.pollers = []*poller.Poller{
		poller.New("status", o.schedule, s.pollStatus, s.logger),
		poller.New("metrics", o.schedule, s.pollMetrics, s.logger),
	}

	return s
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// Start fetches the stage definitions, the pipelines, the status and the metrics, loads the
// active pipeline and starts polling. The active pipeline is the one requested with
// WithPipeline, else the one the agent is running, else the first one.
//
// The pollers run until Close is called or ctx is done.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()

		return pipeline.ErrSessionClosed
	}

	if s.started {
		s.mu.Unlock()

		return ErrAlreadyStarted
	}

	s.started = true
	ctx = ctxlog.WithLogger(ctx, s.logger)
	s.runCtx = ctx
	s.mu.Unlock()

	var (
		defs      *model.Definitions
		pipelines []model.PipelineInfo
		status    *model.PipelineStatus
		metrics   *measure.Snapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defs, err = s.api.FetchDefinitions(gctx)

		return wrapNetwork("fetch definitions", err)
	})
	g.Go(func() (err error) {
		pipelines, err = s.api.FetchPipelines(gctx)

		return wrapNetwork("fetch pipelines", err)
	})
	g.Go(func() (err error) {
		status, err = s.api.FetchPipelineStatus(gctx)

		return wrapNetwork("fetch pipeline status", err)
	})
	g.Go(func() (err error) {
		metrics, err = s.api.FetchPipelineMetrics(gctx)

		return wrapNetwork("fetch pipeline metrics", err)
	})

	err := g.Wait()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()

		return pipeline.ErrSessionClosed
	}

	if err != nil {
		s.loaded = true
		s.reportErrors(ctx, err)
		s.mu.Unlock()

		return err
	}

	s.definitions = defs
	s.pipelines = pipelines
	s.status = status
	s.metrics = metrics
	active := s.pickActive()
	s.activeInfo = active

	// started under s.mu so that Close either sees them or prevents them
	for _, p := range s.pollers {
		if err := p.Start(ctx); err != nil {
			s.mu.Unlock()

			return errors.Wrap(err, "unable to start polling")
		}
	}
	s.mu.Unlock()

	if active == nil {
		s.logger.InfoContext(ctx, "no pipeline to load")
		s.setLoaded()

		return nil
	}

	err = s.LoadPipelineConfig(ctx, active.Name)
	s.setLoaded()

	return err
}

func (s *Session) setLoaded() {
	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
}

// pickActive must be called with s.mu held.
func (s *Session) pickActive() *model.PipelineInfo {
	find := func(name string) *model.PipelineInfo {
		i := slices.IndexFunc(s.pipelines, func(info model.PipelineInfo) bool {
			return info.Name == name
		})
		if i < 0 {
			return nil
		}

		info := s.pipelines[i]

		return &info
	}

	if s.opts.pipelineName != "" {
		if info := find(s.opts.pipelineName); info != nil {
			return info
		}

		s.logger.Warn("requested pipeline not found", slog.String("pipeline", s.opts.pipelineName))
	}

	if s.status != nil && s.status.Name != "" {
		if info := find(s.status.Name); info != nil {
			return info
		}
	}

	if len(s.pipelines) > 0 {
		info := s.pipelines[0]

		return &info
	}

	return nil
}

// Close stops polling and drops the pending save. A save already sent to the agent
// completes but is not followed by another one.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()

		return nil
	}

	s.closed = true
	s.mu.Unlock()

	s.saver.Stop()

	for _, p := range s.pollers {
		p.Stop()
	}

	s.logger.Debug("session closed")

	return nil
}

// publish must be called with s.mu held. The hub must not block.
func (s *Session) publish(ctx context.Context, evt events.Event) {
	if err := s.hub.Publish(ctx, evt); err != nil {
		ctxlog.FromContext(ctx).Debug("event not published",
			slog.String("kind", string(evt.Kind())),
			slog.String("error", err.Error()),
		)
	}
}

// reportErrors replaces the errors shown to the user. It must be called with s.mu held.
func (s *Session) reportErrors(ctx context.Context, errs ...error) {
	s.errs = errs
	for _, err := range errs {
		s.logger.ErrorContext(ctx, "agent call failed", slog.String("error", err.Error()))
	}

	s.publish(ctx, events.ErrorsReported{Errors: slices.Clone(errs)})
}

// clearErrors must be called with s.mu held.
func (s *Session) clearErrors(ctx context.Context) {
	if len(s.errs) == 0 {
		return
	}

	s.errs = nil
	s.publish(ctx, events.ErrorsReported{})
}

func wrapNetwork(op string, err error) error {
	if err == nil {
		return nil
	}

	return pipeline.NewNetworkError(op, err)
}

// Config returns the loaded configuration. It must only be changed through Edit.
func (s *Session) Config() *model.PipelineConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.config
}

// Selection returns the selected entity.
func (s *Session) Selection() model.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selection
}

// View returns the view published with the last GraphUpdated event.
func (s *Session) View() pipeline.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.view
}

// Errors returns the errors of the last failed agent call, until a configuration loads.
func (s *Session) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.errs)
}

// IsRunning reports whether the agent is running the loaded configuration.
func (s *Session) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return pipeline.IsRunning(s.status, s.config)
}

// ActiveStatus returns the status of the loaded configuration.
func (s *Session) ActiveStatus() model.PipelineStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return pipeline.ActiveStatus(s.status, s.config)
}

// Pipelines returns the pipelines known to the agent.
func (s *Session) Pipelines() []model.PipelineInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.pipelines)
}

// ActiveInfo returns the pipeline being edited.
func (s *Session) ActiveInfo() (model.PipelineInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeInfo == nil {
		return model.PipelineInfo{}, false
	}

	return *s.activeInfo, true
}

// Libraries returns the stage libraries by category.
func (s *Session) Libraries() model.Libraries {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.definitions.Libraries()
}

// Loaded reports whether the initial load has completed, successfully or not.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loaded
}

// PreviewMode reports whether a preview is shown.
func (s *Session) PreviewMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.previewMode
}

// SnapshotMode reports whether a snapshot is shown.
func (s *Session) SnapshotMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotMode
}
