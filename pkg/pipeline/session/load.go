package session

import (
	"context"
	"log/slog"

	"github.com/askiada/go-pipeline-graph/pkg/pipeline"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/events"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

// LoadPipelineConfig fetches the named configuration and makes it the one being edited.
// Edits still waiting for their save are saved first. On success the reported errors are
// cleared.
func (s *Session) LoadPipelineConfig(ctx context.Context, name string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	if err := s.saveIfDirty(ctx); err != nil {
		return err
	}

	cfg, err := s.api.FetchPipelineConfig(ctx, name)
	if err != nil {
		netErr := pipeline.NewNetworkError("fetch pipeline config", err)

		s.mu.Lock()
		s.reportErrors(ctx, netErr)
		s.mu.Unlock()

		return netErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearErrors(ctx)
	s.dirty = false
	s.applyConfig(ctx, cfg)

	s.logger.InfoContext(ctx, "pipeline config loaded",
		slog.String("pipeline", cfg.Info.Name),
		slog.Int("stages", len(cfg.Stages)),
	)

	return nil
}

// SelectPipeline switches to another pipeline. The graph is recentered and the pipeline
// selected, so no stage selection leaks into the next pipeline. A nil info means no
// pipeline exists anymore and unloads the current configuration.
func (s *Session) SelectPipeline(ctx context.Context, info *model.PipelineInfo) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	if info == nil {
		s.mu.Lock()
		s.config = nil
		s.activeInfo = nil
		s.selection = model.Selection{}
		s.view = pipeline.View{}
		s.dirty = false
		s.publish(ctx, events.SelectionChanged{})
		s.publish(ctx, events.GraphUpdated{})
		s.mu.Unlock()

		return nil
	}

	s.mu.Lock()
	active := *info
	s.activeInfo = &active
	preview := s.previewMode
	s.mu.Unlock()

	if preview {
		s.ClosePreview()
	} else {
		s.MoveGraphToCenter()
	}

	return s.LoadPipelineConfig(ctx, info.Name)
}

// RefreshGraph derives the view of the loaded configuration again and publishes it.
func (s *Session) RefreshGraph(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config == nil {
		return pipeline.ErrNoActivePipeline
	}

	s.applyConfig(ctx, s.config)

	return nil
}

// applyConfig makes cfg the configuration being edited, carries the selection over and
// publishes the new view. It must be called with s.mu held.
func (s *Session) applyConfig(ctx context.Context, cfg *model.PipelineConfig) {
	s.publish(ctx, events.ValidityCheckRequested{})

	s.config = cfg
	info := cfg.Info
	s.activeInfo = &info

	for i := range s.pipelines {
		if s.pipelines[i].Name == info.Name {
			s.pipelines[i] = info

			break
		}
	}

	view, err := pipeline.Reconcile(pipeline.Input{
		Config:   cfg,
		Previous: s.selection,
		Status:   s.status,
		Metrics:  s.metrics,
	}, s.opts.reconcileOpts...)
	if err != nil {
		// cfg is never nil here
		s.logger.ErrorContext(ctx, "unable to reconcile", slog.String("error", err.Error()))

		return
	}

	s.view = view
	s.selection = view.Selection
	s.running = view.Running

	s.publish(ctx, events.GraphUpdated{View: view})
}

func (s *Session) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return pipeline.ErrSessionClosed
	}

	return nil
}
