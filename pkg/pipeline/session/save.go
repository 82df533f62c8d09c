package session

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-graph/pkg/pipeline"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

// Edit changes the loaded configuration. The configuration is saved once no edit has been
// made for the save delay.
func (s *Session) Edit(fn func(cfg *model.PipelineConfig)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return pipeline.ErrSessionClosed
	}

	if s.config == nil {
		return pipeline.ErrNoActivePipeline
	}

	fn(s.config)
	s.dirty = true
	s.saver.Trigger()

	return nil
}

// Save sends the loaded configuration to the agent and loads the stored one. Edits made
// while the save is in flight are applied on top of the stored configuration and saved
// again. Save returns ErrSaveInProgress when another save has not completed yet.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return pipeline.ErrSessionClosed
	}

	if s.saving {
		s.mu.Unlock()

		return pipeline.ErrSaveInProgress
	}

	if s.config == nil {
		s.mu.Unlock()

		return pipeline.ErrNoActivePipeline
	}

	name := s.config.Info.Name
	payload := s.config.Clone()
	s.dirty = false
	s.saving = true
	s.mu.Unlock()

	return s.save(ctx, name, payload)
}

func (s *Session) save(ctx context.Context, name string, payload *model.PipelineConfig) error {
	for {
		saved, err := s.api.SavePipelineConfig(ctx, name, payload)

		s.mu.Lock()
		if err != nil {
			s.saving = false
			netErr := pipeline.NewNetworkError("save pipeline config", err)
			s.reportErrors(ctx, netErr)
			s.mu.Unlock()

			return netErr
		}

		s.logger.DebugContext(ctx, "pipeline config saved",
			slog.String("pipeline", name),
			slog.String("uuid", saved.UUID),
		)

		if s.config == nil || s.config.Info.Name != name {
			// another pipeline was loaded meanwhile
			s.saving = false
			s.mu.Unlock()

			return nil
		}

		if !s.dirty || s.closed {
			s.saving = false
			s.applyConfig(ctx, saved)
			s.mu.Unlock()

			return nil
		}

		// keep the local edits and the uuid the agent expects for the next save
		payload = s.config.Clone()
		payload.UUID = saved.UUID

		local := s.config.Clone()
		saved.Configuration = local.Configuration
		saved.UIInfo = local.UIInfo
		saved.Stages = local.Stages

		s.dirty = false
		s.applyConfig(ctx, saved)
		s.mu.Unlock()
	}
}

// saveLater runs when the debounce delay expires.
func (s *Session) saveLater() {
	s.mu.Lock()
	ctx := s.runCtx
	s.mu.Unlock()

	if err := s.saveIfDirty(ctx); err != nil {
		s.logger.WarnContext(ctx, "delayed save failed", slog.String("error", err.Error()))
	}
}

// saveIfDirty saves pending edits. An in flight save picks them up on its own.
func (s *Session) saveIfDirty(ctx context.Context) error {
	s.mu.Lock()
	dirty := s.dirty && s.config != nil
	s.mu.Unlock()

	if !dirty {
		return nil
	}

	err := s.Save(ctx)
	if errors.Is(err, pipeline.ErrSaveInProgress) {
		return nil
	}

	return err
}
