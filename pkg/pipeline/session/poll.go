package session

import (
	"context"

	"github.com/askiada/go-pipeline-graph/internal/ctxlog"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/events"
)

// pollStatus refreshes the pipeline status. The graph turns read only while the loaded
// configuration runs.
func (s *Session) pollStatus(ctx context.Context) error {
	status, err := s.api.FetchPipelineStatus(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return pipeline.ErrSessionClosed
	}

	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}

	if err != nil {
		netErr := pipeline.NewNetworkError("fetch pipeline status", err)
		s.reportErrors(ctx, netErr)

		return netErr
	}

	s.status = status

	running := pipeline.IsRunning(status, s.config)
	if running != s.running {
		s.running = running
		ctxlog.FromContext(ctx).InfoContext(ctx, "pipeline running state changed", "running", running)
		s.publish(ctx, events.ReadOnlyChanged{ReadOnly: running})
	}

	return nil
}

// pollMetrics refreshes the metrics and publishes the error counts of the running pipeline.
func (s *Session) pollMetrics(ctx context.Context) error {
	metrics, err := s.api.FetchPipelineMetrics(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return pipeline.ErrSessionClosed
	}

	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}

	if err != nil {
		netErr := pipeline.NewNetworkError("fetch pipeline metrics", err)
		s.reportErrors(ctx, netErr)

		return netErr
	}

	s.metrics = metrics

	if metrics != nil && pipeline.IsRunning(s.status, s.config) {
		counts := pipeline.StageErrorCounts(s.config.Stages, metrics)
		s.publish(ctx, events.ErrorCountsUpdated{Counts: counts})
	}

	return nil
}
