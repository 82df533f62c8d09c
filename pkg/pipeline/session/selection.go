package session

import (
	"context"

	"github.com/askiada/go-pipeline-graph/pkg/pipeline/events"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

// Detail is what the detail pane shows for the selection: the selected entity and the
// definition describing its configuration options.
type Detail struct {
	Selection          model.Selection
	StageDefinition    *model.StageDefinition
	PipelineDefinition *model.PipelineDefinition
}

// SelectStage shows a stage instance in the detail pane. A nil stage selects the pipeline.
func (s *Session) SelectStage(stage *model.StageInstance) {
	if stage == nil {
		s.ClearSelection()

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectLocked(context.Background(), model.StageSelection(stage))
}

// SelectLink shows an edge in the detail pane.
func (s *Session) SelectLink(edge *model.Edge) {
	if edge == nil {
		s.ClearSelection()

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectLocked(context.Background(), model.LinkSelection(edge))
}

// ClearSelection selects the pipeline.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectLocked(context.Background(), model.PipelineSelection(s.config))
}

// ChangeStageSelection follows the stage picked in the preview or snapshot panel.
func (s *Session) ChangeStageSelection(stage *model.StageInstance) {
	s.SelectStage(stage)
}

// selectLocked must be called with s.mu held.
func (s *Session) selectLocked(ctx context.Context, sel model.Selection) {
	s.selection = sel
	s.view.Selection = sel
	s.view.StageSelected = sel.Type == model.SelectionStageInstance
	s.view.SelectedStage = nil
	s.view.SelectedLink = nil

	switch sel.Type {
	case model.SelectionStageInstance:
		s.view.SelectedStage = sel.Stage
	case model.SelectionLink:
		s.view.SelectedLink = sel.Link
	}

	s.publish(ctx, events.SelectionChanged{Selection: sel})
	s.publish(ctx, events.ValidityCheckRequested{})
}

// DetailDefinition resolves the definition of the selected entity. Stage instances are
// matched against the stage libraries by stage name and version. Links have no definition.
func (s *Session) DetailDefinition() Detail {
	s.mu.Lock()
	defer s.mu.Unlock()

	detail := Detail{Selection: s.selection}

	switch s.selection.Type {
	case model.SelectionStageInstance:
		if stage := s.selection.Stage; stage != nil {
			detail.StageDefinition, _ = s.definitions.StageDefinition(stage.StageName, stage.StageVersion)
		}
	case model.SelectionPipeline:
		detail.PipelineDefinition = s.definitions.PipelineDefinition()
	}

	return detail
}

// StartPreview makes the graph read only and asks the preview panel for data. nextBatch
// continues from the last previewed batch instead of the start of the source.
func (s *Session) StartPreview(nextBatch bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	s.previewMode = true
	s.publish(ctx, events.ReadOnlyChanged{ReadOnly: true})
	s.publish(ctx, events.PreviewRequested{NextBatch: nextBatch})
}

// ClosePreview makes the graph editable again and recenters it.
func (s *Session) ClosePreview() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	s.previewMode = false
	s.publish(ctx, events.ReadOnlyChanged{ReadOnly: false})
	s.recenterLocked(ctx)
}

// CaptureSnapshot asks the snapshot panel to capture the running pipeline.
func (s *Session) CaptureSnapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshotMode = true
	s.publish(context.Background(), events.SnapshotRequested{})
}

// CloseSnapshot hides the snapshot and recenters the graph.
func (s *Session) CloseSnapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshotMode = false
	s.recenterLocked(context.Background())
}

// MoveGraphToCenter recenters the graph and selects the pipeline.
func (s *Session) MoveGraphToCenter() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recenterLocked(context.Background())
}

func (s *Session) recenterLocked(ctx context.Context) {
	s.publish(ctx, events.GraphRecentered{})
	s.selectLocked(ctx, model.PipelineSelection(s.config))
}
