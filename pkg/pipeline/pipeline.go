package pipeline

import (
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/measure"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

// Input is everything a reconciliation pass reads.
type Input struct {
	Config   *model.PipelineConfig
	Previous model.Selection
	Status   *model.PipelineStatus
	Metrics  measure.Measure
}

// View is the graph editor's state derived from one configuration.
type View struct {
	Nodes         []*model.StageInstance `json:"nodes"`
	Edges         []model.Edge           `json:"edges"`
	Issues        *model.IssueSet        `json:"issues,omitempty"`
	SelectedStage *model.StageInstance   `json:"selectedStage,omitempty"`
	SelectedLink  *model.Edge            `json:"selectedLink,omitempty"`
	ErrorCounts   map[string]int         `json:"stageErrorCounts,omitempty"`
	ReadOnly      bool                   `json:"isReadOnly"`
	ShowEdgeIcon  bool                   `json:"showEdgePreviewIcon"`
	SourceExists  bool                   `json:"sourceExists"`
	FirstOpenLane model.OpenLane         `json:"firstOpenLane"`
	Selection     model.Selection        `json:"selection"`
	StageSelected bool                   `json:"stageSelected"`
	Running       bool                   `json:"running"`
	Status        model.PipelineStatus   `json:"status"`
	StageCount    int                    `json:"stageCount"`
}

// Reconcile derives the view of in.Config. The result only depends on the input, so the
// same input always gives the same view.
func Reconcile(in Input, opts ...ReconcileOption) (View, error) {
	if in.Config == nil {
		return View{}, ErrConfigMustBeSet
	}

	options := reconcileOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	cfg := in.Config
	edges, sourceExists := DeriveEdges(cfg.Stages)
	running := IsRunning(in.Status, cfg)

	view := View{
		Nodes:        cfg.Stages,
		Edges:        edges,
		Issues:       cfg.Issues,
		ErrorCounts:  errorCountsFor(cfg, in.Status, in.Metrics),
		ReadOnly:     running,
		ShowEdgeIcon: running,
		SourceExists: sourceExists,
		Running:      running,
		Status:       ActiveStatus(in.Status, cfg),
		StageCount:   len(cfg.Stages),
	}

	if !options.hideHelp {
		view.FirstOpenLane = FirstOpenLane(cfg, options.laneMatcher)
	}

	view.Selection, view.StageSelected = ReconcileSelection(in.Previous, cfg)

	switch view.Selection.Type {
	case model.SelectionStageInstance:
		view.SelectedStage = view.Selection.Stage
	case model.SelectionLink:
		view.SelectedLink = view.Selection.Link
	}

	return view, nil
}
