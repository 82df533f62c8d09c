package pipeline

import (
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

// ReconcileSelection carries the previous selection over to a freshly loaded configuration.
// It returns the new selection and whether a stage is selected.
//
// A selected stage is looked up again by instance name; if it was deleted, the pipeline gets
// selected instead. Links are passed through untouched and may point at stages of the
// previous configuration.
func ReconcileSelection(prev model.Selection, cfg *model.PipelineConfig) (model.Selection, bool) {
	switch prev.Type {
	case model.SelectionStageInstance:
		if prev.Stage != nil {
			if stage, ok := cfg.Stage(prev.Stage.InstanceName); ok {
				return model.StageSelection(stage), true
			}
		}

		return model.PipelineSelection(cfg), false
	case model.SelectionLink:
		return prev, false
	default:
		return model.PipelineSelection(cfg), false
	}
}
