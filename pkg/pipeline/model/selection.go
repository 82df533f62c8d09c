package model

// SelectionType tells which kind of entity is selected in the editor.
type SelectionType string

const (
	SelectionNone          SelectionType = ""
	SelectionPipeline      SelectionType = "PIPELINE"
	SelectionStageInstance SelectionType = "STAGE_INSTANCE"
	SelectionLink          SelectionType = "LINK"
)

// Selection is the entity shown in the detail pane. Only the field matching Type is set.
type Selection struct {
	Type     SelectionType   `json:"type"`
	Pipeline *PipelineConfig `json:"-"`
	Stage    *StageInstance  `json:"stage,omitempty"`
	Link     *Edge           `json:"link,omitempty"`
}

// PipelineSelection selects the pipeline level configuration.
func PipelineSelection(cfg *PipelineConfig) Selection {
	return Selection{Type: SelectionPipeline, Pipeline: cfg}
}

// StageSelection selects a stage instance.
func StageSelection(stage *StageInstance) Selection {
	return Selection{Type: SelectionStageInstance, Stage: stage}
}

// LinkSelection selects an edge.
func LinkSelection(edge *Edge) Selection {
	return Selection{Type: SelectionLink, Link: edge}
}

// Object returns the selected entity, or nil when nothing is selected.
func (s Selection) Object() any {
	switch s.Type {
	case SelectionPipeline:
		return s.Pipeline
	case SelectionStageInstance:
		return s.Stage
	case SelectionLink:
		return s.Link
	default:
		return nil
	}
}
