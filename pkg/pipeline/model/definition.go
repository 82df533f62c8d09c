package model

// StageDefinition describes a stage available in the agent's stage libraries.
type StageDefinition struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Type        StageType `json:"type"`
	Label       string    `json:"label,omitempty"`
	Library     string    `json:"library,omitempty"`
	Description string    `json:"description,omitempty"`
}

// PipelineDefinition describes the pipeline level configuration options.
type PipelineDefinition struct {
	Label         string `json:"label,omitempty"`
	Description   string `json:"description,omitempty"`
	ConfigOptions []any  `json:"configDefinitions,omitempty"`
}

// Definitions is the agent's answer to a definitions request.
type Definitions struct {
	Pipeline []*PipelineDefinition `json:"pipeline"`
	Stages   []*StageDefinition    `json:"stages"`
}

// PipelineDefinition returns the first pipeline definition, if any.
func (d *Definitions) PipelineDefinition() *PipelineDefinition {
	if d == nil || len(d.Pipeline) == 0 {
		return nil
	}

	return d.Pipeline[0]
}

// StageDefinition returns the library stage matching a stage instance's name and version.
func (d *Definitions) StageDefinition(stageName, stageVersion string) (*StageDefinition, bool) {
	if d == nil {
		return nil, false
	}

	for _, def := range d.Stages {
		if def.Name == stageName && def.Version == stageVersion {
			return def, true
		}
	}

	return nil, false
}

// Libraries is the stage library split by category, as shown in the library panel.
type Libraries struct {
	Sources            []*StageDefinition
	Processors         []*StageDefinition
	SelectorProcessors []*StageDefinition
	Targets            []*StageDefinition
}

// Libraries partitions the stage definitions. Selector processors are kept apart from
// the other processors.
func (d *Definitions) Libraries() Libraries {
	var libs Libraries
	if d == nil {
		return libs
	}

	for _, def := range d.Stages {
		switch def.Type {
		case SourceStageType:
			libs.Sources = append(libs.Sources, def)
		case ProcessorStageType:
			if def.Name == SelectorProcessorName {
				libs.SelectorProcessors = append(libs.SelectorProcessors, def)
			} else {
				libs.Processors = append(libs.Processors, def)
			}
		case TargetStageType:
			libs.Targets = append(libs.Targets, def)
		}
	}

	return libs
}
