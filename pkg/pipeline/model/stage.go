package model

// StageType is the library category of a stage.
type StageType string

const (
	SourceStageType    StageType = "SOURCE"
	ProcessorStageType StageType = "PROCESSOR"
	TargetStageType    StageType = "TARGET"
)

// SelectorProcessorName is the processor stage that routes records to several lanes.
// The agent does not model selectors as their own stage type.
const SelectorProcessorName = "com_streamsets_pipeline_lib_stage_processor_selector_SelectorProcessor"

// ConfigValue is a single named configuration entry of a stage or a pipeline.
type ConfigValue struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// StageUIInfo holds the editor metadata of a stage instance.
type StageUIInfo struct {
	StageType   StageType `json:"stageType"`
	Label       string    `json:"label,omitempty"`
	Description string    `json:"description,omitempty"`
	XPos        float64   `json:"xPos,omitempty"`
	YPos        float64   `json:"yPos,omitempty"`
}

// StageInstance is a stage placed in a pipeline configuration.
type StageInstance struct {
	InstanceName  string        `json:"instanceName"`
	Library       string        `json:"library,omitempty"`
	StageName     string        `json:"stageName"`
	StageVersion  string        `json:"stageVersion"`
	Configuration []ConfigValue `json:"configuration,omitempty"`
	UIInfo        StageUIInfo   `json:"uiInfo"`
	InputLanes    []string      `json:"inputLanes"`
	OutputLanes   []string      `json:"outputLanes"`
}

// IsSource reports whether the stage is tagged as a source in its ui info.
func (s *StageInstance) IsSource() bool {
	return s.UIInfo.StageType == SourceStageType
}

// Clone returns a copy of the stage that does not share lane or configuration slices.
func (s *StageInstance) Clone() *StageInstance {
	if s == nil {
		return nil
	}

	c := *s
	c.Configuration = append([]ConfigValue(nil), s.Configuration...)
	c.InputLanes = append([]string(nil), s.InputLanes...)
	c.OutputLanes = append([]string(nil), s.OutputLanes...)

	return &c
}
