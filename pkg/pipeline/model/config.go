package model

import "time"

// PipelineInfo is the summary of a pipeline as listed by the agent.
type PipelineInfo struct {
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	UUID         string    `json:"uuid,omitempty"`
	Created      time.Time `json:"created,omitempty"`
	LastModified time.Time `json:"lastModified,omitempty"`
	Valid        bool      `json:"valid"`
}

// PipelineConfig is the full document describing one pipeline.
// It is replaced wholesale on every round trip with the agent.
type PipelineConfig struct {
	Info          PipelineInfo     `json:"info"`
	UUID          string           `json:"uuid,omitempty"`
	Stages        []*StageInstance `json:"stages"`
	Issues        *IssueSet        `json:"issues,omitempty"`
	Configuration []ConfigValue    `json:"configuration,omitempty"`
	UIInfo        map[string]any   `json:"uiInfo,omitempty"`
}

// Stage returns the stage instance with the given name.
func (c *PipelineConfig) Stage(instanceName string) (*StageInstance, bool) {
	if c == nil {
		return nil, false
	}

	for _, stage := range c.Stages {
		if stage.InstanceName == instanceName {
			return stage, true
		}
	}

	return nil, false
}

// Clone returns a copy of the configuration whose stages, configuration and ui info
// can be modified without affecting the original. Issues are shared since they are
// only ever replaced by the agent.
func (c *PipelineConfig) Clone() *PipelineConfig {
	if c == nil {
		return nil
	}

	cp := *c

	cp.Stages = make([]*StageInstance, len(c.Stages))
	for i, stage := range c.Stages {
		cp.Stages[i] = stage.Clone()
	}

	cp.Configuration = append([]ConfigValue(nil), c.Configuration...)

	if c.UIInfo != nil {
		cp.UIInfo = make(map[string]any, len(c.UIInfo))
		for k, v := range c.UIInfo {
			cp.UIInfo[k] = v
		}
	}

	return &cp
}
