package model

// PipelineState is the run state reported by the agent.
type PipelineState string

const (
	StateRunning PipelineState = "RUNNING"
	StateStopped PipelineState = "STOPPED"
	StateError   PipelineState = "ERROR"
)

// PipelineStatus is the live status of the pipeline run by the agent.
type PipelineStatus struct {
	Name    string        `json:"name"`
	Rev     string        `json:"rev,omitempty"`
	State   PipelineState `json:"state"`
	Message string        `json:"message,omitempty"`
}
