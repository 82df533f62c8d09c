package model

// Edge connects the output lane of a source stage to a target stage reading that lane.
// Edges are derived from the stage lanes and only live for one reconciliation pass.
type Edge struct {
	Source     *StageInstance `json:"source"`
	Target     *StageInstance `json:"target"`
	OutputLane string         `json:"outputLane"`
}

// OpenLane points at the first output lane flagged as not connected.
// The zero value means no lane needs attention.
type OpenLane struct {
	Stage     *StageInstance `json:"stageInstance,omitempty"`
	LaneName  string         `json:"laneName,omitempty"`
	LaneIndex int            `json:"laneIndex"`
}

// IsEmpty reports whether no open lane was found.
func (o OpenLane) IsEmpty() bool {
	return o.Stage == nil
}
