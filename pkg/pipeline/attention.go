package pipeline

import (
	"strings"

	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

// OpenLaneIssueCode is the validation code the agent uses for an output lane
// that no stage reads.
const OpenLaneIssueCode = "VALIDATION_0011"

// LaneMatcher picks which output lane an issue message is about.
// It returns the lane and its index in outputLanes, or false when none matches.
type LaneMatcher func(message string, outputLanes []string) (string, int, bool)

// MatchLaneInMessage returns the first output lane whose name appears in the message.
// The agent only reports the lane inside the free text of the issue.
func MatchLaneInMessage(message string, outputLanes []string) (string, int, bool) {
	for i, lane := range outputLanes {
		if strings.Contains(message, lane) {
			return lane, i, true
		}
	}

	return "", -1, false
}

// IsOpenLaneIssue reports whether the issue flags an unconnected output lane.
func IsOpenLaneIssue(issue model.Issue) bool {
	return strings.Contains(issue.Message, OpenLaneIssueCode)
}

// FirstOpenLane finds the first output lane flagged as open. Stage instances are visited in
// the order the agent listed them, and only the first instance with an open lane issue is
// considered. A nil matcher uses MatchLaneInMessage.
func FirstOpenLane(cfg *model.PipelineConfig, match LaneMatcher) model.OpenLane {
	if cfg == nil || cfg.Issues == nil {
		return model.OpenLane{}
	}

	if match == nil {
		match = MatchLaneInMessage
	}

	var (
		instanceName string
		message      string
	)

	cfg.Issues.EachStage(func(name string, issues []model.Issue) bool {
		for _, issue := range issues {
			if IsOpenLaneIssue(issue) {
				instanceName = name
				message = issue.Message

				return false
			}
		}

		return true
	})

	if instanceName == "" {
		return model.OpenLane{}
	}

	stage, ok := cfg.Stage(instanceName)
	if !ok {
		return model.OpenLane{}
	}

	laneName, laneIndex, ok := match(message, stage.OutputLanes)
	if !ok {
		return model.OpenLane{Stage: stage, LaneIndex: -1}
	}

	return model.OpenLane{
		Stage:     stage,
		LaneName:  laneName,
		LaneIndex: laneIndex,
	}
}
