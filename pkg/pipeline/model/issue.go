package model

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Issue is a validation problem reported by the agent.
type Issue struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Level   string `json:"level,omitempty"`
}

// IssueSet groups the validation issues of a pipeline configuration.
// StageIssues keeps the order in which the agent listed the stage instances.
type IssueSet struct {
	PipelineIssues []Issue                                 `json:"pipelineIssues,omitempty"`
	StageIssues    *orderedmap.OrderedMap[string, []Issue] `json:"stageIssues,omitempty"`
	IssueCount     int                                     `json:"issueCount,omitempty"`
}

// NewIssueSet creates an empty issue set.
func NewIssueSet() *IssueSet {
	return &IssueSet{
		StageIssues: orderedmap.New[string, []Issue](),
	}
}

// AddStageIssues appends issues to the given stage instance, registering it at the
// end of the ordering if it was not known yet.
func (s *IssueSet) AddStageIssues(instanceName string, issues ...Issue) {
	if s.StageIssues == nil {
		s.StageIssues = orderedmap.New[string, []Issue]()
	}

	current, _ := s.StageIssues.Get(instanceName)
	s.StageIssues.Set(instanceName, append(current, issues...))
	s.IssueCount += len(issues)
}

// EachStage calls fn for every stage instance in order until fn returns false.
func (s *IssueSet) EachStage(fn func(instanceName string, issues []Issue) bool) {
	if s == nil || s.StageIssues == nil {
		return
	}

	for pair := s.StageIssues.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}
