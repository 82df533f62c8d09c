package pipeline

import (
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/measure"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

// StageErrorCounts returns the rounded error count of every stage instance, keyed by instance name.
func StageErrorCounts(stages []*model.StageInstance, msr measure.Measure) map[string]int {
	counts := make(map[string]int, len(stages))
	for _, stage := range stages {
		counts[stage.InstanceName] = measure.StageErrorCount(msr, stage.InstanceName)
	}

	return counts
}

// reportsOn reports whether the live status describes the given configuration.
func reportsOn(status *model.PipelineStatus, cfg *model.PipelineConfig) bool {
	return status != nil && cfg != nil && status.Name == cfg.Info.Name
}

// IsRunning reports whether the agent is running the given configuration.
func IsRunning(status *model.PipelineStatus, cfg *model.PipelineConfig) bool {
	return reportsOn(status, cfg) && status.State == model.StateRunning
}

// ActiveStatus returns the status of the given configuration. A status about another
// pipeline, or no status at all, means the configuration is stopped.
func ActiveStatus(status *model.PipelineStatus, cfg *model.PipelineConfig) model.PipelineStatus {
	if reportsOn(status, cfg) {
		return *status
	}

	return model.PipelineStatus{State: model.StateStopped}
}

// errorCountsFor computes the error counts only when the metrics describe the configuration.
func errorCountsFor(cfg *model.PipelineConfig, status *model.PipelineStatus, msr measure.Measure) map[string]int {
	if !reportsOn(status, cfg) || msr == nil || !msr.HasMeters() {
		return nil
	}

	return StageErrorCounts(cfg.Stages, msr)
}
