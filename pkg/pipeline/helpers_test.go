package pipeline_test

import (
	"testing"

	"github.com/askiada/go-pipeline-graph/pkg/pipeline/measure"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

func newStage(t *testing.T, name string, stageType model.StageType, in, out []string) *model.StageInstance {
	t.Helper()

	return &model.StageInstance{
		InstanceName: name,
		StageName:    "lib_" + name,
		StageVersion: "1.0.0",
		UIInfo:       model.StageUIInfo{StageType: stageType},
		InputLanes:   in,
		OutputLanes:  out,
	}
}

// linearConfig is origin -> mask -> hdfs.
func linearConfig(t *testing.T) *model.PipelineConfig {
	t.Helper()

	return &model.PipelineConfig{
		Info: model.PipelineInfo{Name: "ingest"},
		Stages: []*model.StageInstance{
			newStage(t, "origin", model.SourceStageType, nil, []string{"originOut"}),
			newStage(t, "mask", model.ProcessorStageType, []string{"originOut"}, []string{"maskOut"}),
			newStage(t, "hdfs", model.TargetStageType, []string{"maskOut"}, nil),
		},
	}
}

func errorMetrics(t *testing.T, means map[string][2]float64) *measure.Snapshot {
	t.Helper()

	snap := measure.NewSnapshot()
	for name, m := range means {
		snap.Histograms[measure.ErrorRecordsKey(name)] = measure.Histogram{Mean: m[0]}
		snap.Histograms[measure.StageErrorsKey(name)] = measure.Histogram{Mean: m[1]}
	}

	return snap
}
