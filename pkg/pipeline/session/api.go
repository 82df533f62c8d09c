package session

import (
	"context"

	"github.com/askiada/go-pipeline-graph/pkg/pipeline/measure"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

// API is the pipeline agent the session talks to.
type API interface {
	FetchDefinitions(ctx context.Context) (*model.Definitions, error)
	FetchPipelines(ctx context.Context) ([]model.PipelineInfo, error)
	FetchPipelineStatus(ctx context.Context) (*model.PipelineStatus, error)
	FetchPipelineMetrics(ctx context.Context) (*measure.Snapshot, error)
	FetchPipelineConfig(ctx context.Context, name string) (*model.PipelineConfig, error)
	// SavePipelineConfig stores cfg and returns the configuration as stored by the agent,
	// with a new uuid.
	SavePipelineConfig(ctx context.Context, name string, cfg *model.PipelineConfig) (*model.PipelineConfig, error)
}
