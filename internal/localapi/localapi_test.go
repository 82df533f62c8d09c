package localapi_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipeline-graph/internal/localapi"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/session"
)

var _ session.API = (*localapi.Client)(nil)

const ingestJSON = `{
  "info": {"name": "ingest", "valid": true},
  "uuid": "first",
  "stages": [
    {"instanceName": "origin", "stageName": "lib_origin", "stageVersion": "1",
     "uiInfo": {"stageType": "SOURCE"}, "inputLanes": [], "outputLanes": ["originOut"]},
    {"instanceName": "mask", "stageName": "lib_mask", "stageVersion": "1",
     "uiInfo": {"stageType": "PROCESSOR"}, "inputLanes": ["originOut"], "outputLanes": ["maskOut", "trashOut"]}
  ],
  "issues": {
    "stageIssues": {
      "mask": [{"message": "lane trashOut is open (VALIDATION_0011)"}],
      "origin": [{"message": "missing config"}]
    },
    "issueCount": 2
  }
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pipelines", "ingest.json"), ingestJSON)
	writeFile(t, filepath.Join(dir, "pipelines", "archive.json"), `{"info": {"name": "archive"}, "stages": []}`)
	writeFile(t, filepath.Join(dir, "pipelines", "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, "definitions.json"), `{
  "pipeline": [{"label": "Pipeline"}],
  "stages": [{"name": "lib_origin", "version": "1", "type": "SOURCE"}]
}`)

	return dir
}

func TestFetchPipelineConfig(t *testing.T) {
	t.Parallel()

	c := localapi.New(newDir(t))

	cfg, err := c.FetchPipelineConfig(context.Background(), "ingest")
	require.NoError(t, err)
	assert.Equal(t, "ingest", cfg.Info.Name)
	assert.Len(t, cfg.Stages, 2)
	assert.Equal(t, []string{"maskOut", "trashOut"}, cfg.Stages[1].OutputLanes)

	var order []string
	cfg.Issues.EachStage(func(name string, _ []model.Issue) bool {
		order = append(order, name)

		return true
	})
	assert.Equal(t, []string{"mask", "origin"}, order)

	_, err = c.FetchPipelineConfig(context.Background(), "missing")
	require.ErrorIs(t, err, localapi.ErrPipelineNotFound)

	_, err = c.FetchPipelineConfig(context.Background(), "../definitions")
	require.ErrorIs(t, err, localapi.ErrInvalidPipelineName)
}

func TestFetchPipelines(t *testing.T) {
	t.Parallel()

	infos, err := localapi.New(newDir(t)).FetchPipelines(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "archive", infos[0].Name)
	assert.Equal(t, "ingest", infos[1].Name)

	infos, err = localapi.New(t.TempDir()).FetchPipelines(context.Background())
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestFetchDefinitions(t *testing.T) {
	t.Parallel()

	defs, err := localapi.New(newDir(t)).FetchDefinitions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Pipeline", defs.PipelineDefinition().Label)
	assert.Len(t, defs.Libraries().Sources, 1)

	_, err = localapi.New(t.TempDir()).FetchDefinitions(context.Background())
	assert.Error(t, err)
}

func TestFetchStatusAndMetrics(t *testing.T) {
	t.Parallel()

	dir := newDir(t)
	c := localapi.New(dir)

	status, err := c.FetchPipelineStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.StateStopped, status.State)

	metrics, err := c.FetchPipelineMetrics(context.Background())
	require.NoError(t, err)
	assert.False(t, metrics.HasMeters())

	writeFile(t, filepath.Join(dir, "status.json"), `{"name": "ingest", "state": "RUNNING"}`)
	writeFile(t, filepath.Join(dir, "metrics.json"), `{
  "histograms": {"stage.mask.errorRecords.histogramM5": {"count": 3, "mean": 2.4}},
  "meters": {}
}`)

	status, err = c.FetchPipelineStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.PipelineStatus{Name: "ingest", State: model.StateRunning}, *status)

	metrics, err = c.FetchPipelineMetrics(context.Background())
	require.NoError(t, err)
	assert.True(t, metrics.HasMeters())

	h, ok := metrics.Histogram("stage.mask.errorRecords.histogramM5")
	require.True(t, ok)
	assert.InDelta(t, 2.4, h.Mean, 1e-9)

	writeFile(t, filepath.Join(dir, "status.json"), `{not json`)
	_, err = c.FetchPipelineStatus(context.Background())
	assert.Error(t, err)
}

func TestSavePipelineConfig(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := localapi.New(newDir(t), localapi.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	cfg, err := c.FetchPipelineConfig(ctx, "ingest")
	require.NoError(t, err)

	cfg.Info.Description = "edited"

	saved, err := c.SavePipelineConfig(ctx, "ingest", cfg)
	require.NoError(t, err)
	assert.NotEqual(t, "first", saved.UUID)
	assert.NotEmpty(t, saved.UUID)
	assert.Equal(t, saved.UUID, saved.Info.UUID)
	assert.Equal(t, now, saved.Info.LastModified)
	assert.Equal(t, "first", cfg.UUID)

	again, err := c.SavePipelineConfig(ctx, "ingest", saved)
	require.NoError(t, err)
	assert.NotEqual(t, saved.UUID, again.UUID)

	reloaded, err := c.FetchPipelineConfig(ctx, "ingest")
	require.NoError(t, err)
	assert.Equal(t, again.UUID, reloaded.UUID)
	assert.Equal(t, "edited", reloaded.Info.Description)
	assert.Len(t, reloaded.Stages, 2)

	_, err = c.SavePipelineConfig(ctx, "a/b", cfg)
	assert.ErrorIs(t, err, localapi.ErrInvalidPipelineName)
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := localapi.New(newDir(t))

	_, err := c.FetchPipelineConfig(ctx, "ingest")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = c.FetchPipelines(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
