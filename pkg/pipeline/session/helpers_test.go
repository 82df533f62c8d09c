package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipeline-graph/pkg/pipeline/events"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/measure"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/session"
)

// every is a sub second schedule, which cron.Every cannot express.
type every time.Duration

func (e every) Next(t time.Time) time.Time {
	return t.Add(time.Duration(e))
}

type fakeAPI struct {
	mu          sync.Mutex
	definitions *model.Definitions
	configs     map[string]*model.PipelineConfig
	order       []string
	status      *model.PipelineStatus
	metrics     *measure.Snapshot

	errDefinitions error
	errConfig      error
	errStatus      error
	errSave        error

	statusCalls int
	saves       []*model.PipelineConfig
	saveCount   int
	// when set, every save waits for a value before answering
	saveGate    chan struct{}
	saveStarted chan struct{}
	// same for listing the pipelines
	pipelinesGate    chan struct{}
	pipelinesStarted chan struct{}
}

var _ session.API = (*fakeAPI)(nil)

func newFakeAPI(t *testing.T, configs ...*model.PipelineConfig) *fakeAPI {
	t.Helper()

	api := &fakeAPI{
		definitions: &model.Definitions{
			Pipeline: []*model.PipelineDefinition{{Label: "Pipeline"}},
			Stages: []*model.StageDefinition{
				{Name: "lib_origin", Version: "1.0.0", Type: model.SourceStageType},
				{Name: "lib_mask", Version: "1.0.0", Type: model.ProcessorStageType},
				{Name: "lib_hdfs", Version: "1.0.0", Type: model.TargetStageType},
			},
		},
		configs: make(map[string]*model.PipelineConfig),
		status:  &model.PipelineStatus{State: model.StateStopped},
		metrics: &measure.Snapshot{},
	}

	for _, cfg := range configs {
		api.configs[cfg.Info.Name] = cfg
		api.order = append(api.order, cfg.Info.Name)
	}

	return api
}

func (f *fakeAPI) FetchDefinitions(context.Context) (*model.Definitions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.definitions, f.errDefinitions
}

func (f *fakeAPI) FetchPipelines(context.Context) ([]model.PipelineInfo, error) {
	f.mu.Lock()
	gate, started := f.pipelinesGate, f.pipelinesStarted
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	infos := make([]model.PipelineInfo, 0, len(f.order))
	for _, name := range f.order {
		infos = append(infos, f.configs[name].Info)
	}

	return infos, nil
}

func (f *fakeAPI) FetchPipelineStatus(context.Context) (*model.PipelineStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.statusCalls++
	if f.errStatus != nil {
		return nil, f.errStatus
	}

	st := *f.status

	return &st, nil
}

func (f *fakeAPI) FetchPipelineMetrics(context.Context) (*measure.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.metrics, nil
}

func (f *fakeAPI) FetchPipelineConfig(_ context.Context, name string) (*model.PipelineConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.errConfig != nil {
		return nil, f.errConfig
	}

	cfg, ok := f.configs[name]
	if !ok {
		return nil, fmt.Errorf("pipeline %q not found", name)
	}

	return cfg.Clone(), nil
}

func (f *fakeAPI) SavePipelineConfig(_ context.Context, name string, cfg *model.PipelineConfig) (*model.PipelineConfig, error) {
	f.mu.Lock()
	gate, started := f.saveGate, f.saveStarted
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.errSave != nil {
		return nil, f.errSave
	}

	f.saveCount++
	f.saves = append(f.saves, cfg.Clone())

	saved := cfg.Clone()
	saved.UUID = fmt.Sprintf("uuid-%d", f.saveCount)
	saved.Info.Name = name
	f.configs[name] = saved

	return saved.Clone(), nil
}

func (f *fakeAPI) setStatus(status model.PipelineStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.status = &status
}

func (f *fakeAPI) setMetrics(snap *measure.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.metrics = snap
}

func (f *fakeAPI) savesSnapshot() []*model.PipelineConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*model.PipelineConfig(nil), f.saves...)
}

func (f *fakeAPI) statusCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.statusCalls
}

func newStage(name string, stageType model.StageType, in, out []string) *model.StageInstance {
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
func linearConfig(name string) *model.PipelineConfig {
	return &model.PipelineConfig{
		Info: model.PipelineInfo{Name: name},
		Stages: []*model.StageInstance{
			newStage("origin", model.SourceStageType, nil, []string{"originOut"}),
			newStage("mask", model.ProcessorStageType, []string{"originOut"}, []string{"maskOut"}),
			newStage("hdfs", model.TargetStageType, []string{"maskOut"}, nil),
		},
	}
}

// slowSchedule keeps the pollers quiet during a test.
var slowSchedule = every(time.Hour)

func startSession(t *testing.T, api session.API, opts ...session.Option) (*session.Session, *events.MemoryHub) {
	t.Helper()

	hub := events.NewMemoryHub(events.WithBuffer(256))
	opts = append([]session.Option{session.WithRefreshSchedule(slowSchedule)}, opts...)
	s := session.New(api, hub, opts...)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s, hub
}

func subscribe(t *testing.T, hub events.Hub, kinds ...events.Kind) <-chan events.Event {
	t.Helper()

	ch, cancel, err := hub.Subscribe(context.Background(), kinds...)
	require.NoError(t, err)
	t.Cleanup(cancel)

	return ch
}

func receive(t *testing.T, ch <-chan events.Event) events.Event {
	t.Helper()

	select {
	case evt := <-ch:
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	return nil
}
