// Package localapi serves the agent API from a directory of JSON documents.
//
// The directory layout is:
//
//	definitions.json
//	status.json
//	metrics.json
//	pipelines/<name>.json
//
// A missing status.json means no pipeline is running and a missing metrics.json means no
// metrics were reported.
package localapi

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-graph/pkg/pipeline/measure"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

const (
	definitionsFile = "definitions.json"
	statusFile      = "status.json"
	metricsFile     = "metrics.json"
	pipelinesDir    = "pipelines"
	pipelineExt     = ".json"
)

var (
	ErrPipelineNotFound    = errors.New("pipeline not found")
	ErrInvalidPipelineName = errors.New("invalid pipeline name")
)

// Client reads and writes the documents of one directory.
type Client struct {
	dir string
	now func() time.Time

	// serialises writes
	mu sync.Mutex
}

// Option configures a Client.
type Option func(c *Client)

// WithClock replaces the clock used to stamp saved configurations.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New creates a client over dir.
func New(dir string, opts ...Option) *Client {
	c := &Client{
		dir: dir,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchDefinitions returns the stage libraries.
func (c *Client) FetchDefinitions(ctx context.Context) (*model.Definitions, error) {
	defs := &model.Definitions{}

	err := c.readJSON(ctx, filepath.Join(c.dir, definitionsFile), defs)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch definitions")
	}

	return defs, nil
}

// FetchPipelines lists the stored pipelines sorted by name.
func (c *Client) FetchPipelines(ctx context.Context) ([]model.PipelineInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(c.dir, pipelinesDir))
	if errors.Is(err, fs.ErrNotExist) {
		return []model.PipelineInfo{}, nil
	}

	if err != nil {
		return nil, errors.Wrap(err, "unable to list pipelines")
	}

	infos := make([]model.PipelineInfo, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != pipelineExt {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), pipelineExt)

		cfg, err := c.FetchPipelineConfig(ctx, name)
		if err != nil {
			return nil, err
		}

		infos = append(infos, cfg.Info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})

	return infos, nil
}

// FetchPipelineStatus returns the live status. Without a status document the agent is idle.
func (c *Client) FetchPipelineStatus(ctx context.Context) (*model.PipelineStatus, error) {
	status := &model.PipelineStatus{}

	err := c.readJSON(ctx, filepath.Join(c.dir, statusFile), status)
	if errors.Is(err, fs.ErrNotExist) {
		return &model.PipelineStatus{State: model.StateStopped}, nil
	}

	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch pipeline status")
	}

	return status, nil
}

// FetchPipelineMetrics returns the metrics of the running pipeline.
func (c *Client) FetchPipelineMetrics(ctx context.Context) (*measure.Snapshot, error) {
	snap := &measure.Snapshot{}

	err := c.readJSON(ctx, filepath.Join(c.dir, metricsFile), snap)
	if errors.Is(err, fs.ErrNotExist) {
		return &measure.Snapshot{}, nil
	}

	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch pipeline metrics")
	}

	return snap, nil
}

// FetchPipelineConfig returns the configuration stored under name.
func (c *Client) FetchPipelineConfig(ctx context.Context, name string) (*model.PipelineConfig, error) {
	path, err := c.pipelinePath(name)
	if err != nil {
		return nil, err
	}

	cfg := &model.PipelineConfig{}

	err = c.readJSON(ctx, path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(ErrPipelineNotFound, "pipeline %q", name)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "unable to fetch pipeline %q", name)
	}

	if cfg.Info.Name == "" {
		cfg.Info.Name = name
	}

	return cfg, nil
}

// SavePipelineConfig stores cfg under name and returns the stored document. Like the agent,
// every save gets a new uuid; cfg itself is left untouched.
func (c *Client) SavePipelineConfig(ctx context.Context, name string, cfg *model.PipelineConfig) (*model.PipelineConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cfg == nil {
		return nil, errors.New("pipeline config must be set")
	}

	path, err := c.pipelinePath(name)
	if err != nil {
		return nil, err
	}

	saved := cfg.Clone()
	saved.UUID = uuid.NewString()
	saved.Info.Name = name
	saved.Info.UUID = saved.UUID
	saved.Info.LastModified = c.now().UTC()

	data, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(err, "unable to encode pipeline %q", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "unable to create pipelines directory")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return nil, errors.Wrapf(err, "unable to write pipeline %q", name)
	}

	if err := os.Rename(tmp, path); err != nil {
		return nil, errors.Wrapf(err, "unable to write pipeline %q", name)
	}

	return saved, nil
}

func (c *Client) pipelinePath(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", errors.Wrapf(ErrInvalidPipelineName, "%q", name)
	}

	return filepath.Join(c.dir, pipelinesDir, name+pipelineExt), nil
}

func (c *Client) readJSON(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "unable to decode %s", filepath.Base(path))
	}

	return nil
}
