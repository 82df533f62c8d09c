package pipeline

import (
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-graph/internal/store"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

// LanesAttribute is the edge attribute listing the lanes connecting two stages.
const LanesAttribute = "lanes"

const laneSeparator = ","

// Topology is the stage graph of a configuration. Stages are vertices keyed by instance
// name; all lanes between the same two stages share one edge.
type Topology struct {
	graph graph.Graph[string, *model.StageInstance]
	store store.CustomStore[string, *model.StageInstance]
}

func stageHash(s *model.StageInstance) string {
	return s.InstanceName
}

// NewTopology builds the stage graph from the stages and their derived edges.
func NewTopology(stages []*model.StageInstance, edges []model.Edge) (*Topology, error) {
	st := store.NewMemoryStore[string, *model.StageInstance]()
	topo := &Topology{
		graph: graph.NewWithStore(stageHash, st, graph.Directed()),
		store: st,
	}

	for _, stage := range stages {
		err := topo.graph.AddVertex(stage, graph.VertexAttribute("label", stageLabel(stage)))
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add stage %s", stage.InstanceName)
		}
	}

	for _, edge := range edges {
		err := topo.addLane(edge)
		if err != nil {
			return nil, err
		}
	}

	return topo, nil
}

// BuildTopology derives the edges of the stages and builds their graph.
func BuildTopology(stages []*model.StageInstance) (*Topology, error) {
	edges, _ := DeriveEdges(stages)

	return NewTopology(stages, edges)
}

func (t *Topology) addLane(edge model.Edge) error {
	source, target := edge.Source.InstanceName, edge.Target.InstanceName

	existing, err := t.graph.Edge(source, target)
	if errors.Is(err, graph.ErrEdgeNotFound) {
		err = t.graph.AddEdge(source, target, graph.EdgeAttribute(LanesAttribute, edge.OutputLane))
		if err != nil {
			return errors.Wrapf(err, "unable to add edge from %s to %s", source, target)
		}

		return nil
	}

	if err != nil {
		return errors.Wrapf(err, "unable to get edge from %s to %s", source, target)
	}

	lanes := existing.Properties.Attributes[LanesAttribute]
	err = t.graph.UpdateEdge(source, target,
		graph.EdgeAttribute(LanesAttribute, lanes+laneSeparator+edge.OutputLane),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to update edge from %s to %s", source, target)
	}

	return nil
}

// Graph exposes the underlying graph.
func (t *Topology) Graph() graph.Graph[string, *model.StageInstance] {
	return t.graph
}

// Stages returns the instance names in declaration order.
func (t *Topology) Stages() ([]string, error) {
	return t.store.ListVertices()
}

// Links returns the stage to stage edges in the order they were first derived.
func (t *Topology) Links() ([]graph.Edge[string], error) {
	return t.store.ListEdges()
}

// Lanes returns the lanes going from source to target.
func (t *Topology) Lanes(source, target string) ([]string, error) {
	edge, err := t.graph.Edge(source, target)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to get edge from %s to %s", source, target)
	}

	return strings.Split(edge.Properties.Attributes[LanesAttribute], laneSeparator), nil
}

// Downstream returns the stages reachable from the given stage. The order is unspecified.
func (t *Topology) Downstream(instanceName string) ([]string, error) {
	var res []string

	err := graph.BFS(t.graph, instanceName, func(name string) bool {
		if name != instanceName {
			res = append(res, name)
		}

		return false
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to walk from %s", instanceName)
	}

	return res, nil
}

func stageLabel(stage *model.StageInstance) string {
	if stage.UIInfo.Label != "" {
		return stage.UIInfo.Label
	}

	return stage.InstanceName
}

// Order returns the stages sorted so that every stage comes after the stages it reads
// from. Stages that become ready together keep their declaration order. It fails when
// the lanes form a cycle.
func (t *Topology) Order() ([]string, error) {
	declared, err := t.Stages()
	if err != nil {
		return nil, errors.Wrap(err, "unable to list stages")
	}

	index := make(map[string]int, len(declared))
	for i, name := range declared {
		index[name] = i
	}

	order, err := graph.StableTopologicalSort(t.graph, func(a, b string) bool {
		return index[a] < index[b]
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to sort stages")
	}

	return order, nil
}
