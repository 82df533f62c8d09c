package pipeline

import (
	"slices"

	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

// DeriveEdges connects every output lane of a stage to each stage listing that lane as input.
// A lane read by several stages yields one edge per reader. It also reports whether the
// stages contain a source.
func DeriveEdges(stages []*model.StageInstance) ([]model.Edge, bool) {
	edges := []model.Edge{}
	sourceExists := false

	for _, source := range stages {
		if source.IsSource() {
			sourceExists = true
		}

		for _, lane := range source.OutputLanes {
			for _, target := range stages {
				if slices.Contains(target.InputLanes, lane) {
					edges = append(edges, model.Edge{
						Source:     source,
						Target:     target,
						OutputLane: lane,
					})
				}
			}
		}
	}

	return edges, sourceExists
}
