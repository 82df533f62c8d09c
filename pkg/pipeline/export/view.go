package export

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-graph/pkg/pipeline"
)

// FromView feeds the stages, edges and error counts of a view to the drawer.
func FromView(d Drawer, view pipeline.View) error {
	for _, stage := range view.Nodes {
		err := d.AddStage(stage)
		if err != nil {
			return errors.Wrapf(err, "unable to add stage %s", stage.InstanceName)
		}
	}

	for _, edge := range view.Edges {
		err := d.AddLink(edge.Source.InstanceName, edge.Target.InstanceName, edge.OutputLane)
		if err != nil {
			return errors.Wrapf(err, "unable to add lane %s", edge.OutputLane)
		}
	}

	names := make([]string, 0, len(view.ErrorCounts))
	for name := range view.ErrorCounts {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		err := d.SetErrorCount(name, view.ErrorCounts[name])
		if err != nil {
			return errors.Wrapf(err, "unable to set error count of %s", name)
		}
	}

	return nil
}
