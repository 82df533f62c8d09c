// Package export writes the stage graph of a reconciled view in formats other tools read.
package export

import (
	"io"

	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

// Drawer is an interface that defines the methods for exporting a pipeline graph.
type Drawer interface {
	// AddStage adds a stage instance to the graph.
	AddStage(stage *model.StageInstance) error
	// AddLink connects two stages through an output lane. Lanes between the same stages
	// share one link.
	AddLink(source, target, lane string) error
	// SetErrorCount attaches the error count of a running stage.
	SetErrorCount(instanceName string, count int) error
	// Draw writes the graph.
	Draw(w io.Writer) error
}
