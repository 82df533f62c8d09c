// Package events carries typed notifications from an editing session to the views showing it.
package events

import (
	"github.com/askiada/go-pipeline-graph/pkg/pipeline"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

// Kind identifies an event type.
type Kind string

const (
	KindGraphUpdated           Kind = "graph.updated"
	KindSelectionChanged       Kind = "selection.changed"
	KindValidityCheckRequested Kind = "validity.check_requested"
	KindGraphRecentered        Kind = "graph.recentered"
	KindErrorCountsUpdated     Kind = "graph.error_counts_updated"
	KindReadOnlyChanged        Kind = "graph.read_only_changed"
	KindPreviewRequested       Kind = "preview.requested"
	KindSnapshotRequested      Kind = "snapshot.requested"
	KindErrorsReported         Kind = "errors.reported"
)

// Event is a notification published on a Hub.
type Event interface {
	Kind() Kind
}

// GraphUpdated carries the view derived from a newly loaded configuration.
type GraphUpdated struct {
	View pipeline.View
}

// SelectionChanged tells the graph which entity is now selected.
type SelectionChanged struct {
	Selection model.Selection
}

// ValidityCheckRequested asks forms to show their validation state again.
type ValidityCheckRequested struct{}

// GraphRecentered asks the graph to move back to its center.
type GraphRecentered struct{}

// ErrorCountsUpdated carries fresh per stage error counts of the running pipeline.
type ErrorCountsUpdated struct {
	Counts map[string]int
}

// ReadOnlyChanged toggles graph editing.
type ReadOnlyChanged struct {
	ReadOnly bool
}

// PreviewRequested asks the preview panel to fetch data.
type PreviewRequested struct {
	NextBatch bool
}

// SnapshotRequested asks the snapshot panel to capture the running pipeline.
type SnapshotRequested struct{}

// ErrorsReported carries the errors to show to the user. It replaces the errors reported before.
type ErrorsReported struct {
	Errors []error
}

func (GraphUpdated) Kind() Kind           { return KindGraphUpdated }
func (SelectionChanged) Kind() Kind       { return KindSelectionChanged }
func (ValidityCheckRequested) Kind() Kind { return KindValidityCheckRequested }
func (GraphRecentered) Kind() Kind        { return KindGraphRecentered }
func (ErrorCountsUpdated) Kind() Kind     { return KindErrorCountsUpdated }
func (ReadOnlyChanged) Kind() Kind        { return KindReadOnlyChanged }
func (PreviewRequested) Kind() Kind       { return KindPreviewRequested }
func (SnapshotRequested) Kind() Kind      { return KindSnapshotRequested }
func (ErrorsReported) Kind() Kind         { return KindErrorsReported }
