package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-graph/pkg/pipeline"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/events"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

var (
	title   = color.New(color.Bold).SprintFunc()
	good    = color.New(color.FgGreen).SprintFunc()
	bad     = color.New(color.FgRed).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
)

func stateText(state model.PipelineState) string {
	switch state {
	case model.StateRunning:
		return good(string(state))
	case model.StateError:
		return bad(string(state))
	default:
		return warning(string(state))
	}
}

// printView writes a human readable summary of the view.
func printView(w io.Writer, info model.PipelineInfo, view pipeline.View) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s [%s]\n", title("Pipeline"), info.Name, stateText(view.Status.State))

	if info.Description != "" {
		fmt.Fprintf(&b, "  %s\n", faint(info.Description))
	}

	if !view.SourceExists {
		fmt.Fprintf(&b, "%s\n", warning("no source stage"))
	}

	fmt.Fprintf(&b, "\n%s (%d)\n", title("Stages"), view.StageCount)

	for _, stage := range view.Nodes {
		line := fmt.Sprintf("  %-24s %-10s", stage.InstanceName, stage.UIInfo.StageType)
		if count, ok := view.ErrorCounts[stage.InstanceName]; ok {
			errs := fmt.Sprintf("errors: %d", count)
			if count > 0 {
				errs = bad(errs)
			}

			line += " " + errs
		}

		fmt.Fprintln(&b, strings.TrimRight(line, " "))
	}

	fmt.Fprintf(&b, "\n%s (%d)\n", title("Links"), len(view.Edges))

	for _, edge := range view.Edges {
		fmt.Fprintf(&b, "  %s -> %s %s\n", edge.Source.InstanceName, edge.Target.InstanceName,
			faint("("+edge.OutputLane+")"))
	}

	fmt.Fprintf(&b, "\n%s %s\n", title("Order:"), processingOrder(view.Nodes))

	if !view.FirstOpenLane.IsEmpty() {
		lane := view.FirstOpenLane
		fmt.Fprintf(&b, "\n%s %s", warning("Open lane:"), lane.Stage.InstanceName)

		if lane.LaneName != "" {
			fmt.Fprintf(&b, " / %s (#%d)", lane.LaneName, lane.LaneIndex)
		}

		fmt.Fprintln(&b)
	}

	if view.Issues != nil && view.Issues.IssueCount > 0 {
		fmt.Fprintf(&b, "%s %d\n", warning("Issues:"), view.Issues.IssueCount)
	}

	_, err := io.WriteString(w, b.String())

	return errors.Wrap(err, "unable to write view")
}

func processingOrder(stages []*model.StageInstance) string {
	topo, err := pipeline.BuildTopology(stages)
	if err != nil {
		return bad("unknown")
	}

	order, err := topo.Order()
	if err != nil {
		return bad("cyclic")
	}

	return strings.Join(order, ", ")
}

// printEvent writes one line per event.
func printEvent(w io.Writer, evt events.Event, asJSON bool) error {
	if asJSON {
		line := struct {
			Kind    events.Kind `json:"kind"`
			Payload any         `json:"payload"`
		}{Kind: evt.Kind(), Payload: eventPayload(evt)}

		return errors.Wrap(json.NewEncoder(w).Encode(line), "unable to encode event")
	}

	_, err := fmt.Fprintf(w, "%s %s\n", faint(string(evt.Kind())), describeEvent(evt))

	return errors.Wrap(err, "unable to write event")
}

func eventPayload(evt events.Event) any {
	if reported, ok := evt.(events.ErrorsReported); ok {
		msgs := make([]string, 0, len(reported.Errors))
		for _, err := range reported.Errors {
			msgs = append(msgs, err.Error())
		}

		return map[string][]string{"errors": msgs}
	}

	return evt
}

func describeEvent(evt events.Event) string {
	switch e := evt.(type) {
	case events.GraphUpdated:
		return fmt.Sprintf("%d stages, %d links, running=%t", e.View.StageCount, len(e.View.Edges), e.View.Running)
	case events.SelectionChanged:
		if e.Selection.Type == model.SelectionStageInstance && e.Selection.Stage != nil {
			return string(e.Selection.Type) + " " + e.Selection.Stage.InstanceName
		}

		return string(e.Selection.Type)
	case events.ErrorCountsUpdated:
		names := make([]string, 0, len(e.Counts))
		for name := range e.Counts {
			names = append(names, name)
		}

		sort.Strings(names)

		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%d", name, e.Counts[name]))
		}

		return strings.Join(parts, ", ")
	case events.ReadOnlyChanged:
		return fmt.Sprintf("read only=%t", e.ReadOnly)
	case events.PreviewRequested:
		return fmt.Sprintf("next batch=%t", e.NextBatch)
	case events.ErrorsReported:
		if len(e.Errors) == 0 {
			return good("cleared")
		}

		msgs := make([]string, 0, len(e.Errors))
		for _, err := range e.Errors {
			msgs = append(msgs, err.Error())
		}

		return bad(strings.Join(msgs, "; "))
	default:
		return ""
	}
}
