package cli

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-pipeline-graph/pkg/pipeline"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/events"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

func (a *app) viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Print the reconciled graph of a pipeline",
		Long: `Load the pipeline being run, or the one given with --pipeline, and print its stages,
links, open lane and error counts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, info, err := a.loadView(cmd)
			if err != nil {
				return err
			}

			if a.cfg.JSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return errors.Wrap(enc.Encode(view), "unable to encode view")
			}

			return printView(cmd.OutOrStdout(), info, view)
		},
	}
}

// loadView runs a session just long enough to load the active pipeline.
func (a *app) loadView(cmd *cobra.Command) (pipeline.View, model.PipelineInfo, error) {
	s, err := a.openSession(cmd.Context(), cmd, events.NewMemoryHub())
	if err != nil {
		return pipeline.View{}, model.PipelineInfo{}, err
	}
	defer s.Close()

	info, ok := s.ActiveInfo()
	if !ok || s.Config() == nil {
		return pipeline.View{}, model.PipelineInfo{}, pipeline.ErrNoActivePipeline
	}

	return s.View(), info, nil
}
