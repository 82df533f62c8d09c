package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-pipeline-graph/pkg/pipeline/export"
)

func (a *app) dotCmd() *cobra.Command {
	var rankdir string

	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Export the stage graph of a pipeline in the DOT language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, _, err := a.loadView(cmd)
			if err != nil {
				return err
			}

			d := export.NewDOTDrawer(export.GraphAttribute("rankdir", rankdir))

			err = export.FromView(d, view)
			if err != nil {
				return errors.Wrap(err, "unable to export graph")
			}

			return d.Draw(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&rankdir, "rankdir", "LR", "graph direction (LR, TB, ...)")

	return cmd
}
