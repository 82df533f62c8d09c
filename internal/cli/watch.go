package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/askiada/go-pipeline-graph/pkg/pipeline/events"
)

func (a *app) watchCmd() *cobra.Command {
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow a pipeline and print the session events",
		Long: `Open a session on the data directory and print every event it publishes: graph
updates, read only changes when the pipeline starts or stops, error counts and errors.
Runs until interrupted, or for --duration when set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			hub := events.NewMemoryHub()

			ch, unsubscribe, err := hub.Subscribe(ctx)
			if err != nil {
				return err
			}
			defer unsubscribe()

			s, err := a.openSession(ctx, cmd, hub)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()

			for {
				select {
				case <-ctx.Done():
					return nil
				case evt, ok := <-ch:
					if !ok {
						return nil
					}

					if err := printEvent(out, evt, a.cfg.JSON); err != nil {
						return err
					}
				}
			}
		},
	}

	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (0 runs until interrupted)")

	return cmd
}
