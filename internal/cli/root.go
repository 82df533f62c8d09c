// Package cli implements the pipegraph command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/askiada/go-pipeline-graph/internal/localapi"
	"github.com/askiada/go-pipeline-graph/internal/poller"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/events"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/session"
)

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *Config
}

// NewRootCmd builds the command tree with its own configuration registry.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "pipegraph",
		Short:         "Inspect and follow pipeline graphs stored in a data directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(a.v, a.cfgFile)
			if err != nil {
				return err
			}

			a.cfg = cfg

			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./pipegraph.yaml)")
	flags.String("data-dir", ".", "directory holding definitions.json, status.json, metrics.json and pipelines/")
	flags.StringP("pipeline", "p", "", "pipeline to open instead of the running one")
	flags.String("refresh-schedule", "@every 2s", "cron schedule of the status and metrics polling")
	flags.Duration("save-delay", time.Second, "delay between the last edit and the save")
	flags.Bool("hide-help", false, "do not point at open lanes")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("json", false, "print JSON instead of text")

	for key, flag := range map[string]string{
		"data_dir":         "data-dir",
		"pipeline":         "pipeline",
		"refresh_schedule": "refresh-schedule",
		"save_delay":       "save-delay",
		"hide_help":        "hide-help",
		"log_level":        "log-level",
		"json":             "json",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(a.viewCmd(), a.dotCmd(), a.watchCmd())

	return root
}

// Execute runs the command line until it completes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := NewRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "pipegraph:", err)
		os.Exit(1)
	}
}

// openSession starts a session over the data directory.
func (a *app) openSession(ctx context.Context, cmd *cobra.Command, hub events.Hub) (*session.Session, error) {
	logger, err := newLogger(cmd.ErrOrStderr(), a.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	schedule, err := poller.Parse(a.cfg.RefreshSchedule)
	if err != nil {
		return nil, err
	}

	s := session.New(localapi.New(a.cfg.DataDir), hub,
		session.WithLogger(logger),
		session.WithSaveDelay(a.cfg.SaveDelay),
		session.WithRefreshSchedule(schedule),
		session.WithPipeline(a.cfg.Pipeline),
		session.WithHelpHidden(a.cfg.HideHelp),
	)

	if err := s.Start(ctx); err != nil {
		_ = s.Close()

		return nil, err
	}

	return s, nil
}
