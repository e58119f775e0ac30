package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"daotask/internal/config"
	"daotask/internal/format"
)

type outputOptions struct {
	json bool
	yaml bool
}

// structured reports whether output goes through a formatter instead of the
// plain text renderers.
func (o *outputOptions) structured() bool {
	return o.json || o.yaml
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	out := &outputOptions{}
	var logLevel string

	cmd := &cobra.Command{
		Use:           "daotask",
		Short:         "Daotask records DAO tasks and computes their vesting grant schedules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if out.json && out.yaml {
				return errors.New("--json and --yaml are mutually exclusive")
			}
			if out.yaml {
				outputFormatter = format.YAMLFormatter{}
			}
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&out.json, "json", false, "output JSON")
	cmd.PersistentFlags().BoolVar(&out.yaml, "yaml", false, "output YAML")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newGrantCmd(cfg, out),
		newTaskCmd(cfg, out),
		newMilestoneCmd(cfg, out),
		newInfoCmd(cfg, out),
		newConfigCmd(cfg),
		newTokenCmd(),
		newMigrateCmd(cfg, out),
	)

	return cmd
}
