package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linklab/temi-relay/internal/app"
	"github.com/linklab/temi-relay/internal/infrastructure/config"
	"github.com/linklab/temi-relay/internal/infrastructure/logging"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	cfgFile  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "temirelayctl",
		Short:         "Operate the temi webhook relay",
		Long:          `temirelayctl publishes temi requests, runs the webhook handler locally and checks backend connectivity, using the same configuration as the function.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintln(cmd.OutOrStdout(), version)
				return nil
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default $"+config.EnvConfigPath+", else environment only)")
	cmd.PersistentFlags().StringVarP(&opts.logLevel, "log-level", "L", "", "override logging.level (debug, info, warn, error)")
	cmd.Flags().BoolP("version", "v", false, "Print the version number")

	cmd.AddCommand(newSendCmd(opts))
	cmd.AddCommand(newInvokeCmd(opts))
	cmd.AddCommand(newCheckCmd(opts))

	return cmd
}

// load builds the relay the same way the function does, logging to stderr.
func (o *rootOptions) load(ctx context.Context, cmd *cobra.Command) (*app.App, error) {
	path := o.cfgFile
	if path == "" {
		path = os.Getenv(config.EnvConfigPath)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	cfg.Logging.Format = "text"

	log := logging.NewWithWriter(cfg.Logging, version, cmd.ErrOrStderr())
	return app.New(ctx, cfg, log)
}
