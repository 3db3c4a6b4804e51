package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linklab/temi-relay/internal/infrastructure/influxdb"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the broker and metrics backends are reachable",
		Long: `check connects to the MQTT broker with the configured credentials and
disconnects without publishing. When InfluxDB metrics are enabled it also
runs a health check against the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			a, err := opts.load(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Publisher.CheckConnection(ctx); err != nil {
				return fmt.Errorf("broker check failed: %w", err)
			}
			fmt.Fprintf(out, "broker:   ok (%s)\n", a.Publisher.Broker())

			switch err := a.CheckMetrics(ctx); {
			case errors.Is(err, influxdb.ErrDisabled):
				fmt.Fprintln(out, "influxdb: disabled")
			case err != nil:
				return fmt.Errorf("influxdb check failed: %w", err)
			default:
				fmt.Fprintf(out, "influxdb: ok (%s)\n", a.Config.InfluxDB.URL)
			}

			return nil
		},
	}
}
