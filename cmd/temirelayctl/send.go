package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linklab/temi-relay/internal/relay"
)

func newSendCmd(opts *rootOptions) *cobra.Command {
	var (
		location   string
		noLocation bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Publish one temi request directly to the broker",
		Long:  `send bypasses the webhook decoding and publishes {"temi_request":true,"location":...} to the configured topic.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !noLocation && location == "" {
				return fmt.Errorf("either --location or --no-location is required")
			}

			ctx := cmd.Context()

			a, err := opts.load(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var loc *string
			if !noLocation {
				loc = &location
			}

			payload, err := relay.NewMessage(loc).Encode()
			if err != nil {
				return err
			}

			topic := a.Config.Relay.Topic
			if err := a.Publisher.Publish(ctx, topic, payload); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "published %s to %s\n", payload, topic)
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "location the robot should go to")
	cmd.Flags().BoolVar(&noLocation, "no-location", false, "send a null location")
	cmd.MarkFlagsMutuallyExclusive("location", "no-location")

	return cmd
}
