// temi-relay - webhook to temi robot relay
//
// This is the AWS Lambda entry point. Each invocation decodes a base64,
// form-encoded webhook body, publishes {"temi_request":true,"location":...}
// to the temi-data topic on the HiveMQ broker, and answers 200 or 500.
//
// Configuration is read once per cold start from TEMIRELAY_CONFIG (optional
// YAML) and the environment (HIVEMQ_BROKER_URL, HIVEMQ_USER, HIVEMQ_PASSWORD).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/linklab/temi-relay/internal/app"
	"github.com/linklab/temi-relay/internal/infrastructure/config"
	"github.com/linklab/temi-relay/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

func main() {
	a, err := setup(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// lambda.Start never returns; flush metrics when the runtime shuts us down.
	lambda.StartWithOptions(a.Handler.Handle, lambda.WithEnableSIGTERM(func() {
		if closeErr := a.Close(); closeErr != nil {
			a.Logger.Error("error during shutdown", "error", closeErr)
		}
	}))
}

// setup is the cold-start logic, separated from main for testability.
//
// Returns:
//   - *app.App: Wired relay ready for lambda.Start
//   - error: If configuration is missing or invalid
func setup(ctx context.Context) (*app.App, error) {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting temi-relay",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := os.Getenv(config.EnvConfigPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"path", configPath,
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"protocol", cfg.MQTT.Broker.Protocol,
		"topic", cfg.Relay.Topic,
	)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return a, nil
}
