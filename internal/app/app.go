// Package app wires the relay's collaborators from a loaded configuration.
//
// Both the Lambda entry point and the operator CLI build the same graph:
// logger → MQTT publisher → relay handler, plus the optional InfluxDB
// recorder.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/linklab/temi-relay/internal/infrastructure/config"
	"github.com/linklab/temi-relay/internal/infrastructure/influxdb"
	"github.com/linklab/temi-relay/internal/infrastructure/logging"
	"github.com/linklab/temi-relay/internal/infrastructure/mqtt"
	"github.com/linklab/temi-relay/internal/relay"
)

// App holds the wired relay for one process (one Lambda execution environment).
type App struct {
	Config    *config.Config
	Logger    *logging.Logger
	Publisher *mqtt.Publisher
	Handler   *relay.Handler

	influx *influxdb.Client
}

// New builds the relay from cfg.
//
// InfluxDB is best effort: when it is enabled but unreachable the relay runs
// without delivery metrics and logs a warning.
//
// Returns:
//   - *App: Ready to serve invocations
//   - error: If the MQTT publisher cannot be configured
func New(ctx context.Context, cfg *config.Config, log *logging.Logger) (*App, error) {
	publisher, err := mqtt.NewPublisher(cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("configuring MQTT publisher: %w", err)
	}
	publisher.SetLogger(log.With("component", "mqtt"))

	a := &App{
		Config:    cfg,
		Logger:    log,
		Publisher: publisher,
		Handler:   relay.NewHandler(publisher, cfg.Relay.Topic, log),
	}

	influxClient, err := influxdb.Connect(ctx, cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Debug("InfluxDB disabled")
	case err != nil:
		log.Warn("InfluxDB unavailable, delivery metrics off", "error", err)
	default:
		a.influx = influxClient
		a.Handler.SetRecorder(influxClient)
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	}

	return a, nil
}

// CheckMetrics verifies the InfluxDB server answers.
//
// Returns:
//   - error: influxdb.ErrDisabled when metrics are off, influxdb.ErrNotConnected
//     when the cold-start connect failed, or the health check error
func (a *App) CheckMetrics(ctx context.Context) error {
	if !a.Config.InfluxDB.Enabled {
		return influxdb.ErrDisabled
	}
	if a.influx == nil {
		return influxdb.ErrNotConnected
	}
	return a.influx.HealthCheck(ctx)
}

// Close releases the InfluxDB client, if any. MQTT holds nothing between calls.
func (a *App) Close() error {
	if a.influx == nil {
		return nil
	}
	a.Logger.Info("closing InfluxDB connection")
	return a.influx.Close()
}
