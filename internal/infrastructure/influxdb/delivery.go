package influxdb

import (
	"context"
	"fmt"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// DeliveryMeasurement is the measurement every relay delivery is written to.
const DeliveryMeasurement = "temi_relay_delivery"

// Outcome is the result of one relay invocation.
type Outcome string

// Delivery outcomes.
const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeFailed    Outcome = "failed"
)

// Delivery describes one relay invocation.
type Delivery struct {
	Topic           string
	LocationPresent bool
	Outcome         Outcome
	// Stage is the failing publish stage; empty on success.
	Stage    string
	Duration time.Duration
	Time     time.Time
}

// point converts d to a line-protocol point.
//
// Tags stay low-cardinality (topic, outcome, stage); the location itself is
// never written.
func (d Delivery) point() *write.Point {
	tags := map[string]string{
		"topic":   d.Topic,
		"outcome": string(d.Outcome),
	}
	if d.Stage != "" {
		tags["stage"] = d.Stage
	}

	ts := d.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	return write.NewPoint(
		DeliveryMeasurement,
		tags,
		map[string]interface{}{
			"duration_ms":      float64(d.Duration) / float64(time.Millisecond),
			"location_present": d.LocationPresent,
		},
		ts,
	)
}

// RecordDelivery writes d and waits for the server to accept it.
//
// Returns:
//   - error: ErrNotConnected after Close, or a wrapped ErrWriteFailed
func (c *Client) RecordDelivery(ctx context.Context, d Delivery) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	if err := c.writeAPI.WritePoint(ctx, d.point()); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	return nil
}
