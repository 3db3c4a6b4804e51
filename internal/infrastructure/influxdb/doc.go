// Package influxdb records relay delivery metrics in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library. Recording is optional
// (influxdb.enabled in config) and never affects the webhook response.
//
// Each invocation becomes one point in the temi_relay_delivery measurement:
//
//	temi_relay_delivery,outcome=delivered,topic=temi-data duration_ms=84.2,location_present=true
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // metrics off
//	}
//	defer client.Close()
//
//	err = client.RecordDelivery(ctx, influxdb.Delivery{
//	    Topic:   "temi-data",
//	    Outcome: influxdb.OutcomeDelivered,
//	})
package influxdb
