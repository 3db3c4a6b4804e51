// Package logging provides structured logging for temi-relay.
//
// This package wraps Go's standard log/slog package so that the Lambda
// handler, the publisher and the operator CLI all emit the same shape of
// entry. CloudWatch ingests the JSON format directly.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("message published", "topic", "temi-data")
//	logger.Error("publish failed", "error", err)
//
// # Security
//
// Never log broker passwords or InfluxDB tokens.
package logging
