// Package config handles loading and validating temi-relay configuration.
//
// This package manages:
//   - Loading configuration from an optional YAML file
//   - Overriding with environment variables (and a local .env file)
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Broker credentials should be set via environment variables
//     (HIVEMQ_USER, HIVEMQ_PASSWORD) from the function's secret store
//   - The config file should not carry passwords in production
//
// Performance Characteristics:
//   - Configuration is loaded once per cold start
//   - No per-invocation overhead
//
// Usage:
//
//	cfg, err := config.Load(os.Getenv(config.EnvConfigPath))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.MQTT.Broker.Host)
package config
