package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the optional config file path.
const EnvConfigPath = "TEMIRELAY_CONFIG"

// dotEnvFile is loaded for local development; a missing file is ignored.
const dotEnvFile = ".env"

// Config is the root configuration structure for temi-relay.
// Values come from defaults, an optional YAML file and environment variables.
type Config struct {
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Relay    RelayConfig    `yaml:"relay"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker   MQTTBrokerConfig   `yaml:"broker"`
	Auth     MQTTAuthConfig     `yaml:"auth"`
	QoS      int                `yaml:"qos"`
	Retained bool               `yaml:"retained"`
	Timeouts MQTTTimeoutsConfig `yaml:"timeouts"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Protocol       string `yaml:"protocol"`
	ClientIDPrefix string `yaml:"client_id_prefix"`
	CAFile         string `yaml:"ca_file"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTTimeoutsConfig bounds each blocking step of a publish.
type MQTTTimeoutsConfig struct {
	Connect           int  `yaml:"connect"`            // seconds
	Publish           int  `yaml:"publish"`            // seconds
	DisconnectQuiesce uint `yaml:"disconnect_quiesce"` // milliseconds
}

// RelayConfig contains settings for the webhook relay itself.
type RelayConfig struct {
	Topic string `yaml:"topic"`
}

// InfluxDBConfig contains optional delivery metrics settings.
type InfluxDBConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Org     string `yaml:"org"`
	Bucket  string `yaml:"bucket"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TLS reports whether the configured protocol runs over TLS.
func (b MQTTBrokerConfig) TLS() bool {
	switch strings.ToLower(b.Protocol) {
	case "mqtts", "ssl", "tls":
		return true
	default:
		return false
	}
}

// ConnectTimeout returns the connect timeout as a Duration.
func (m MQTTConfig) ConnectTimeout() time.Duration {
	return time.Duration(m.Timeouts.Connect) * time.Second
}

// PublishTimeout returns the publish timeout as a Duration.
func (m MQTTConfig) PublishTimeout() time.Duration {
	return time.Duration(m.Timeouts.Publish) * time.Second
}

// Load reads configuration and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values, when path is non-empty
//  3. Environment variables, including a local .env file
//
// Credential variables follow the HiveMQ names (HIVEMQ_BROKER_URL, HIVEMQ_HOST,
// HIVEMQ_USER, HIVEMQ_PASSWORD); TEMIRELAY_* variables take precedence.
//
// Parameters:
//   - path: Path to the YAML configuration file, or "" for defaults + environment
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be read or parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// godotenv.Load never overrides variables that are already set.
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", dotEnvFile, err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Port:           8883,
				Protocol:       "mqtts",
				ClientIDPrefix: "temi-relay",
			},
			QoS: 0,
			Timeouts: MQTTTimeoutsConfig{
				Connect:           10,
				Publish:           5,
				DisconnectQuiesce: 250,
			},
		},
		Relay: RelayConfig{
			Topic: "temi-data",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// HiveMQ names are applied first so that TEMIRELAY_* names win.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("HIVEMQ_BROKER_URL"); v != "" {
		if err := applyBrokerURL(&cfg.MQTT.Broker, v); err != nil {
			return err
		}
	}
	if v := os.Getenv("HIVEMQ_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("HIVEMQ_USER"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("HIVEMQ_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// MQTT
	if v := os.Getenv("TEMIRELAY_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("TEMIRELAY_MQTT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TEMIRELAY_MQTT_PORT: %w", err)
		}
		cfg.MQTT.Broker.Port = port
	}
	if v := os.Getenv("TEMIRELAY_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("TEMIRELAY_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Relay
	if v := os.Getenv("TEMIRELAY_TOPIC"); v != "" {
		cfg.Relay.Topic = v
	}

	// Logging
	if v := os.Getenv("TEMIRELAY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// InfluxDB
	if v := os.Getenv("TEMIRELAY_INFLUXDB_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TEMIRELAY_INFLUXDB_ENABLED: %w", err)
		}
		cfg.InfluxDB.Enabled = enabled
	}
	if v := os.Getenv("TEMIRELAY_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("TEMIRELAY_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("TEMIRELAY_INFLUXDB_ORG"); v != "" {
		cfg.InfluxDB.Org = v
	}
	if v := os.Getenv("TEMIRELAY_INFLUXDB_BUCKET"); v != "" {
		cfg.InfluxDB.Bucket = v
	}

	return nil
}

// applyBrokerURL accepts a bare host, host:port, or a URL such as mqtts://host:8883.
func applyBrokerURL(broker *MQTTBrokerConfig, raw string) error {
	if !strings.Contains(raw, "://") {
		host, port, err := net.SplitHostPort(raw)
		if err != nil {
			// No port given.
			broker.Host = raw
			return nil
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("HIVEMQ_BROKER_URL port: %w", err)
		}
		broker.Host = host
		broker.Port = p
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("HIVEMQ_BROKER_URL: %w", err)
	}

	broker.Protocol = u.Scheme
	broker.Host = u.Hostname()
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("HIVEMQ_BROKER_URL port: %w", err)
		}
		broker.Port = port
	}

	return nil
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// MQTT validation
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required (set HIVEMQ_BROKER_URL or HIVEMQ_HOST)")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	switch strings.ToLower(c.MQTT.Broker.Protocol) {
	case "mqtts", "ssl", "tls", "mqtt", "tcp":
	default:
		errs = append(errs, fmt.Sprintf("mqtt.broker.protocol %q is not supported", c.MQTT.Broker.Protocol))
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Timeouts.Connect <= 0 || c.MQTT.Timeouts.Publish <= 0 {
		errs = append(errs, "mqtt.timeouts.connect and mqtt.timeouts.publish must be positive")
	}

	// Relay validation
	if c.Relay.Topic == "" {
		errs = append(errs, "relay.topic is required")
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" || c.InfluxDB.Org == "" || c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.url, influxdb.org and influxdb.bucket are required when influxdb is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
