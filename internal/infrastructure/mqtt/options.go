package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/linklab/temi-relay/internal/infrastructure/config"
)

const (
	// maxQoS is the maximum QoS level supported.
	maxQoS = 2

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12
)

// buildTLSConfig returns the TLS settings for the broker, or nil for plain TCP.
//
// The server name is pinned to the configured host. When CAFile is set its
// PEM certificates replace the system roots.
func buildTLSConfig(broker config.MQTTBrokerConfig) (*tls.Config, error) {
	if !broker.TLS() {
		return nil, nil
	}

	tlsConfig := &tls.Config{
		MinVersion: tlsMinVersion,
		ServerName: broker.Host,
	}

	if broker.CAFile != "" {
		pem, err := os.ReadFile(broker.CAFile)
		if err != nil {
			return nil, fmt.Errorf("reading CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("CA file %s contains no PEM certificates", broker.CAFile)
		}
		tlsConfig.RootCAs = pool
	}

	return tlsConfig, nil
}

// brokerURL builds the paho broker URL (ssl:// or tcp://) from config.
func brokerURL(broker config.MQTTBrokerConfig) string {
	scheme := "tcp"
	if broker.TLS() {
		scheme = "ssl"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, broker.Host, broker.Port)
}

// newClientID returns a unique client ID for one connection.
func newClientID(prefix string) string {
	if prefix == "" {
		return uuid.NewString()
	}
	return prefix + "-" + uuid.NewString()
}

// buildClientOptions creates paho MQTT options for one publish session.
//
// This configures:
//   - Broker URL (tcp:// or ssl:// based on protocol)
//   - A fresh client ID
//   - Authentication credentials (if provided)
//   - Clean session, no auto-reconnect, no connect retry
//   - TLS configuration (if enabled)
func buildClientOptions(cfg config.MQTTConfig, tlsConfig *tls.Config) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	opts.AddBroker(brokerURL(cfg.Broker))
	opts.SetClientID(newClientID(cfg.Broker.ClientIDPrefix))

	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	// One-shot session: nothing to resume, nothing to reconnect.
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)

	opts.SetConnectTimeout(cfg.ConnectTimeout())

	if tlsConfig != nil {
		opts.SetTLSConfig(tlsConfig)
	}

	return opts
}
