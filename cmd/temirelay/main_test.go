package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/linklab/temi-relay/internal/infrastructure/config"
)

// isolate clears broker variables and leaves any developer .env behind.
func isolate(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvConfigPath, "HIVEMQ_BROKER_URL", "HIVEMQ_HOST", "TEMIRELAY_MQTT_HOST"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// TestSetup_MissingBroker verifies cold start fails without a broker host.
func TestSetup_MissingBroker(t *testing.T) {
	isolate(t)

	if _, err := setup(context.Background()); err == nil {
		t.Fatal("setup() should fail without a broker host")
	}
}

// TestSetup_InvalidConfigPath verifies an explicit config path must exist.
func TestSetup_InvalidConfigPath(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvConfigPath, "/nonexistent/path/config.yaml")
	t.Setenv("HIVEMQ_HOST", "broker.example.com")

	if _, err := setup(context.Background()); err == nil {
		t.Fatal("setup() should fail with invalid config path")
	}
}

// TestSetup_FromEnvironment verifies the HiveMQ credentials alone are enough.
func TestSetup_FromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("HIVEMQ_BROKER_URL", "mqtts://abc123.s1.eu.hivemq.cloud:8883")
	t.Setenv("HIVEMQ_USER", "relay")
	t.Setenv("HIVEMQ_PASSWORD", "secret")

	a, err := setup(context.Background())
	if err != nil {
		t.Fatalf("setup() error = %v", err)
	}
	defer a.Close()

	if a.Config.MQTT.Broker.Host != "abc123.s1.eu.hivemq.cloud" {
		t.Errorf("broker host = %q", a.Config.MQTT.Broker.Host)
	}
	if a.Handler == nil {
		t.Error("setup() returned nil handler")
	}
}

// TestSetup_FromFile verifies a YAML config is honoured.
func TestSetup_FromFile(t *testing.T) {
	isolate(t)
	configPath := filepath.Join(t.TempDir(), "temirelay.yaml")
	content := `
mqtt:
  broker:
    host: "127.0.0.1"
    port: 1883
    protocol: mqtt
relay:
  topic: temi-data
logging:
  level: debug
  format: text
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv(config.EnvConfigPath, configPath)

	a, err := setup(context.Background())
	if err != nil {
		t.Fatalf("setup() error = %v", err)
	}
	defer a.Close()

	if a.Config.MQTT.Broker.TLS() {
		t.Error("plain mqtt config produced TLS")
	}
}
