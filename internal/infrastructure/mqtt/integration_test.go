//go:build integration

package mqtt

import (
	"context"
	"errors"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/linklab/temi-relay/internal/infrastructure/config"
)

// Integration tests against a real broker.
// These tests require a running MQTT broker at 127.0.0.1:1883.
//
// Run with:
//   go test -tags=integration -v ./internal/infrastructure/mqtt/...

func integrationConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:           "127.0.0.1",
			Port:           1883,
			Protocol:       "mqtt",
			ClientIDPrefix: "temi-relay-integration",
		},
		QoS: 1,
		Timeouts: config.MQTTTimeoutsConfig{
			Connect:           5,
			Publish:           5,
			DisconnectQuiesce: 250,
		},
	}
}

func TestIntegration_PublishIsDelivered(t *testing.T) {
	cfg := integrationConfig()
	topic := "temi-data/integration"
	payload := `{"temi_request":true,"location":"ConferenceRoomA"}`

	// Subscribe with a plain paho client to observe the relay's message.
	received := make(chan string, 1)
	opts := pahomqtt.NewClientOptions().
		AddBroker(brokerURL(cfg.Broker)).
		SetClientID(newClientID("temi-relay-observer"))
	observer := pahomqtt.NewClient(opts)
	if token := observer.Connect(); !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		t.Skipf("broker not available: %v", token.Error())
	}
	defer observer.Disconnect(250)

	token := observer.Subscribe(topic, 1, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		received <- string(msg.Payload())
	})
	if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		t.Fatalf("Subscribe() error = %v", token.Error())
	}

	p, err := NewPublisher(cfg)
	if err != nil {
		t.Fatalf("NewPublisher() error = %v", err)
	}
	if err := p.Publish(context.Background(), topic, []byte(payload)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case got := <-received:
		if got != payload {
			t.Errorf("received %s, want %s", got, payload)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("message not received within 5s")
	}
}

func TestIntegration_ConnectRefused(t *testing.T) {
	cfg := integrationConfig()
	cfg.Broker.Port = 19999

	p, err := NewPublisher(cfg)
	if err != nil {
		t.Fatalf("NewPublisher() error = %v", err)
	}

	err = p.Publish(context.Background(), DefaultTopic, []byte("{}"))
	var pubErr *PublishError
	if !errors.As(err, &pubErr) || pubErr.Stage != StageConnect {
		t.Errorf("Publish() error = %v, want connect-stage PublishError", err)
	}
}
