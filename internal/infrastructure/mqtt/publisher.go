package mqtt

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/linklab/temi-relay/internal/infrastructure/config"
)

// Maximum payload size for MQTT messages (1MB).
const maxPayloadSize = 1 << 20

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
}

// Publisher opens a fresh broker connection for every Publish call.
//
// Thread Safety:
//   - Publish is safe for concurrent use; calls share no connection state.
type Publisher struct {
	cfg       config.MQTTConfig
	tlsConfig *tls.Config

	// newClient builds the paho client; replaced in tests.
	newClient func(*pahomqtt.ClientOptions) pahomqtt.Client

	logger Logger
}

// NewPublisher validates cfg and prepares the TLS settings.
//
// No network I/O happens here; connections are made per Publish.
//
// Returns:
//   - *Publisher: Ready for use
//   - error: If the QoS is out of range or the CA file cannot be used
func NewPublisher(cfg config.MQTTConfig) (*Publisher, error) {
	if cfg.QoS < 0 || cfg.QoS > maxQoS {
		return nil, ErrInvalidQoS
	}

	tlsConfig, err := buildTLSConfig(cfg.Broker)
	if err != nil {
		return nil, fmt.Errorf("mqtt: %w", err)
	}

	return &Publisher{
		cfg:       cfg,
		tlsConfig: tlsConfig,
		newClient: pahomqtt.NewClient,
	}, nil
}

// SetLogger sets a logger for connection lifecycle messages.
func (p *Publisher) SetLogger(logger Logger) {
	p.logger = logger
}

// Publish connects, publishes payload to topic with the configured QoS and
// retain flag, and disconnects.
//
// The disconnect runs on every path once the connect has been attempted,
// including a failed or timed-out publish.
//
// Parameters:
//   - ctx: Bounds every wait; the invocation deadline in a Lambda
//   - topic: Publish topic, without wildcards
//   - payload: Message body, max 1MB
//
// Returns:
//   - error: nil on success, otherwise a *PublishError
func (p *Publisher) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := validatePublishTopic(topic); err != nil {
		return &PublishError{Stage: StagePublish, Err: fmt.Errorf("%w: %q", err, topic)}
	}
	if len(payload) > maxPayloadSize {
		return &PublishError{
			Stage: StagePublish,
			Err:   fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize),
		}
	}

	client, err := p.connect(ctx)
	if err != nil {
		return err
	}
	defer p.disconnect(client)

	token := client.Publish(topic, byte(p.cfg.QoS), p.cfg.Retained, payload)
	if _, err := waitToken(ctx, token, p.cfg.PublishTimeout()); err != nil {
		return &PublishError{Stage: StagePublish, Err: fmt.Errorf("%w: %w", ErrPublishFailed, err)}
	}

	return nil
}

// CheckConnection connects to the broker and disconnects again without
// publishing. It verifies broker address, TLS and credentials.
//
// Returns:
//   - error: nil on success, otherwise a *PublishError at StageConnect
func (p *Publisher) CheckConnection(ctx context.Context) error {
	client, err := p.connect(ctx)
	if err != nil {
		return err
	}
	p.disconnect(client)
	return nil
}

// Broker returns the broker URL connections are made to.
func (p *Publisher) Broker() string {
	return brokerURL(p.cfg.Broker)
}

// connect opens a new session. On failure nothing is left open.
func (p *Publisher) connect(ctx context.Context) (pahomqtt.Client, error) {
	client := p.newClient(buildClientOptions(p.cfg, p.tlsConfig))

	started := time.Now()
	if done, err := waitToken(ctx, client.Connect(), p.cfg.ConnectTimeout()); err != nil {
		// A connect that is still in flight must not outlive the invocation.
		if !done {
			client.Disconnect(0)
		}
		return nil, &PublishError{Stage: StageConnect, Err: fmt.Errorf("%w: %w", ErrConnectionFailed, err)}
	}
	p.debug("mqtt connected", "broker", p.Broker(), "elapsed", time.Since(started))

	return client, nil
}

func (p *Publisher) disconnect(client pahomqtt.Client) {
	client.Disconnect(p.cfg.Timeouts.DisconnectQuiesce)
	p.debug("mqtt disconnected", "broker", p.Broker())
}

func (p *Publisher) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

// waitToken blocks until token completes, timeout expires or ctx ends.
// done reports whether the token itself completed.
func waitToken(ctx context.Context, token pahomqtt.Token, timeout time.Duration) (done bool, err error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return true, token.Error()
	case <-timer.C:
		return false, fmt.Errorf("%w after %v", ErrTimeout, timeout)
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
