// Package mqtt publishes relay messages to the HiveMQ broker.
//
// Every call to Publisher.Publish owns one connection for its whole
// lifetime:
//
//	connect (TLS) → publish → disconnect
//
// There is no pooling, no auto-reconnect and no retry. A function invocation
// is isolated and may be frozen as soon as it returns, so a connection kept
// across invocations would dangle.
//
// # Security Considerations
//
//   - TLS (mqtts, port 8883) is the default and required for HiveMQ Cloud
//   - Server certificates are verified against system roots, or against
//     cfg.Broker.CAFile when set
//   - Credentials are supplied through config, never hardcoded
//
// # Errors
//
// Every failure is returned as *PublishError, whose Stage says whether the
// connect or the publish step failed. The wrapped error matches
// ErrConnectionFailed, ErrPublishFailed and, for expired waits, ErrTimeout:
//
//	var pubErr *mqtt.PublishError
//	if errors.As(err, &pubErr) && pubErr.Stage == mqtt.StageConnect {
//	    // broker unreachable or credentials rejected
//	}
//
// # Usage
//
//	publisher, err := mqtt.NewPublisher(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	err = publisher.Publish(ctx, mqtt.DefaultTopic, payload)
package mqtt
