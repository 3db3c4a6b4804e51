package mqtt

import "errors"

// Domain-specific errors for MQTT operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrConnectionFailed is returned when the connection attempt fails.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed is returned when a publish operation fails.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrInvalidQoS is returned when an invalid QoS level is configured.
	// Valid QoS levels are 0, 1, or 2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")

	// ErrInvalidTopic is returned for an empty topic or one containing wildcards.
	ErrInvalidTopic = errors.New("mqtt: invalid publish topic")

	// ErrTimeout is returned when the broker does not answer in time.
	ErrTimeout = errors.New("mqtt: operation timed out")
)

// Stage identifies the step of a publish that failed.
type Stage string

// Stages of a single publish.
const (
	StageConnect Stage = "connect"
	StagePublish Stage = "publish"
)

// PublishError is the single failure type returned by Publisher.Publish.
// Err carries the sentinel and the underlying cause.
type PublishError struct {
	Stage Stage
	Err   error
}

func (e *PublishError) Error() string {
	return e.Err.Error()
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
