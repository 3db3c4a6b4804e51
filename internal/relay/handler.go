package relay

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/linklab/temi-relay/internal/infrastructure/influxdb"
	"github.com/linklab/temi-relay/internal/infrastructure/logging"
	"github.com/linklab/temi-relay/internal/infrastructure/mqtt"
)

// Publisher sends one message to the broker; mqtt.Publisher implements it.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// DeliveryRecorder stores per-invocation metrics; influxdb.Client implements it.
type DeliveryRecorder interface {
	RecordDelivery(ctx context.Context, d influxdb.Delivery) error
}

// Handler serves webhook invocations.
//
// It holds only injected collaborators, so one Handler may serve concurrent
// invocations.
type Handler struct {
	publisher Publisher
	topic     string
	logger    *logging.Logger
	recorder  DeliveryRecorder
}

// NewHandler creates a Handler publishing to topic.
func NewHandler(publisher Publisher, topic string, logger *logging.Logger) *Handler {
	return &Handler{
		publisher: publisher,
		topic:     topic,
		logger:    logger.With("component", "relay"),
	}
}

// SetRecorder enables delivery metrics.
func (h *Handler) SetRecorder(recorder DeliveryRecorder) {
	h.recorder = recorder
}

// Handle decodes the webhook body, publishes the temi request and maps the
// outcome to a response. The returned error is always nil.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log := h.logger.With("request_id", requestID(ctx, req))
	log.Info("webhook received",
		"method", req.HTTPMethod,
		"path", req.Path,
		"body_bytes", len(req.Body),
	)

	location, err := DecodeLocation(req.Body)
	if err != nil {
		log.Warn("webhook body not decoded, sending null location", "error", err)
	}
	if location == nil {
		log.Info("no text parameter, sending null location")
	} else {
		log.Debug("location decoded", "location", *location)
	}

	payload, err := NewMessage(location).Encode()
	if err != nil {
		log.Error("message encoding failed", "error", err)
		return Failure(err), nil
	}

	started := time.Now()
	err = h.publisher.Publish(ctx, h.topic, payload)
	h.record(ctx, log, location != nil, time.Since(started), err)

	if err != nil {
		log.Error("publish failed",
			"topic", h.topic,
			"stage", stageOf(err),
			"error", err,
			"stack", string(debug.Stack()),
		)
		return Failure(err), nil
	}

	log.Info("request sent to temi", "topic", h.topic, "elapsed", time.Since(started))
	return Success(), nil
}

// record writes a delivery metric; failures are logged and otherwise ignored.
func (h *Handler) record(ctx context.Context, log *logging.Logger, locationPresent bool, elapsed time.Duration, pubErr error) {
	if h.recorder == nil {
		return
	}

	d := influxdb.Delivery{
		Topic:           h.topic,
		LocationPresent: locationPresent,
		Outcome:         influxdb.OutcomeDelivered,
		Duration:        elapsed,
		Time:            time.Now(),
	}
	if pubErr != nil {
		d.Outcome = influxdb.OutcomeFailed
		d.Stage = stageOf(pubErr)
	}

	if err := h.recorder.RecordDelivery(ctx, d); err != nil {
		log.Warn("delivery metric not recorded", "error", err)
	}
}

// stageOf returns the failing publish stage, or "unknown" for foreign errors.
func stageOf(err error) string {
	var pubErr *mqtt.PublishError
	if errors.As(err, &pubErr) {
		return string(pubErr.Stage)
	}
	return "unknown"
}

// requestID prefers the Lambda request ID and falls back to the gateway's.
func requestID(ctx context.Context, req events.APIGatewayProxyRequest) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return req.RequestContext.RequestID
}
