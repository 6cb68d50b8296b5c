package extender

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"reflect"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360/webkit/errors"
	"github.com/c360/webkit/metric"
)

// mirrorSubjectPrefix is the NATS subject prefix events are mirrored to.
const mirrorSubjectPrefix = "webkit.events."

// mirrorEnvelope is the wire form of a mirrored event.
type mirrorEnvelope struct {
	Timestamp string          `json:"timestamp"` // RFC3339 format
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
}

// Publisher delivers events to the subscriber types registered for the
// event's type. Each registration is invoked once, in registration order,
// on a fresh instance built with the subscriber's zero-argument
// constructor.
//
// When constructed with a NATS connection the publisher also mirrors every
// event to "webkit.events.<type>" for external consumers; with a nil
// connection mirroring is disabled.
type Publisher struct {
	manager *Manager
	logger  *slog.Logger
	nc      *nats.Conn
	enabled bool // whether NATS mirroring is enabled
	metrics *metric.Metrics
}

// NewPublisher creates a publisher over the given manager's subscriber
// table. logger and nc may be nil.
func NewPublisher(manager *Manager, logger *slog.Logger, nc *nats.Conn) *Publisher {
	if manager == nil {
		manager = Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		manager: manager,
		logger:  logger,
		nc:      nc,
		enabled: nc != nil,
		metrics: manager.metrics,
	}
}

// Publish delivers event to every registered subscriber of its type.
// A subscriber failure does not stop delivery to the remaining
// subscribers; all failures are joined into the returned error. An event
// type with no subscribers is a no-op, not an error.
func (p *Publisher) Publish(ctx context.Context, event any) error {
	if event == nil {
		return errors.WrapInvalid(errors.ErrNilArgument,
			"Publisher", "Publish", "event validation")
	}

	// Subscribers register against the event's value type; accept the event
	// by pointer or by value.
	eventType := reflect.TypeOf(event)
	if eventType.Kind() == reflect.Pointer {
		eventType = eventType.Elem()
	}
	p.mirror(ctx, eventType, event)

	// Counted before the subscriber lookup so mirrored-but-unsubscribed
	// events stay visible in metrics.
	if p.metrics != nil {
		p.metrics.EventsPublished.WithLabelValues(eventType.String()).Inc()
	}

	subs, ok := p.manager.SubscribersFor(eventType)
	if !ok {
		return nil
	}

	var errs []error
	for _, subType := range subs {
		if err := p.deliver(ctx, subType, event); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// deliver instantiates one subscriber and hands it the event.
func (p *Publisher) deliver(ctx context.Context, subType reflect.Type, event any) error {
	handler, ok := reflect.New(subType).Interface().(Handler)
	if !ok {
		// Registered but not invocable; the table intentionally does not
		// require Handler, so skip rather than fail the publish.
		p.logger.Warn("subscriber does not implement Handler",
			"subscriber", subType.String())
		return nil
	}

	if err := handler.HandleEvent(ctx, event); err != nil {
		if p.metrics != nil {
			p.metrics.SubscriberErrors.WithLabelValues(subType.String()).Inc()
		}
		p.logger.Error("subscriber failed",
			"subscriber", subType.String(), "error", err)
		return errors.Wrap(err, "Publisher", "Publish", subType.String())
	}
	return nil
}

// mirror publishes the JSON-encoded event to NATS, fire and forget.
func (p *Publisher) mirror(ctx context.Context, eventType reflect.Type, event any) {
	if !p.enabled {
		return
	}

	// Check context before performing I/O
	select {
	case <-ctx.Done():
		return
	default:
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("event mirror skipped", "event", eventType.String(), "error", err)
		return
	}

	envelope := mirrorEnvelope{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Event:     eventType.String(),
		Payload:   payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return
	}

	subject := mirrorSubjectPrefix + eventType.Name()
	if err := p.nc.Publish(subject, data); err != nil {
		p.logger.Warn("event mirror failed", "subject", subject, "error", err)
	}
}
