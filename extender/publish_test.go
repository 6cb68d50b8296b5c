package extender

import (
	"context"
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/webkit/errors"
	"github.com/c360/webkit/metric"
)

func TestPublisher_DeliversInRegistrationOrder(t *testing.T) {
	resetDeliveryCounts()
	m := NewManager()
	require.NoError(t, m.RegisterSubscriberType(reflect.TypeOf(welcomeMailer{})))
	require.NoError(t, m.RegisterSubscriberType(reflect.TypeOf(auditLogger{})))

	pub := NewPublisher(m, nil, nil)
	require.NoError(t, pub.Publish(context.Background(), userCreated{Name: "ada"}))

	assert.Equal(t, int64(1), welcomeDeliveries.Load())
	assert.Equal(t, int64(1), auditDeliveries.Load())
}

func TestPublisher_DuplicateRegistrationInvokedPerRegistration(t *testing.T) {
	resetDeliveryCounts()
	m := NewManager()
	source := reflect.TypeOf(userCreated{})
	require.NoError(t, m.RegisterSubscriber(reflect.TypeOf(welcomeMailer{}), source))
	require.NoError(t, m.RegisterSubscriber(reflect.TypeOf(welcomeMailer{}), source))

	pub := NewPublisher(m, nil, nil)
	require.NoError(t, pub.Publish(context.Background(), userCreated{}))

	assert.Equal(t, int64(2), welcomeDeliveries.Load())
}

func TestPublisher_PointerEventMatchesValueRegistration(t *testing.T) {
	resetDeliveryCounts()
	m := NewManager()
	require.NoError(t, m.RegisterSubscriberType(reflect.TypeOf(welcomeMailer{})))

	pub := NewPublisher(m, nil, nil)
	require.NoError(t, pub.Publish(context.Background(), &userCreated{Name: "ada"}))

	assert.Equal(t, int64(1), welcomeDeliveries.Load())
}

func TestPublisher_NoSubscribersIsNoOp(t *testing.T) {
	pub := NewPublisher(NewManager(), nil, nil)
	assert.NoError(t, pub.Publish(context.Background(), userCreated{}))
}

func TestPublisher_CountsEventsWithoutSubscribers(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	m := NewManager(WithMetrics(registry.CoreMetrics()))

	pub := NewPublisher(m, nil, nil)
	require.NoError(t, pub.Publish(context.Background(), userCreated{}))

	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	var published float64
	for _, f := range families {
		if f.GetName() == "webkit_events_published_total" {
			for _, mf := range f.GetMetric() {
				published += mf.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, float64(1), published)
}

func TestPublisher_NilEvent(t *testing.T) {
	pub := NewPublisher(NewManager(), nil, nil)

	err := pub.Publish(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestPublisher_HandlerFailureDoesNotStopDelivery(t *testing.T) {
	resetDeliveryCounts()
	m := NewManager()
	source := reflect.TypeOf(userCreated{})
	require.NoError(t, m.RegisterSubscriber(reflect.TypeOf(failingSubscriber{}), source))
	require.NoError(t, m.RegisterSubscriber(reflect.TypeOf(auditLogger{}), source))

	pub := NewPublisher(m, nil, nil)
	err := pub.Publish(context.Background(), userCreated{})

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errHandlerBroken))
	assert.Equal(t, int64(1), auditDeliveries.Load(), "later subscriber still ran")
}

func TestPublisher_NonHandlerSubscriberSkipped(t *testing.T) {
	resetDeliveryCounts()
	m := NewManager()
	source := reflect.TypeOf(userCreated{})
	require.NoError(t, m.RegisterSubscriber(reflect.TypeOf(muteSubscriber{}), source))
	require.NoError(t, m.RegisterSubscriber(reflect.TypeOf(welcomeMailer{}), source))

	pub := NewPublisher(m, nil, nil)
	require.NoError(t, pub.Publish(context.Background(), userCreated{}))

	assert.Equal(t, int64(1), welcomeDeliveries.Load())
}

func TestPublisher_MirrorDisabledWithoutConnection(t *testing.T) {
	pub := NewPublisher(NewManager(), nil, nil)
	assert.False(t, pub.enabled)

	// Publishing with mirroring disabled must not touch NATS.
	assert.NoError(t, pub.Publish(context.Background(), userCreated{}))
}

func TestPublisher_NilManagerFallsBackToDefault(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	pub := NewPublisher(nil, nil, nil)
	assert.Same(t, Default(), pub.manager)
}
