package extender

import (
	"context"
	"errors"
	"sync/atomic"
)

// Type-substitution fixtures. The embedding chain models the base-type
// hierarchy the registry walks.

type animal struct{}

type dog struct {
	animal
	name string
}

type goldenRetriever struct {
	dog
}

type cat struct {
	animal
}

type tabby struct {
	cat
}

type orphan struct {
	count int
}

// Event fixtures.

type userCreated struct {
	Event
	Name string
}

type baseEvent struct {
	Event
}

type orderPlaced struct {
	baseEvent
	ID int
}

type notAnEvent struct {
	tag string
}

// Subscriber fixtures. Handlers count deliveries through package-level
// atomics because the publisher constructs a fresh instance per delivery.

var (
	welcomeDeliveries atomic.Int64
	auditDeliveries   atomic.Int64
	orderDeliveries   atomic.Int64
)

func resetDeliveryCounts() {
	welcomeDeliveries.Store(0)
	auditDeliveries.Store(0)
	orderDeliveries.Store(0)
}

type welcomeMailer struct {
	Subscriber[userCreated]
}

func (*welcomeMailer) HandleEvent(_ context.Context, _ any) error {
	welcomeDeliveries.Add(1)
	return nil
}

type auditLogger struct {
	Subscriber[userCreated]
}

func (*auditLogger) HandleEvent(_ context.Context, _ any) error {
	auditDeliveries.Add(1)
	return nil
}

// mailerBase sits between the subscriber and the template so resolution
// has to walk an intermediate ancestor.
type mailerBase struct {
	Subscriber[userCreated]
}

type deepMailer struct {
	mailerBase
}

func (*deepMailer) HandleEvent(_ context.Context, _ any) error {
	welcomeDeliveries.Add(1)
	return nil
}

type orderNotifier struct {
	Subscriber[orderPlaced]
}

func (*orderNotifier) HandleEvent(_ context.Context, _ any) error {
	orderDeliveries.Add(1)
	return nil
}

var errHandlerBroken = errors.New("handler broken")

type failingSubscriber struct {
	Subscriber[userCreated]
}

func (*failingSubscriber) HandleEvent(_ context.Context, _ any) error {
	return errHandlerBroken
}

// muteSubscriber is registrable but does not implement Handler.
type muteSubscriber struct {
	Subscriber[userCreated]
}

// badSubscriber binds to a type that is not an event source.
type badSubscriber struct {
	Subscriber[notAnEvent]
}
