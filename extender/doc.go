// Package extender provides the process-wide extender registry: a
// type-substitution table and an event-subscriber table, coordinated by a
// Manager facade.
//
// # Type model
//
// The registry works on reflect.Type tokens of struct types. Go has no
// class hierarchy, so the single-inheritance chain the registry walks is
// modeled by struct embedding: a type's direct base is the type of its
// first embedded struct field.
//
//	type Greeter struct{}
//
//	type FancyGreeter struct {
//	    Greeter // direct base
//	}
//
// Registering FancyGreeter substitutes it for Greeter: later calls to
// ExtensionFor(Greeter) return FancyGreeter, and NewExtension builds an
// instance of it. At most one substitution is active per base type; the
// last registration wins, so an application can rebind by reloading.
//
// # Event subscribers
//
// Event-source types embed the Event marker and subscriber types embed the
// generic Subscriber template parameterized by the event source they
// handle:
//
//	type UserCreated struct {
//	    extender.Event
//	    Name string
//	}
//
//	type WelcomeMailer struct {
//	    extender.Subscriber[UserCreated]
//	}
//
// RegisterSubscriberType recovers UserCreated from the template by walking
// WelcomeMailer's embedding chain, to arbitrary depth, so intermediate
// bases between the subscriber and the template are fine. Subscribers for
// one event source keep registration order and are not deduplicated:
// registering the same subscriber twice means it is invoked once per
// registration.
//
// # Concurrency
//
// Both tables are guarded by their own RWMutex. Every registration is
// individually atomic; lookups return copies, so a concurrent reader never
// observes a partially updated list. The intended shape is heavy write
// traffic during start-up followed by read-only lookups at request time,
// but any interleaving is safe.
//
// A package-level default Manager is created on first use; Reset discards
// it so tests can start from empty tables.
package extender
