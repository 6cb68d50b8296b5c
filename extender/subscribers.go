package extender

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/c360/webkit/errors"
)

// SubscriberRegistry maps an event-source type to the ordered list of
// subscriber types bound to it. Lists keep insertion order and are not
// deduplicated: the same subscriber registered twice appears twice.
type SubscriberRegistry struct {
	subscribers map[reflect.Type][]reflect.Type
	template    Template
	mu          sync.RWMutex
}

// NewSubscriberRegistry creates a new empty subscriber registry using the
// package's Subscriber template for single-argument registration.
func NewSubscriberRegistry() *SubscriberRegistry {
	return &SubscriberRegistry{
		subscribers: make(map[reflect.Type][]reflect.Type),
		template:    SubscriberTemplate,
	}
}

// Register binds sub as a subscriber of source. Validation runs in order:
// the subscriber must be concrete, the subscriber must be zero-argument
// constructible, the source must descend from the Event marker, and the
// source must be zero-argument constructible. On success sub is appended
// to the source's list, created on first insertion. A validation failure
// leaves the list untouched.
func (r *SubscriberRegistry) Register(sub, source reflect.Type) error {
	if sub == nil {
		return errors.WrapInvalid(errors.ErrNilArgument,
			"SubscriberRegistry", "Register", "subscriber type validation")
	}
	if source == nil {
		return errors.WrapInvalid(errors.ErrNilArgument,
			"SubscriberRegistry", "Register", "event source type validation")
	}
	if !isConcrete(sub) {
		return errors.WrapType(
			fmt.Errorf("%w: subscriber %s is abstract", errors.ErrInvalidType, sub),
			"SubscriberRegistry", "Register", "concrete subscriber check")
	}
	if !isConstructible(sub) {
		return errors.WrapType(
			fmt.Errorf("%w: subscriber %s has no zero-argument constructor", errors.ErrInvalidType, sub),
			"SubscriberRegistry", "Register", "subscriber constructor check")
	}
	if !descendsFrom(source, eventMarker) {
		return errors.WrapType(
			fmt.Errorf("%w: %s does not descend from extender.Event", errors.ErrInvalidType, source),
			"SubscriberRegistry", "Register", "event marker ancestry check")
	}
	if !isConstructible(source) {
		return errors.WrapType(
			fmt.Errorf("%w: event source %s has no zero-argument constructor", errors.ErrInvalidType, source),
			"SubscriberRegistry", "Register", "event source constructor check")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.subscribers[source] = append(r.subscribers[source], sub)
	return nil
}

// RegisterType binds sub to the event source recovered from the Subscriber
// template in sub's base chain, then delegates to the two-argument form.
// It fails when sub does not extend the template.
func (r *SubscriberRegistry) RegisterType(sub reflect.Type) error {
	if sub == nil {
		return errors.WrapInvalid(errors.ErrNilArgument,
			"SubscriberRegistry", "RegisterType", "subscriber type validation")
	}

	source, ok := ResolveArgument(sub, r.template)
	if !ok {
		return errors.WrapType(
			fmt.Errorf("%w: %s does not extend %s", errors.ErrInvalidType, sub, r.template),
			"SubscriberRegistry", "RegisterType", "subscriber template resolution")
	}

	return r.Register(sub, source)
}

// RegisterAll scans a mixed type collection and registers every member
// that extends the Subscriber template. Members that fail template
// resolution are silently skipped so a bulk scan never fails on unrelated
// types; a member that resolves but then fails structural validation still
// errors, because it asserted the subscriber shape and got it wrong.
func (r *SubscriberRegistry) RegisterAll(types []reflect.Type) error {
	if types == nil {
		return errors.WrapInvalid(errors.ErrNilArgument,
			"SubscriberRegistry", "RegisterAll", "type collection validation")
	}

	for _, t := range types {
		if t == nil {
			continue
		}
		source, ok := ResolveArgument(t, r.template)
		if !ok {
			continue
		}
		if err := r.Register(t, source); err != nil {
			return errors.Wrap(err, "SubscriberRegistry", "RegisterAll", t.String())
		}
	}
	return nil
}

// Lookup returns the ordered subscriber list for source. The returned
// slice is a copy; callers may iterate it while writers keep appending.
// A miss is a normal return, not an error.
func (r *SubscriberRegistry) Lookup(source reflect.Type) ([]reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs, ok := r.subscribers[source]
	if !ok {
		return nil, false
	}

	result := make([]reflect.Type, len(subs))
	copy(result, subs)
	return result, true
}

// Len returns the number of event-source types with at least one
// registered subscriber.
func (r *SubscriberRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.subscribers)
}
