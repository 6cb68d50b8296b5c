package extender

import (
	"context"
	"reflect"
)

// Event is the marker base for publishable event types. Event-source
// structs embed Event, directly or through intermediate bases, to become
// registrable with the subscriber registry.
type Event struct{}

// Subscriber is the generic base a subscriber type embeds to declare the
// event source it handles. The zero-size array field lets the registry
// recover E from a closed instantiation by reflection; it adds no storage
// to the embedding struct.
type Subscriber[E any] struct {
	_ [0]E
}

// Handler is implemented by subscriber types that want to receive events
// from a Publisher. Registration does not require it: the subscriber table
// only tracks types, and a caller iterating the table applies its own
// invocation policy.
type Handler interface {
	HandleEvent(ctx context.Context, event any) error
}

// eventMarker is the reflect token all event-source types must descend from.
var eventMarker = TypeFor[Event]()

// TypeFor returns the reflect type of T without constructing a value.
func TypeFor[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// TypesOf returns the reflect types of the given values, a convenience for
// building the collections consumed by the bulk registration calls.
func TypesOf(values ...any) []reflect.Type {
	types := make([]reflect.Type, 0, len(values))
	for _, v := range values {
		types = append(types, reflect.TypeOf(v))
	}
	return types
}

// directBase returns the direct base of t: the type of its first embedded
// struct field. ok is false when t declares no base.
func directBase(t reflect.Type) (reflect.Type, bool) {
	if t == nil || t.Kind() != reflect.Struct || t.NumField() == 0 {
		return nil, false
	}
	field := t.Field(0)
	if !field.Anonymous || field.Type.Kind() != reflect.Struct {
		return nil, false
	}
	return field.Type, true
}

// descendsFrom reports whether marker appears in t's base chain. The type
// itself does not count as its own descendant.
func descendsFrom(t, marker reflect.Type) bool {
	for base, ok := directBase(t); ok; base, ok = directBase(base) {
		if base == marker {
			return true
		}
	}
	return false
}

// isConcrete reports whether t can back a real instance. Interface types
// are the abstract types of this model.
func isConcrete(t reflect.Type) bool {
	return t != nil && t.Kind() != reflect.Interface
}

// isConstructible reports whether a zero-argument construction via
// reflect.New yields a usable value. Only struct kinds qualify.
func isConstructible(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Struct
}
