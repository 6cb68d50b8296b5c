package extender

import (
	"fmt"
	"maps"
	"reflect"
	"sync"

	"github.com/c360/webkit/errors"
)

// TypeRegistry maps a base type to its registered replacement type.
// It provides thread-safe registration and lookup; all mutation normally
// funnels through the Manager facade.
type TypeRegistry struct {
	bindings map[reflect.Type]reflect.Type
	mu       sync.RWMutex
}

// NewTypeRegistry creates a new empty type-substitution registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		bindings: make(map[reflect.Type]reflect.Type),
	}
}

// Register records ext as the replacement for its direct base type.
// The extension must be a concrete struct type that embeds its base.
// At most one replacement is kept per base type: the last registration
// wins, silently overwriting an earlier one, so an application can rebind
// by reloading. Validation failures leave the table unchanged.
func (r *TypeRegistry) Register(ext reflect.Type) error {
	if ext == nil {
		return errors.WrapInvalid(errors.ErrNilArgument,
			"TypeRegistry", "Register", "extension type validation")
	}
	if !isConcrete(ext) {
		return errors.WrapType(
			fmt.Errorf("%w: %s is abstract", errors.ErrInvalidType, ext),
			"TypeRegistry", "Register", "concrete type check")
	}

	base, ok := directBase(ext)
	if !ok {
		return errors.WrapType(
			fmt.Errorf("%w: %s declares no base type", errors.ErrInvalidType, ext),
			"TypeRegistry", "Register", "base type resolution")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.bindings[base] = ext
	return nil
}

// RegisterAll registers every type in the collection for which the
// predicate holds, in the collection's natural order. Later entries
// overwrite earlier ones for the same base type.
func (r *TypeRegistry) RegisterAll(types []reflect.Type, pred func(reflect.Type) bool) error {
	if types == nil {
		return errors.WrapInvalid(errors.ErrNilArgument,
			"TypeRegistry", "RegisterAll", "type collection validation")
	}
	if pred == nil {
		return errors.WrapInvalid(errors.ErrNilArgument,
			"TypeRegistry", "RegisterAll", "predicate validation")
	}

	for _, t := range types {
		if !pred(t) {
			continue
		}
		if err := r.Register(t); err != nil {
			return errors.Wrap(err, "TypeRegistry", "RegisterAll", t.String())
		}
	}
	return nil
}

// Lookup returns the registered replacement for base. A miss is a normal
// return, not an error.
func (r *TypeRegistry) Lookup(base reflect.Type) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext, ok := r.bindings[base]
	return ext, ok
}

// New builds an instance of the replacement registered for base, returning
// a pointer to a zero value of the extension type. ok is false when no
// replacement is registered.
func (r *TypeRegistry) New(base reflect.Type) (any, bool) {
	ext, ok := r.Lookup(base)
	if !ok {
		return nil, false
	}
	return reflect.New(ext).Interface(), true
}

// Bindings returns a snapshot of the substitution table for diagnostics.
func (r *TypeRegistry) Bindings() map[reflect.Type]reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[reflect.Type]reflect.Type, len(r.bindings))
	maps.Copy(result, r.bindings)
	return result
}

// Len returns the number of registered bindings.
func (r *TypeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.bindings)
}
