package dispatch

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/c360/webkit/errors"
)

// actionKey builds the case-insensitive registry key for an action.
func actionKey(controller, name string) string {
	return strings.ToLower(controller) + "/" + strings.ToLower(name)
}

// Registry manages the set of dispatchable actions. Unlike the extender
// registry, duplicate registration is rejected: actions are code wiring,
// and two handlers silently competing for one URL is a programming error.
type Registry struct {
	actions map[string]*Action
	mu      sync.RWMutex
}

// NewRegistry creates a new empty action registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]*Action),
	}
}

// Register adds an action to the registry.
func (r *Registry) Register(action *Action) error {
	if action == nil {
		return errors.WrapInvalid(errors.ErrNilArgument,
			"Registry", "Register", "action validation")
	}
	if action.Controller == "" || action.Name == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: controller and action names are required", errors.ErrInvalidConfig),
			"Registry", "Register", "action name validation")
	}
	if action.Handler == nil {
		return errors.WrapInvalid(errors.ErrNilArgument,
			"Registry", "Register", "handler validation")
	}

	key := action.key()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.actions[key]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("%w: action %q", errors.ErrAlreadyRegistered, key),
			"Registry", "Register", "duplicate action check")
	}

	r.actions[key] = action
	return nil
}

// Lookup returns the action registered for controller/name.
func (r *Registry) Lookup(controller, name string) (*Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	action, ok := r.actions[actionKey(controller, name)]
	return action, ok
}

// Actions returns every registered action sorted by key, for discovery
// endpoints and diagnostics.
func (r *Registry) Actions() []*Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Action, 0, len(r.actions))
	for _, a := range r.actions {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].key() < result[j].key()
	})
	return result
}

// Len returns the number of registered actions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.actions)
}
