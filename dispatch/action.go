package dispatch

import (
	"context"
	"encoding/json"
)

// ActionFunc is the signature of a dispatchable action. It receives the
// raw JSON request body and returns a JSON-serializable result.
type ActionFunc func(ctx context.Context, body json.RawMessage) (any, error)

// Action describes one registered action: its controller and action names
// as they appear in the URL, its handler, and whether the request must
// pass the authorizer before dispatch.
type Action struct {
	Controller  string
	Name        string
	Description string
	RequireAuth bool
	Handler     ActionFunc
}

// key returns the registry key, "controller/action" in lower case.
func (a *Action) key() string {
	return actionKey(a.Controller, a.Name)
}
