package dispatch

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/c360/webkit/errors"
)

// Authorizer decides whether a request may invoke an action that declared
// RequireAuth. The dispatch layer carries the hook; the policy belongs to
// the host application.
type Authorizer interface {
	Authorize(r *http.Request) error
}

// AllowAll authorizes every request. Useful for development and for
// applications enforcing authorization upstream of the dispatch layer.
type AllowAll struct{}

// Authorize implements Authorizer.
func (AllowAll) Authorize(*http.Request) error { return nil }

// TokenAuthorizer authorizes requests carrying a fixed bearer token in the
// configured header.
type TokenAuthorizer struct {
	Header string // defaults to "Authorization"
	Token  string
}

// Authorize implements Authorizer.
func (t TokenAuthorizer) Authorize(r *http.Request) error {
	header := t.Header
	if header == "" {
		header = "Authorization"
	}

	got := r.Header.Get(header)
	want := "Bearer " + t.Token
	if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return errors.WrapInvalid(
			fmt.Errorf("%w: bad or missing token", errors.ErrInvalidConfig),
			"TokenAuthorizer", "Authorize", "token comparison")
	}
	return nil
}
