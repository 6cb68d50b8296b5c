// Package errors provides standardized error handling patterns for WebKit.
//
// # Overview
//
// The errors package implements a three-class error classification system:
// Invalid (absent or malformed input), Type (a supplied type violates a
// structural precondition), and Fatal (unrecoverable, stop processing).
//
// All failures in this toolkit are synchronous, local failures raised to
// the immediate caller at registration time. Nothing is retried, so there
// is no transient class; classification exists so callers can distinguish
// programmer errors (Type) from bad input (Invalid) without string
// matching.
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// Three wrapper functions provide classification-aware wrapping:
//
//	errors.WrapInvalid(err, "Component", "Method", "action") // absent/invalid input
//	errors.WrapType(err, "Component", "Method", "action")    // structural type violation
//	errors.WrapFatal(err, "Component", "Method", "action")   // unrecoverable
//
// The generic Wrap() adds context without setting a class.
//
// # Standard Error Variables
//
// Use the pre-defined sentinels instead of creating custom messages:
//
//	if ext == nil {
//	    return errors.WrapInvalid(errors.ErrNilArgument, "TypeRegistry", "Register", "extension type")
//	}
//
// Classification is preserved through error chains and works with the
// standard library's errors.Is and errors.As:
//
//	var ce *errors.ClassifiedError
//	if errors.As(err, &ce) {
//	    log.Printf("component: %s, class: %s", ce.Component, ce.Class)
//	}
package errors
