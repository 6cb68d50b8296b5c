// Package webkit provides a small toolkit for building Go web applications
// around a process-wide extender registry.
//
// # Architecture
//
// WebKit is built from three layers:
//
//	┌─────────────────────────────────────┐
//	│        HTTP Pipeline                │  Gzip, request IDs,
//	│   (pluggable middleware chain)      │  access logging
//	└─────────────────────────────────────┘
//	           ↓ routes into
//	┌─────────────────────────────────────┐
//	│        Action Dispatch              │  Named JSON actions,
//	│   (controller/action registry)      │  authorization hooks
//	└─────────────────────────────────────┘
//	           ↓ consults
//	┌─────────────────────────────────────┐
//	│        Extender Registry            │  Type substitution,
//	│   (types, event subscribers)        │  event subscriber map
//	└─────────────────────────────────────┘
//
// The extender registry is the core: applications register replacement
// implementations for base types and subscriber types for event sources
// during start-up, then query both tables concurrently at request time.
// The pipeline and dispatch layers are thin glue over net/http that the
// registry stays independent of.
//
// # Packages
//
//   - extender: type-substitution and event-subscriber registries
//   - pipeline: HTTP middleware (gzip, request ID, access log)
//   - dispatch: named JSON action registry and HTTP handler
//   - config: application configuration loading and validation
//   - metric: Prometheus metrics collection and HTTP server
//   - errors: classified error handling shared by all packages
//
// See cmd/webkit for a complete demo application wiring every layer.
package webkit
