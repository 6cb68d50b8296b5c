// Package config provides WebKit application configuration: typed config
// structs with validation, a JSON/YAML file loader, and a thread-safe
// wrapper for configuration shared across goroutines.
//
// Loading follows defaults-then-file semantics: values absent from the
// file keep the development defaults from Default().
//
//	loader := config.NewLoader()
//	cfg, err := loader.LoadFile("webkit.yaml")
//
// SafeConfig guards a config shared between the serving path and a
// reload path; Get returns deep copies so readers never see a partially
// applied update.
package config
