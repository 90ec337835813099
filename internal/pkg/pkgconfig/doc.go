// Package pkgconfig provides a small abstraction for reading configuration values.
//
// Business code depends on the Config interface and does not care whether a
// value came from the YAML file, a GOEDA_ environment variable, or a default.
//
// This package focuses on convenience getters for common types and simple
// decoding rules (for example base64 for binary values, "24h" for durations).
package pkgconfig
