// Package pkgkv is a small key-value abstraction with per-entry expiry.
//
// Three drivers are available:
//   - memory: process-local map, entries expire lazily on read.
//   - badger: embedded LSM store, expiry handled by badger itself.
//   - sqlite: a single table migrated with goose, expiry checked on read.
//
// Every driver returns pkgerror.ErrNotFound for absent or expired keys.
package pkgkv
