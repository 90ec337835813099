// Package pkgroutine contains helpers for running goroutines safely.
//
// The Manager type limits concurrency, collects returned errors, and logs
// panics so that work does not crash the process silently. A Group scopes
// a few tasks under the same limit and joins them independently.
package pkgroutine
