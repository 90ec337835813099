// Package pkgerror holds the error values shared by every layer.
//
// Stores return sentinels such as ErrNotFound. Use cases turn failures into
// *Error, whose Type and Code decide the HTTP status written by pkgrouter.
// The message of an *Error is safe to show to users and the wrapped cause
// is only logged.
package pkgerror
