// Package pkglog sets up the process-wide slog logger.
//
// Records are JSON with "ts", "severity" and a short source "file". Every
// record carries service=goeda and, inside a request, the correlation id
// under "_cID".
package pkglog
