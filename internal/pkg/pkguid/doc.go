// Package pkguid provides helpers for generating unique identifiers.
//
// Depending on the use case you can generate:
//   - String IDs (UUIDv7) for session cookies and correlation IDs.
//   - Numeric IDs (Snowflake) for upload identifiers that sort by time.
package pkguid
