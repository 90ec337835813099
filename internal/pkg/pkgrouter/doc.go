// Package pkgrouter wraps HTTP routing and common middleware.
//
// It provides a small router abstraction over httprouter plus shared
// concerns: response encoding (JSON, HTML pages, redirects, downloads),
// error mapping, logging, recovery, rate limiting, body limits and
// correlation ID propagation.
package pkgrouter
