package pkgrouter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
)

const (
	maxLoggedBodyBytes = 64 << 10
	maxLoggedStringLen = 256
	redacted           = "***"
)

// secret reports whether a header or JSON key holds a credential.
func secret(key string) bool {
	key = strings.ToLower(key)
	switch key {
	case "authorization", "cookie", "set-cookie", "password":
		return true
	}
	return strings.HasSuffix(key, "token")
}

func maskHeaders(headers http.Header) http.Header {
	out := headers.Clone()
	for key := range out {
		if secret(key) {
			out.Set(key, redacted)
		}
	}
	return out
}

// redact walks a decoded JSON value, hiding secrets and eliding long strings
// such as base64 charts.
func redact(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if secret(k) {
				out[k] = redacted
				continue
			}
			out[k] = redact(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = redact(item)
		}
		return out
	case string:
		if len(val) > maxLoggedStringLen {
			return fmt.Sprintf("<elided %d bytes>", len(val))
		}
		return val
	default:
		return v
	}
}

// describeBody turns a captured body into something worth logging.
func describeBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err == nil {
		return redact(decoded)
	}
	if !utf8.Valid(body) {
		return "<binary body omitted>"
	}
	if len(body) > maxLoggedStringLen {
		return string(body[:maxLoggedStringLen]) + "...(truncated)"
	}
	return string(body)
}

func isMultipart(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "multipart/")
}

// loggable reports whether a response body of this type is copied for the log.
// PNG attachments, HTML pages and CSV downloads are only summarized.
func loggable(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "application/json") || strings.HasPrefix(ct, "text/plain")
}

type responseRecorder struct {
	http.ResponseWriter
	status  int
	written int
	body    *bytes.Buffer
	checked bool
}

func (w *responseRecorder) check() {
	if w.checked {
		return
	}
	w.checked = true
	if !loggable(w.Header().Get("Content-Type")) {
		w.body = nil
	}
}

func (w *responseRecorder) WriteHeader(code int) {
	w.status = code
	w.check()
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.check()

	if w.body != nil {
		if room := maxLoggedBodyBytes - w.body.Len(); room > 0 {
			w.body.Write(p[:min(room, len(p))])
		}
	}

	n, err := w.ResponseWriter.Write(p)
	w.written += n
	return n, err
}

func (w *responseRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func routeOf(r *http.Request) string {
	if p := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); p != "" {
		return p
	}
	return r.URL.Path
}

// captureRequest copies up to maxLoggedBodyBytes of the request body and puts
// the consumed bytes back in front of the rest. Multipart uploads are streamed
// by the handler and never buffered here.
func captureRequest(r *http.Request) any {
	if isMultipart(r.Header.Get("Content-Type")) {
		return "<multipart body omitted>"
	}
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	//nolint:errcheck // best effort for logging only
	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}

	return describeBody(head)
}

func middlewareLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		route := routeOf(r)

		slog.InfoContext(r.Context(), "request received",
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"headers", maskHeaders(r.Header),
			"body", captureRequest(r),
		)

		rec := &responseRecorder{ResponseWriter: w, body: &bytes.Buffer{}}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}

		var body any
		switch {
		case rec.body != nil && rec.body.Len() > 0:
			body = describeBody(rec.body.Bytes())
		case rec.written > 0:
			body = fmt.Sprintf("<%s body omitted>", rec.Header().Get("Content-Type"))
		}

		slog.InfoContext(r.Context(), "response sent",
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"status", status,
			"bytes", rec.written,
			"latency_ms", time.Since(start).Milliseconds(),
			"body", body,
		)
	})
}
