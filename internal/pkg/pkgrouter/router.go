package pkgrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgerror"
)

// Handler is the application-style handler used by this router.
//
// It returns a response payload or an error. Payloads are JSON encoded unless
// they are a Redirect, an *Attachment or a Renderer.
type Handler func(ctx context.Context, r *http.Request) (any, error)

type errorStyle int

const (
	styleJSON errorStyle = iota
	stylePage
)

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr  *httprouter.Router
	mws []Middleware
}

// NewRouter builds the default application router with standard middleware.
func NewRouter(uuid Generator) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, errorResponse{Error: "endpoint not found"}, http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, errorResponse{Error: "method not allowed"}, http.StatusMethodNotAllowed)
		}),
	}

	ro := &Router{
		hr: hr,
		mws: []Middleware{
			middlewareRecoverer,
			middlewareCorrelationID(uuid),
			middlewareLogging,
		},
	}

	ro.Handle(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"message": "server is running well"}, http.StatusOK)
	}))

	return ro
}

// Use appends middleware to the existing middleware stack.
func (r *Router) Use(mws ...Middleware) {
	r.mws = append(r.mws, mws...)
}

// GET registers a GET endpoint using the application Handler signature.
func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, styleJSON, h, mws...)
}

// POST registers a POST endpoint using the application Handler signature.
func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, styleJSON, h, mws...)
}

// Page registers a browser-facing endpoint. Errors are written as plain text
// unless the client asked for JSON.
func (r *Router) Page(method, path string, h Handler, mws ...Middleware) {
	r.endpoint(method, path, stylePage, h, mws...)
}

// Handle registers a raw http.Handler with the router.
func (r *Router) Handle(method, path string, h http.Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(h, append(r.mws, mws...)...))
}

func (r *Router) endpoint(method, path string, style errorStyle, h Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, re *http.Request) {
		resp, err := h(re.Context(), re)
		if err != nil {
			writeError(w, re, err, style)
			return
		}
		writeResponse(w, re, resp)
	}), append(r.mws, mws...)...))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error, style errorStyle) {
	msg := "Internal server error"
	code := http.StatusInternalServerError

	var gerr *pkgerror.Error
	if errors.As(err, &gerr) {
		msg = gerr.Msg()
		code = gerr.StatusCode()
	}

	if code >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "status", code, "error", err)
	}

	if style == stylePage && !WantsJSON(r) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, msg)
		return
	}

	writeJSON(w, errorResponse{Error: msg}, code)
}

func writeResponse(w http.ResponseWriter, r *http.Request, resp any) {
	code := http.StatusOK
	if sc, ok := resp.(interface {
		StatusCode() int
	}); ok {
		code = sc.StatusCode()
	}

	switch v := resp.(type) {
	case nil:
		w.WriteHeader(http.StatusNoContent)
	case Redirect:
		if v.Code == 0 {
			v.Code = http.StatusSeeOther
		}
		http.Redirect(w, r, v.Location, v.Code)
	case *Attachment:
		writeAttachment(w, r, v)
	case Renderer:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(code)
		if err := v.Render(w); err != nil {
			slog.ErrorContext(r.Context(), "server: failed to render html", "error", err)
		}
	default:
		if code == http.StatusNoContent {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, resp, code)
	}
}

func writeAttachment(w http.ResponseWriter, r *http.Request, a *Attachment) {
	defer func() {
		if err := a.Body.Close(); err != nil {
			slog.WarnContext(r.Context(), "server: failed to close attachment", "error", err)
		}
	}()

	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	disposition := "attachment"
	if a.Inline {
		disposition = "inline"
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": a.Filename}))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, a.Body); err != nil {
		slog.ErrorContext(r.Context(), "server: failed to stream attachment", "filename", a.Filename, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprint(w, `{"error":"Internal server error"}`)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(append(body, '\n'))
}
