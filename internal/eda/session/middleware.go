package session

import (
	"context"
	"net/http"
	"time"

	"github.com/shandysiswandi/goeda/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/goeda/internal/pkg/pkguid"
)

// DefaultCookie names the session cookie when Config leaves it empty.
const DefaultCookie = "goeda_session"

type Config struct {
	Cookie string
	Secure bool
	// MaxAge of the cookie. Zero makes it a browser session cookie.
	MaxAge time.Duration
}

type ctxKey struct{}

// WithID stores id in ctx.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// ID returns the session id set by Middleware, or "".
func ID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Middleware makes sure every request carries a session id. A missing or
// malformed cookie is replaced with a fresh id from ids.
func Middleware(cfg Config, ids pkguid.StringValidator) pkgrouter.Middleware {
	name := cfg.Cookie
	if name == "" {
		name = DefaultCookie
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(name); err == nil && ids.Valid(c.Value) {
				id = c.Value
			}
			if id == "" {
				id = ids.Generate()
			}

			cookie := &http.Cookie{
				Name:     name,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			}
			if cfg.MaxAge > 0 {
				cookie.MaxAge = int(cfg.MaxAge / time.Second)
			}
			http.SetCookie(w, cookie)

			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}
