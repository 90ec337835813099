package pkgrouter

import (
	"io"
	"net/http"
	"strings"
)

// Redirect makes the router answer with a redirect instead of a body.
// Code defaults to 303 See Other, the usual answer to a form POST.
type Redirect struct {
	Location string
	Code     int
}

// Attachment streams Body as a download named Filename. The router closes
// Body once written.
type Attachment struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
	// Inline lets the browser display the file instead of saving it.
	Inline bool
}

// Renderer is anything that writes a complete HTML document, such as a
// gomponents.Node.
type Renderer interface {
	Render(w io.Writer) error
}

// WantsJSON reports whether the client asked for JSON, either with
// ?format=json or by listing application/json before text/html in Accept.
func WantsJSON(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("format"), "json") {
		return true
	}

	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, _ := strings.Cut(part, ";")
		switch strings.ToLower(strings.TrimSpace(mediaType)) {
		case "application/json":
			return true
		case "text/html":
			return false
		}
	}

	return false
}
