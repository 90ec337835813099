package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
	"github.com/shandysiswandi/goeda/internal/eda/session"
	"github.com/shandysiswandi/goeda/internal/eda/usecase"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgerror"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgrouter"
)

type HTTPEndpoint struct {
	uc uc
}

var home = pkgrouter.Redirect{Location: "/"}

func (h *HTTPEndpoint) Index(ctx context.Context, r *http.Request) (any, error) {
	return indexPage(), nil
}

func (h *HTTPEndpoint) Upload(ctx context.Context, r *http.Request) (any, error) {
	part, filename, err := extractFilePart(r)
	if err != nil {
		return nil, tooLarge(err)
	}
	if part == nil {
		return home, nil
	}
	defer part.Close()

	if filename == "" {
		return home, nil
	}

	result, err := h.uc.Upload(ctx, session.ID(ctx), filename, part)
	if err != nil {
		return nil, tooLarge(err)
	}

	if pkgrouter.WantsJSON(r) {
		return UploadResponse{
			Filename: result.Session.Filename,
			RowCount: result.Session.RowCount,
			Columns:  result.Session.Columns,
			Next:     "/upload_success",
		}, nil
	}
	return pkgrouter.Redirect{Location: "/upload_success"}, nil
}

func (h *HTTPEndpoint) UploadSuccess(ctx context.Context, r *http.Request) (any, error) {
	sess, err := h.uc.Session(ctx, session.ID(ctx))
	if err != nil {
		return pageOrError(r, err)
	}

	if pkgrouter.WantsJSON(r) {
		return UploadResponse{Filename: sess.Filename, RowCount: sess.RowCount, Columns: sess.Columns}, nil
	}
	return uploadSuccessPage(sess), nil
}

func (h *HTTPEndpoint) EDA(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Analyze(ctx, session.ID(ctx))
	if err != nil {
		return pageOrError(r, err)
	}

	if pkgrouter.WantsJSON(r) {
		return toEDAResponse(result), nil
	}
	return edaPage(result), nil
}

func (h *HTTPEndpoint) Graph(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Columns(ctx, session.ID(ctx))
	if err != nil {
		return pageOrError(r, err)
	}

	if pkgrouter.WantsJSON(r) {
		return ColumnsResponse{NumericCols: result.Numeric, CategoricalCols: result.Categorical}, nil
	}
	return graphPage(result), nil
}

func (h *HTTPEndpoint) Clean(ctx context.Context, r *http.Request) (any, error) {
	var req CleanRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	strategy := string(entity.StrategyMean)
	if req.MissingValueStrategy != nil {
		strategy = *req.MissingValueStrategy
	}

	result, err := h.uc.Clean(ctx, session.ID(ctx), strategy, req.KeepDuplicates)
	if err != nil {
		return nil, err
	}

	return CleanResponse{Message: result.Message, DownloadURL: result.DownloadURL}, nil
}

func (h *HTTPEndpoint) DownloadCleaned(ctx context.Context, r *http.Request) (any, error) {
	dl, err := h.uc.Cleaned(ctx, session.ID(ctx))
	if err != nil {
		return nil, err
	}

	return &pkgrouter.Attachment{Filename: dl.Filename, ContentType: dl.ContentType, Body: dl.Body}, nil
}

// StoredFile serves the session's uploaded or cleaned file inline.
func (h *HTTPEndpoint) StoredFile(ctx context.Context, r *http.Request) (any, error) {
	dl, err := h.uc.Stored(ctx, session.ID(ctx), pkgrouter.GetParam(ctx, "filename"))
	if err != nil {
		return nil, err
	}

	return &pkgrouter.Attachment{Filename: dl.Filename, ContentType: dl.ContentType, Body: dl.Body, Inline: true}, nil
}

func (h *HTTPEndpoint) GenerateGraph(ctx context.Context, r *http.Request) (any, error) {
	var req GraphRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	result, err := h.uc.Graph(ctx, session.ID(ctx), usecase.GraphInput{
		Kind: req.ChartType,
		X:    strings.TrimSpace(req.XCol),
		Y:    strings.TrimSpace(req.YCol),
	})
	if err != nil {
		return nil, err
	}

	return GraphResponse{Image: result.Image}, nil
}

// pageOrError sends browsers without an upload back to the index page.
// JSON clients get the error itself.
func pageOrError(r *http.Request, err error) (any, error) {
	if pkgerror.CodeOf(err) == pkgerror.CodePrecondition && !pkgrouter.WantsJSON(r) {
		return home, nil
	}
	return nil, err
}

func tooLarge(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return pkgerror.NewBusiness(
			fmt.Sprintf("File too large. The limit is %d bytes.", mbe.Limit), pkgerror.CodeTooLarge)
	}
	return err
}

// decodeJSON reads a JSON object body. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return tooLarge(err)
		}
		return pkgerror.NewInvalidFormat()
	}
	return nil
}

// extractFilePart finds the multipart field "file". A missing field returns
// a nil part and no error.
func extractFilePart(r *http.Request) (io.ReadCloser, string, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.EqualFold(mediaType, "multipart/form-data") {
		return nil, "", pkgerror.NewInvalidFormat()
	}

	reader, err := r.MultipartReader()
	if err != nil {
		return nil, "", pkgerror.NewInvalidFormat()
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, "", nil
			}
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				return nil, "", err
			}
			return nil, "", pkgerror.NewInvalidFormat()
		}

		if part.FormName() == "file" {
			return part, part.FileName(), nil
		}
		_ = part.Close()
	}
}
