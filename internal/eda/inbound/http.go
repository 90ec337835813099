package inbound

import (
	"context"
	"io"
	"net/http"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
	"github.com/shandysiswandi/goeda/internal/eda/session"
	"github.com/shandysiswandi/goeda/internal/eda/usecase"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/goeda/internal/pkg/pkguid"
)

type uc interface {
	Upload(ctx context.Context, sid, filename string, r io.Reader) (usecase.UploadResult, error)
	Session(ctx context.Context, sid string) (entity.Session, error)
	Analyze(ctx context.Context, sid string) (usecase.AnalyzeResult, error)
	Clean(ctx context.Context, sid, token string, keepDuplicates bool) (usecase.CleanResult, error)
	Cleaned(ctx context.Context, sid string) (usecase.Download, error)
	Stored(ctx context.Context, sid, key string) (usecase.Download, error)
	Columns(ctx context.Context, sid string) (usecase.ColumnsResult, error)
	Graph(ctx context.Context, sid string, in usecase.GraphInput) (usecase.GraphResult, error)
}

// jsonBodyLimit caps the small JSON bodies of /clean and /generate_graph.
const jsonBodyLimit = 1 << 20

// multipartOverhead is allowed on top of the file size for form framing.
const multipartOverhead = 64 << 10

type Config struct {
	Session   session.Config
	RateLimit pkgrouter.RateLimitConfig
	// MaxUploadBytes caps the uploaded file. Zero uses the use case default.
	MaxUploadBytes int64
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, cfg Config, ids pkguid.StringValidator) {
	end := &HTTPEndpoint{uc: uc}

	sess := session.Middleware(cfg.Session, ids)
	limit := pkgrouter.RateLimit(cfg.RateLimit)

	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = usecase.DefaultMaxBytes
	}

	r.Page(http.MethodGet, "/", end.Index, sess)
	r.Page(http.MethodPost, "/upload", end.Upload, limit, pkgrouter.MaxBytes(maxUpload+multipartOverhead), sess)
	r.Page(http.MethodGet, "/upload_success", end.UploadSuccess, sess)
	r.Page(http.MethodGet, "/eda", end.EDA, sess)
	r.Page(http.MethodGet, "/graph", end.Graph, sess)

	r.POST("/clean", end.Clean, limit, pkgrouter.MaxBytes(jsonBodyLimit), sess)
	r.POST("/clean_data", end.Clean, limit, pkgrouter.MaxBytes(jsonBodyLimit), sess)
	r.GET("/download_cleaned", end.DownloadCleaned, sess)
	r.GET("/uploads/:filename", end.StoredFile, sess)
	r.POST("/generate_graph", end.GenerateGraph, limit, pkgrouter.MaxBytes(jsonBodyLimit), sess)
}
