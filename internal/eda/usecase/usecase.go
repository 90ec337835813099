package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/shandysiswandi/goeda/internal/eda/chart"
	"github.com/shandysiswandi/goeda/internal/eda/clean"
	"github.com/shandysiswandi/goeda/internal/eda/entity"
	"github.com/shandysiswandi/goeda/internal/eda/profile"
	"github.com/shandysiswandi/goeda/internal/eda/tabular"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgerror"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgroutine"
)

// DefaultMaxBytes caps an upload when Dependency leaves MaxBytes unset.
const DefaultMaxBytes int64 = 16 << 20

const (
	CleanedPrefix = "cleaned_"
	DownloadURL   = "/download_cleaned"

	msgNoSession      = "No data available. Please upload a CSV file first."
	msgUploadGone     = "Uploaded file not found. Please upload a CSV file again."
	msgCleanedMissing = "Cleaned data not found. Please clean the data first."
	msgCleanedGone    = "Cleaned file not found. Please clean the data first."
	msgFileMissing    = "File not found."
	msgSelectColumns  = "Please select both X and Y columns"
	msgCleaned        = "Data cleaned successfully!"
)

type Tables interface {
	Save(ctx context.Context, raw []byte, name string) (entity.StoredRef, error)
	SaveDerived(ctx context.Context, table *entity.Table, baseName, prefix string) (entity.StoredRef, error)
	Load(ctx context.Context, key string) (*entity.Table, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

type Sessions interface {
	Get(ctx context.Context, id string) (entity.Session, error)
	Save(ctx context.Context, id string, s entity.Session) error
}

type Runner interface {
	Group() *pkgroutine.Group
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Tables   Tables
	Sessions Sessions
	Runner   Runner
	Clock    Clock
	MaxBytes int64
}

type Usecase struct {
	tables   Tables
	sessions Sessions
	runner   Runner
	clock    Clock
	maxBytes int64
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	runner := dep.Runner
	if runner == nil {
		runner = pkgroutine.NewManager(2)
	}

	maxBytes := dep.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	return &Usecase{
		tables:   dep.Tables,
		sessions: dep.Sessions,
		runner:   runner,
		clock:    clock,
		maxBytes: maxBytes,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Upload stores the file read from r and makes it the session's table.
// Any earlier cleaned derivative is forgotten.
func (u *Usecase) Upload(ctx context.Context, sid, filename string, r io.Reader) (UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".csv" && ext != ".tsv" {
		return UploadResult{}, pkgerror.NewValidation("Only .csv and .tsv files are accepted", nil)
	}

	raw, err := io.ReadAll(io.LimitReader(r, u.maxBytes+1))
	if err != nil {
		return UploadResult{}, mapErr(fmt.Errorf("read upload: %w", err))
	}
	if int64(len(raw)) > u.maxBytes {
		return UploadResult{}, pkgerror.NewBusiness(
			fmt.Sprintf("File too large. The limit is %d MB.", u.maxBytes>>20), pkgerror.CodeTooLarge)
	}

	name := tabular.StoredFilename(filename, ext)
	ref, err := u.tables.Save(ctx, raw, name)
	if errors.Is(err, entity.ErrParse) {
		return UploadResult{}, pkgerror.NewValidation("Error processing CSV: "+err.Error(), err)
	}
	if err != nil {
		return UploadResult{}, mapErr(err)
	}

	sess := entity.Session{
		Filename:   name,
		RowCount:   ref.Rows,
		Columns:    ref.Columns,
		UploadID:   ref.ID,
		UploadedAt: u.clock.Now(),
		Current:    ref.Key,
	}
	if err := u.sessions.Save(ctx, sid, sess); err != nil {
		return UploadResult{}, mapErr(err)
	}

	slog.InfoContext(ctx, "table uploaded", "upload_id", ref.ID, "key", ref.Key, "rows", ref.Rows, "columns", len(ref.Columns))

	return UploadResult{Session: sess}, nil
}

// Session returns the record of sid.
func (u *Usecase) Session(ctx context.Context, sid string) (entity.Session, error) {
	if sid == "" {
		return entity.Session{}, mapErr(entity.ErrMissingSession)
	}

	sess, err := u.sessions.Get(ctx, sid)
	if err != nil {
		return entity.Session{}, mapErr(err)
	}
	return sess, nil
}

// Analyze profiles the session's table. The summary and the correlation
// heatmap are computed concurrently.
func (u *Usecase) Analyze(ctx context.Context, sid string) (AnalyzeResult, error) {
	sess, table, err := u.current(ctx, sid)
	if err != nil {
		return AnalyzeResult{}, err
	}

	var (
		summary entity.ProfileSummary
		matrix  entity.Matrix
		hasCorr bool
		heatmap []byte
	)

	group := u.runner.Group()
	group.Go(ctx, func(context.Context) error {
		summary = profile.Profile(table)
		return nil
	})
	group.Go(ctx, func(context.Context) error {
		matrix, hasCorr = profile.Correlate(table)
		if !hasCorr {
			return nil
		}
		img, err := profile.Heatmap(matrix)
		if err != nil {
			return err
		}
		heatmap = img
		return nil
	})
	if err := group.Wait(); err != nil {
		return AnalyzeResult{}, mapErr(fmt.Errorf("analyze %s: %w", sess.Current, err))
	}

	result := AnalyzeResult{
		Filename:   sess.Filename,
		Summary:    summary,
		HasNumeric: len(table.NumericColumns()) > 0,
	}
	if hasCorr {
		result.Correlation = &matrix
		result.Heatmap = base64.StdEncoding.EncodeToString(heatmap)
	}
	return result, nil
}

// Clean applies the strategy named by token to the session's table, then
// stores the result as the session's cleaned derivative.
func (u *Usecase) Clean(ctx context.Context, sid, token string, keepDuplicates bool) (CleanResult, error) {
	strategy, err := clean.ParseStrategy(token)
	if err != nil {
		return CleanResult{}, mapErr(err)
	}

	sess, table, err := u.current(ctx, sid)
	if err != nil {
		return CleanResult{}, err
	}

	cleaned, err := clean.Clean(table, strategy, clean.Options{KeepDuplicates: keepDuplicates})
	if err != nil {
		return CleanResult{}, mapErr(err)
	}

	ref, err := u.tables.SaveDerived(ctx, cleaned, sess.Current, CleanedPrefix)
	if err != nil {
		return CleanResult{}, mapErr(err)
	}
	ref.Name = CleanedPrefix + sess.Filename

	sess.Cleaned = &ref
	if err := u.sessions.Save(ctx, sid, sess); err != nil {
		return CleanResult{}, mapErr(err)
	}

	slog.InfoContext(ctx, "table cleaned",
		"upload_id", sess.UploadID, "strategy", string(strategy),
		"rows_before", table.NumRows(), "rows_after", cleaned.NumRows())

	return CleanResult{
		Message:     msgCleaned,
		DownloadURL: DownloadURL,
		Strategy:    strategy,
		Rows:        cleaned.NumRows(),
	}, nil
}

// Cleaned opens the session's cleaned derivative for download. The caller
// closes Body.
func (u *Usecase) Cleaned(ctx context.Context, sid string) (Download, error) {
	sess, err := u.Session(ctx, sid)
	if err != nil {
		if pkgerror.CodeOf(err) == pkgerror.CodePrecondition {
			return Download{}, pkgerror.NewNotFound(msgCleanedMissing)
		}
		return Download{}, err
	}
	if sess.Cleaned == nil {
		return Download{}, pkgerror.NewNotFound(msgCleanedMissing)
	}

	body, err := u.tables.Open(ctx, sess.Cleaned.Key)
	if errors.Is(err, entity.ErrNotFound) {
		return Download{}, pkgerror.NewNotFound(msgCleanedGone)
	}
	if err != nil {
		return Download{}, mapErr(err)
	}

	return Download{Filename: sess.Cleaned.Name, ContentType: contentType(sess.Cleaned.Name), Body: body}, nil
}

// Stored opens one of the session's own files by bucket key: the uploaded
// table or its cleaned derivative. Keys of other sessions are not found.
func (u *Usecase) Stored(ctx context.Context, sid, key string) (Download, error) {
	sess, err := u.Session(ctx, sid)
	if err != nil {
		if pkgerror.CodeOf(err) == pkgerror.CodePrecondition {
			return Download{}, pkgerror.NewNotFound(msgFileMissing)
		}
		return Download{}, err
	}

	owned := key != "" && (key == sess.Current || (sess.Cleaned != nil && key == sess.Cleaned.Key))
	if !owned {
		return Download{}, pkgerror.NewNotFound(msgFileMissing)
	}

	body, err := u.tables.Open(ctx, key)
	if errors.Is(err, entity.ErrNotFound) {
		return Download{}, pkgerror.NewNotFound(msgFileMissing)
	}
	if err != nil {
		return Download{}, mapErr(err)
	}

	return Download{Filename: key, ContentType: contentType(key), Body: body}, nil
}

// Columns lists the session table's numeric and text column names.
func (u *Usecase) Columns(ctx context.Context, sid string) (ColumnsResult, error) {
	sess, table, err := u.current(ctx, sid)
	if err != nil {
		return ColumnsResult{}, err
	}

	result := ColumnsResult{Filename: sess.Filename, Numeric: []string{}, Categorical: []string{}}
	for _, col := range table.Columns {
		switch {
		case col.Kind == entity.KindNumeric:
			result.Numeric = append(result.Numeric, col.Name)
		case col.DType == entity.DTypeObject:
			result.Categorical = append(result.Categorical, col.Name)
		}
	}
	return result, nil
}

// Graph renders a chart of the session's table as a base64 PNG.
func (u *Usecase) Graph(ctx context.Context, sid string, in GraphInput) (GraphResult, error) {
	if _, err := u.Session(ctx, sid); err != nil {
		return GraphResult{}, err
	}

	token := in.Kind
	if strings.TrimSpace(token) == "" {
		token = string(entity.ChartBar)
	}
	kind, err := chart.ParseKind(token)
	if err != nil {
		return GraphResult{}, mapErr(err)
	}

	if in.Y == "" || (kind.NeedsX() && in.X == "") {
		return GraphResult{}, pkgerror.NewValidation(msgSelectColumns, nil)
	}

	_, table, err := u.current(ctx, sid)
	if err != nil {
		return GraphResult{}, err
	}

	img, err := chart.Render(table, chart.Request{Kind: kind, X: in.X, Y: in.Y})
	if err != nil {
		return GraphResult{}, mapErr(err)
	}

	return GraphResult{Kind: kind, Image: base64.StdEncoding.EncodeToString(img)}, nil
}

func (u *Usecase) current(ctx context.Context, sid string) (entity.Session, *entity.Table, error) {
	sess, err := u.Session(ctx, sid)
	if err != nil {
		return entity.Session{}, nil, err
	}

	table, err := u.tables.Load(ctx, sess.Current)
	if err != nil {
		return entity.Session{}, nil, mapErr(err)
	}
	return sess, table, nil
}

func contentType(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".tsv") {
		return "text/tab-separated-values; charset=utf-8"
	}
	return "text/csv; charset=utf-8"
}

// mapErr turns domain failures into pkgerror values the router can answer
// with. Unknown errors become server errors.
func mapErr(err error) error {
	var perr *pkgerror.Error
	switch {
	case errors.As(err, &perr):
		return perr
	case errors.Is(err, entity.ErrMissingSession):
		return pkgerror.NewBusiness(msgNoSession, pkgerror.CodePrecondition)
	case errors.Is(err, entity.ErrNotFound):
		return pkgerror.NewNotFound(msgUploadGone)
	case errors.Is(err, entity.ErrParse),
		errors.Is(err, entity.ErrUnknownStrategy),
		errors.Is(err, entity.ErrInvalidColumn),
		errors.Is(err, entity.ErrUnknownChart),
		errors.Is(err, entity.ErrNoData),
		errors.Is(err, entity.ErrChartData):
		return pkgerror.NewValidation(err.Error(), err)
	default:
		return pkgerror.NewServer(err)
	}
}
