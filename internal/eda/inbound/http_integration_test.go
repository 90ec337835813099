package inbound

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/goeda/internal/eda/session"
	"github.com/shandysiswandi/goeda/internal/eda/tabular"
	"github.com/shandysiswandi/goeda/internal/eda/usecase"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgblob"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgkv"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/goeda/internal/pkg/pkguid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peopleCSV = "name,age,score,city\n" +
	"ann,31,88.5,Paris\n" +
	"bob,,72,Berlin\n" +
	"cy,45,,Paris\n" +
	"ann,31,88.5,Paris\n" +
	"dee,28,91,Rome\n"

type client struct {
	t      *testing.T
	router http.Handler
	cookie *http.Cookie
	dir    string
}

func newClient(t *testing.T, cfg Config) *client {
	t.Helper()

	dir := t.TempDir()
	bucket, err := pkgblob.NewLocal(dir)
	require.NoError(t, err)

	snowflake, err := pkguid.NewSnowflake()
	require.NoError(t, err)

	uc := usecase.New(usecase.Dependency{
		Tables:   tabular.NewStore(bucket, nil, snowflake),
		Sessions: session.NewRepository(pkgkv.NewMemory(nil), time.Hour),
		Runner:   pkgroutine.NewManager(4),
		MaxBytes: cfg.MaxUploadBytes,
	})

	ids := pkguid.NewUUID()
	router := pkgrouter.NewRouter(ids)
	RegisterHTTPEndpoint(router, uc, cfg, ids)

	return &client{t: t, router: router, dir: dir}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.DefaultCookie {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) get(target, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return c.do(req)
}

func (c *client) postJSON(target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *client) upload(filename, content string) *httptest.ResponseRecorder {
	c.t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(c.t, err)
	_, err = part.Write([]byte(content))
	require.NoError(c.t, err)
	require.NoError(c.t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestUploadAnalyzeCleanDownloadGraph(t *testing.T) {
	c := newClient(t, Config{})

	rec := c.get("/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `action="/upload"`)
	require.NotNil(t, c.cookie)

	rec = c.upload("people.csv", peopleCSV)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/upload_success", rec.Header().Get("Location"))

	rec = c.get("/upload_success", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "people.csv")

	rec = c.get("/eda", "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	eda := decode[EDAResponse](t, rec)
	assert.Equal(t, "people.csv", eda.Filename)
	assert.Equal(t, 5, eda.RowCount)
	assert.Equal(t, 4, eda.ColumnCount)
	assert.Equal(t, map[string]int{"name": 0, "age": 1, "score": 1, "city": 0}, eda.MissingValues)
	assert.Equal(t, "float64", eda.DTypes["age"])
	assert.True(t, eda.HasNumericColumns)
	require.Len(t, eda.Describe, 2)
	require.NotNil(t, eda.Correlation)
	require.NotNil(t, eda.CorrelationPlot)
	require.Len(t, eda.Preview.Rows, 5)
	assert.Nil(t, eda.Preview.Rows[1][1], "missing cells are null")

	rec = c.get("/eda", "text/html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "data:image/png;base64,")

	rec = c.postJSON("/clean", `{"missing_value_strategy":"delete"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cleaned := decode[CleanResponse](t, rec)
	assert.Equal(t, "Data cleaned successfully!", cleaned.Message)
	assert.Equal(t, "/download_cleaned", cleaned.DownloadURL)

	rec = c.get("/download_cleaned", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename=cleaned_people.csv`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "name,age,score,city\nann,31,88.5,Paris\ndee,28,91,Rome\n", rec.Body.String())

	rec = c.get("/graph", "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	cols := decode[ColumnsResponse](t, rec)
	assert.Equal(t, []string{"age", "score"}, cols.NumericCols)
	assert.Equal(t, []string{"name", "city"}, cols.CategoricalCols)

	rec = c.postJSON("/generate_graph", `{"chart_type":"pie","x_col":"city","y_col":"score"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	graph := decode[GraphResponse](t, rec)
	raw, err := base64.StdEncoding.DecodeString(graph.Image)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
}

func TestStoredFilesAreSessionScoped(t *testing.T) {
	c := newClient(t, Config{})
	require.Equal(t, http.StatusSeeOther, c.upload("people.csv", peopleCSV).Code)

	entries, err := os.ReadDir(c.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	key := entries[0].Name()
	assert.True(t, strings.HasSuffix(key, "_people.csv"))

	rec := c.get("/uploads/"+key, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "inline; filename="+key, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "name,age,score,city\n"))

	rec = c.get("/uploads/cleaned_"+key, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "File not found.", decode[map[string]string](t, rec)["error"])

	other := &client{t: t, router: c.router}
	assert.Equal(t, http.StatusNotFound, other.get("/uploads/"+key, "").Code)
}

func TestCleanDefaultsToMean(t *testing.T) {
	c := newClient(t, Config{})
	c.upload("people.csv", peopleCSV)

	rec := c.postJSON("/clean_data", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.get("/download_cleaned", "")
	require.Equal(t, http.StatusOK, rec.Code)
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 5, "header plus four distinct rows")
	assert.Equal(t, "bob,33.75,72,Berlin", lines[2])
}

func TestWithoutUpload(t *testing.T) {
	c := newClient(t, Config{})

	rec := c.get("/eda", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = c.get("/eda", "application/json")
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Equal(t, "No data available. Please upload a CSV file first.", decode[map[string]string](t, rec)["error"])

	rec = c.get("/graph", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = c.get("/download_cleaned", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Cleaned data not found. Please clean the data first.", decode[map[string]string](t, rec)["error"])

	rec = c.postJSON("/generate_graph", `{"x_col":"a","y_col":"b"}`)
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestUploadErrorsArePlainText(t *testing.T) {
	c := newClient(t, Config{})

	rec := c.upload("bad.csv", "a,b\n1,2,3\n")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Error processing CSV: "))

	rec = c.upload("notes.txt", "a\n1\n")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUploadWithoutFileRedirectsHome(t *testing.T) {
	c := newClient(t, Config{})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("other", "x"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := c.do(req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestUploadTooLarge(t *testing.T) {
	c := newClient(t, Config{MaxUploadBytes: 16})

	rec := c.upload("big.csv", "a\n"+strings.Repeat("1\n", 100))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestGenerateGraphErrors(t *testing.T) {
	c := newClient(t, Config{})
	c.upload("people.csv", peopleCSV)

	rec := c.postJSON("/generate_graph", `{"chart_type":"bar","x_col":"city"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Please select both X and Y columns", decode[map[string]string](t, rec)["error"])

	rec = c.postJSON("/generate_graph", `{"chart_type":"bar","x_col":"city","y_col":"nope"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = c.postJSON("/generate_graph", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionsAreIsolated(t *testing.T) {
	c := newClient(t, Config{})
	c.upload("people.csv", peopleCSV)

	other := &client{t: t, router: c.router}
	rec := other.get("/eda", "application/json")
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestRateLimitedUpload(t *testing.T) {
	c := newClient(t, Config{RateLimit: pkgrouter.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}})

	rec := c.upload("people.csv", peopleCSV)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = c.upload("people.csv", peopleCSV)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	_, _ = io.Copy(io.Discard, rec.Body)
}
