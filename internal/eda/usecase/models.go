package usecase

import (
	"io"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
)

type UploadResult struct {
	Session entity.Session
}

type AnalyzeResult struct {
	Filename string
	Summary  entity.ProfileSummary
	// Correlation is nil when the table has fewer than two numeric columns.
	Correlation *entity.Matrix
	// Heatmap is a base64 PNG, set together with Correlation.
	Heatmap    string
	HasNumeric bool
}

type CleanResult struct {
	Message     string
	DownloadURL string
	Strategy    entity.Strategy
	Rows        int
}

type Download struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

type ColumnsResult struct {
	Filename    string
	Numeric     []string
	Categorical []string
}

type GraphInput struct {
	Kind string
	X    string
	Y    string
}

type GraphResult struct {
	Kind  entity.ChartKind
	Image string
}
