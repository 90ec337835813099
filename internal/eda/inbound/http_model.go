package inbound

import (
	"math"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
	"github.com/shandysiswandi/goeda/internal/eda/usecase"
)

type UploadResponse struct {
	Filename string   `json:"filename"`
	RowCount int      `json:"row_count"`
	Columns  []string `json:"columns"`
	Next     string   `json:"next,omitempty"`
}

type CleanRequest struct {
	// MissingValueStrategy is a pointer so an absent field can default to mean.
	MissingValueStrategy *string `json:"missing_value_strategy"`
	KeepDuplicates       bool    `json:"keep_duplicates"`
}

type CleanResponse struct {
	Message     string `json:"message"`
	DownloadURL string `json:"download_url"`
}

type GraphRequest struct {
	ChartType string `json:"chart_type"`
	XCol      string `json:"x_col"`
	YCol      string `json:"y_col"`
}

type GraphResponse struct {
	Image string `json:"image"`
}

type ColumnsResponse struct {
	NumericCols     []string `json:"numeric_cols"`
	CategoricalCols []string `json:"categorical_cols"`
}

// Describe mirrors one column of a describe() table. Undefined values are null.
type Describe struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	P25    *float64 `json:"25%"`
	P50    *float64 `json:"50%"`
	P75    *float64 `json:"75%"`
	Max    *float64 `json:"max"`
}

// Preview holds leading rows as text. Missing cells are null.
type Preview struct {
	Columns []string    `json:"columns"`
	Rows    [][]*string `json:"rows"`
}

type Correlation struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

type EDAResponse struct {
	Filename          string            `json:"filename"`
	RowCount          int               `json:"row_count"`
	ColumnCount       int               `json:"column_count"`
	Columns           []string          `json:"columns"`
	DTypes            map[string]string `json:"dtypes"`
	MissingValues     map[string]int    `json:"missing_values"`
	Describe          []Describe        `json:"describe"`
	Preview           Preview           `json:"preview"`
	Correlation       *Correlation      `json:"correlation"`
	CorrelationPlot   *string           `json:"correlation_plot"`
	HasNumericColumns bool              `json:"has_numeric_columns"`
}

// number drops NaN and infinities, which JSON cannot carry.
func number(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func toEDAResponse(res usecase.AnalyzeResult) EDAResponse {
	s := res.Summary
	out := EDAResponse{
		Filename:          res.Filename,
		RowCount:          s.RowCount,
		ColumnCount:       s.ColumnCount,
		Columns:           s.Columns,
		DTypes:            s.DTypes,
		MissingValues:     s.Missing,
		Describe:          make([]Describe, 0, len(s.Stats)),
		Preview:           toPreview(s.Preview),
		HasNumericColumns: res.HasNumeric,
	}

	for _, st := range s.Stats {
		out.Describe = append(out.Describe, Describe{
			Column: st.Column,
			Count:  st.Count,
			Mean:   number(st.Mean),
			Std:    number(st.Std),
			Min:    number(st.Min),
			P25:    number(st.P25),
			P50:    number(st.P50),
			P75:    number(st.P75),
			Max:    number(st.Max),
		})
	}

	if m := res.Correlation; m != nil {
		corr := &Correlation{Columns: m.Columns, Values: make([][]*float64, len(m.Values))}
		for i, row := range m.Values {
			corr.Values[i] = make([]*float64, len(row))
			for j, v := range row {
				corr.Values[i][j] = number(v)
			}
		}
		out.Correlation = corr

		plot := res.Heatmap
		out.CorrelationPlot = &plot
	}

	return out
}

func toPreview(t *entity.Table) Preview {
	p := Preview{Columns: []string{}, Rows: [][]*string{}}
	if t == nil {
		return p
	}

	p.Columns = t.ColumnNames()
	for _, row := range t.Rows {
		cells := make([]*string, len(row))
		for i, c := range row {
			if !c.Missing {
				text := c.Text
				cells[i] = &text
			}
		}
		p.Rows = append(p.Rows, cells)
	}
	return p
}
