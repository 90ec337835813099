package profile

import (
	"math"
	"sort"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
)

// PreviewRows is how many leading rows Profile copies into the preview.
const PreviewRows = 10

// Profile summarizes table: shape, types, missing counts, descriptive
// statistics of numeric columns and a preview. The table is not modified.
func Profile(table *entity.Table) entity.ProfileSummary {
	summary := entity.ProfileSummary{
		RowCount:    table.NumRows(),
		ColumnCount: table.NumColumns(),
		Columns:     table.ColumnNames(),
		DTypes:      make(map[string]string, table.NumColumns()),
		Missing:     make(map[string]int, table.NumColumns()),
		Stats:       []entity.ColumnStats{},
	}

	for i, col := range table.Columns {
		summary.DTypes[col.Name] = col.DType
		missing := 0
		for _, row := range table.Rows {
			if row[i].Missing {
				missing++
			}
		}
		summary.Missing[col.Name] = missing
	}

	for _, i := range table.NumericColumns() {
		summary.Stats = append(summary.Stats, Describe(table.Columns[i].Name, columnValues(table, i)))
	}

	n := min(PreviewRows, table.NumRows())
	summary.Preview = &entity.Table{Columns: append([]entity.Column(nil), table.Columns...)}
	for _, row := range table.Rows[:n] {
		summary.Preview.Rows = append(summary.Preview.Rows, append([]entity.Cell(nil), row...))
	}

	return summary
}

// Describe computes count, mean, sample standard deviation, min, quartiles
// and max of values.
func Describe(name string, values []float64) entity.ColumnStats {
	nan := math.NaN()
	stats := entity.ColumnStats{
		Column: name, Count: len(values),
		Mean: nan, Std: nan, Min: nan, P25: nan, P50: nan, P75: nan, Max: nan,
	}
	if len(values) == 0 {
		return stats
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	n := float64(len(sorted))
	mean := sum / n

	stats.Mean = mean
	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]

	if len(sorted) < 2 {
		return stats
	}

	var ss float64
	for _, v := range sorted {
		d := v - mean
		ss += d * d
	}
	stats.Std = math.Sqrt(ss / (n - 1))
	stats.P25 = Quantile(sorted, 0.25)
	stats.P50 = Quantile(sorted, 0.50)
	stats.P75 = Quantile(sorted, 0.75)

	return stats
}

// Quantile interpolates linearly between the two closest ranks of sorted.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// columnValues returns the non-missing values of column i in row order.
func columnValues(table *entity.Table, i int) []float64 {
	values := make([]float64, 0, table.NumRows())
	for _, row := range table.Rows {
		if !row[i].Missing {
			values = append(values, row[i].Num)
		}
	}
	return values
}
