package profile

import (
	"math"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
)

// Correlate returns pairwise Pearson coefficients between numeric columns.
// Each pair uses only rows where both values are present. ok is false when
// the table has fewer than two numeric columns.
func Correlate(table *entity.Table) (entity.Matrix, bool) {
	idx := table.NumericColumns()
	if len(idx) < 2 {
		return entity.Matrix{}, false
	}

	m := entity.Matrix{
		Columns: make([]string, len(idx)),
		Values:  make([][]float64, len(idx)),
	}
	for i, col := range idx {
		m.Columns[i] = table.Columns[col].Name
		m.Values[i] = make([]float64, len(idx))
	}

	for i := range idx {
		m.Values[i][i] = 1
		for j := i + 1; j < len(idx); j++ {
			r := pearson(table, idx[i], idx[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}

	return m, true
}

func pearson(table *entity.Table, a, b int) float64 {
	var xs, ys []float64
	for _, row := range table.Rows {
		if row[a].Missing || row[b].Missing {
			continue
		}
		xs = append(xs, row[a].Num)
		ys = append(ys, row[b].Num)
	}
	if len(xs) < 2 {
		return math.NaN()
	}

	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var sxx, syy, sxy float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}

	denom := math.Sqrt(sxx * syy)
	if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		return math.NaN()
	}

	r := sxy / denom
	return math.Max(-1, math.Min(1, r))
}
