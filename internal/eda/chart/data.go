package chart

import (
	"fmt"
	"math"
	"sort"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
	"github.com/shandysiswandi/goeda/internal/eda/tabular"
	"github.com/wcharczuk/go-chart/v2"
)

const (
	// HistogramBins is the number of equal width bins of a histogram.
	HistogramBins = 20
	// PieLimit caps the slices of a pie. Larger groupings keep the biggest.
	PieLimit = 10

	maxTicks = 30
)

// series holds the plottable rows of an x/y pair. A text x column is mapped
// onto positions 0..n-1 in order of first appearance.
type series struct {
	xs, ys     []float64
	labels     []string
	categories []string
}

func points(table *entity.Table, xi, yi int) series {
	var s series
	numericX := table.Columns[xi].Kind == entity.KindNumeric
	position := map[string]int{}

	for _, row := range table.Rows {
		x, y := row[xi], row[yi]
		if x.Missing || !plottable(y) || (numericX && !plottable(x)) {
			continue
		}

		label := x.Text
		var xv float64
		if numericX {
			xv = x.Num
			label = tabular.FormatNumber(x.Num)
		} else {
			p, ok := position[x.Text]
			if !ok {
				p = len(s.categories)
				position[x.Text] = p
				s.categories = append(s.categories, x.Text)
			}
			xv = float64(p)
		}

		s.xs = append(s.xs, xv)
		s.ys = append(s.ys, y.Num)
		s.labels = append(s.labels, label)
	}

	return s
}

// categoryTicks labels category positions, thinned to at most maxTicks.
// Numeric axes return nil and keep the library's ticks. The axis range is
// taken from the ticks, so a single category is framed by unlabelled ticks
// at lo and hi.
func categoryTicks(categories []string, lo, hi float64) []chart.Tick {
	switch len(categories) {
	case 0:
		return nil
	case 1:
		return []chart.Tick{{Value: lo}, {Value: 0, Label: categories[0]}, {Value: hi}}
	}
	every := labelStride(len(categories))
	ticks := make([]chart.Tick, 0, len(categories)/every+1)
	for i := 0; i < len(categories); i += every {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: categories[i]})
	}
	return ticks
}

func labelStride(n int) int {
	return max(1, (n+maxTicks-1)/maxTicks)
}

// padded returns a non-empty range around values with a 5% margin.
func padded(values []float64) (float64, float64) {
	lo, hi := bounds(values)
	if lo == hi {
		return lo - 0.5, hi + 0.5
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

// spanWithZero is padded, widened to include zero for bars.
func spanWithZero(values []float64) (float64, float64) {
	lo, hi := bounds(values)
	lo, hi = math.Min(lo, 0), math.Max(hi, 0)
	if lo == hi {
		return 0, 1
	}
	pad := (hi - lo) * 0.05
	if lo < 0 {
		lo -= pad
	}
	if hi > 0 {
		hi += pad
	}
	return lo, hi
}

func bounds(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func present(table *entity.Table, col int) []float64 {
	out := make([]float64, 0, table.NumRows())
	for _, row := range table.Rows {
		if plottable(row[col]) {
			out = append(out, row[col].Num)
		}
	}
	return out
}

// plottable reports whether c holds a finite value.
func plottable(c entity.Cell) bool {
	return !c.Missing && !math.IsInf(c.Num, 0) && !math.IsNaN(c.Num)
}

type bin struct {
	Lo, Hi float64
	Count  int
}

// histogramBins splits [min, max] into n equal bins. The last bin is closed
// on both ends.
func histogramBins(values []float64, n int) []bin {
	lo, hi := bounds(values)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(n)

	bins := make([]bin, n)
	for i := range bins {
		bins[i].Lo = lo + float64(i)*width
		bins[i].Hi = lo + float64(i+1)*width
	}
	bins[n-1].Hi = hi

	for _, v := range values {
		i := int((v - lo) / width)
		i = max(0, min(n-1, i))
		bins[i].Count++
	}
	return bins
}

type slice struct {
	Key   string
	Label string
	Value float64
}

type group struct {
	key     string
	num     float64
	numeric bool
	sum     float64
}

// pieSlices sums y per distinct x. Up to PieLimit groups are ordered by key.
// Beyond that only the PieLimit largest sums are kept, largest first, and
// top is true. Labels carry the share of the kept total.
func pieSlices(table *entity.Table, xi, yi int) (slices []slice, top bool, err error) {
	numericX := table.Columns[xi].Kind == entity.KindNumeric
	index := map[string]int{}
	var groups []group

	for _, row := range table.Rows {
		x, y := row[xi], row[yi]
		if x.Missing || !plottable(y) {
			continue
		}
		key := x.Text
		if numericX {
			key = tabular.FormatNumber(x.Num)
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{key: key, num: x.Num, numeric: numericX})
		}
		groups[i].sum += y.Num
	}

	if len(groups) == 0 {
		return nil, false, fmt.Errorf("%w: no complete rows", entity.ErrNoData)
	}

	if len(groups) > PieLimit {
		sort.SliceStable(groups, func(a, b int) bool { return groups[a].sum > groups[b].sum })
		groups = groups[:PieLimit]
		top = true
	} else {
		sort.SliceStable(groups, func(a, b int) bool {
			if groups[a].numeric {
				return groups[a].num < groups[b].num
			}
			return groups[a].key < groups[b].key
		})
	}

	var total float64
	for _, g := range groups {
		if g.sum < 0 {
			return nil, false, fmt.Errorf("%w: pie values must be non-negative, %q sums to %s",
				entity.ErrChartData, g.key, tabular.FormatNumber(g.sum))
		}
		total += g.sum
	}
	if total == 0 {
		return nil, false, fmt.Errorf("%w: pie values sum to zero", entity.ErrChartData)
	}

	slices = make([]slice, len(groups))
	for i, g := range groups {
		slices[i] = slice{
			Key:   g.key,
			Label: fmt.Sprintf("%s (%.1f%%)", g.key, g.sum/total*100),
			Value: g.sum,
		}
	}
	return slices, top, nil
}
