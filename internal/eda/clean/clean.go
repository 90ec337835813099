package clean

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
	"github.com/shandysiswandi/goeda/internal/eda/profile"
	"github.com/shandysiswandi/goeda/internal/eda/tabular"
)

//nolint:gochecknoglobals // accepted spellings of each strategy
var strategyAliases = map[string]entity.Strategy{
	"mean":          entity.StrategyMean,
	"first":         entity.StrategyForwardFill,
	"ffill":         entity.StrategyForwardFill,
	"forward-fill":  entity.StrategyForwardFill,
	"last":          entity.StrategyBackwardFill,
	"bfill":         entity.StrategyBackwardFill,
	"backward-fill": entity.StrategyBackwardFill,
	"delete":        entity.StrategyDrop,
	"drop":          entity.StrategyDrop,
}

// ParseStrategy resolves a user supplied token. Matching ignores case and
// surrounding space.
func ParseStrategy(token string) (entity.Strategy, error) {
	s, ok := strategyAliases[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return "", fmt.Errorf("%w: %q", entity.ErrUnknownStrategy, token)
	}
	return s, nil
}

type Options struct {
	// KeepDuplicates skips removal of repeated rows.
	KeepDuplicates bool
}

// Clean applies strategy to a copy of table and then drops repeated rows,
// keeping the first of each.
func Clean(table *entity.Table, strategy entity.Strategy, opts Options) (*entity.Table, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownStrategy, string(strategy))
	}

	out := table.Clone()

	switch strategy {
	case entity.StrategyMean:
		fillMean(out)
	case entity.StrategyForwardFill:
		fillForward(out)
	case entity.StrategyBackwardFill:
		fillBackward(out)
	case entity.StrategyDrop:
		dropMissing(out)
	}

	if !opts.KeepDuplicates {
		dedup(out)
	}

	return out, nil
}

// fillMean replaces gaps in numeric columns with the column mean. Columns
// of other kinds keep their gaps.
func fillMean(t *entity.Table) {
	for _, col := range t.NumericColumns() {
		stats := profile.Describe(t.Columns[col].Name, values(t, col))
		if stats.Count == 0 {
			continue
		}
		text := tabular.FormatNumber(stats.Mean)
		for _, row := range t.Rows {
			if row[col].Missing {
				row[col] = entity.Cell{Text: text, Num: stats.Mean}
			}
		}
	}
}

func fillForward(t *entity.Table) {
	for col := range t.Columns {
		var last *entity.Cell
		for _, row := range t.Rows {
			if !row[col].Missing {
				last = &row[col]
				continue
			}
			if last != nil {
				row[col] = *last
			}
		}
	}
}

func fillBackward(t *entity.Table) {
	for col := range t.Columns {
		var next *entity.Cell
		for i := len(t.Rows) - 1; i >= 0; i-- {
			row := t.Rows[i]
			if !row[col].Missing {
				next = &row[col]
				continue
			}
			if next != nil {
				row[col] = *next
			}
		}
	}
}

func dropMissing(t *entity.Table) {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		if !hasMissing(row) {
			kept = append(kept, row)
		}
	}
	t.Rows = kept
}

func hasMissing(row []entity.Cell) bool {
	for _, c := range row {
		if c.Missing {
			return true
		}
	}
	return false
}

func dedup(t *entity.Table) {
	seen := make(map[string]struct{}, len(t.Rows))
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		key := rowKey(t.Columns, row)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	t.Rows = kept
}

// rowKey encodes row so that equal rows, and only those, share a key.
// Each part is length prefixed.
func rowKey(cols []entity.Column, row []entity.Cell) string {
	var b strings.Builder
	for i, c := range row {
		var part string
		switch {
		case c.Missing:
			part = "N"
		case cols[i].Kind != entity.KindText:
			v := c.Num
			if v == 0 {
				v = 0 // folds -0
			}
			part = "n:" + strconv.FormatFloat(v, 'g', -1, 64)
		default:
			part = "t:" + c.Text
		}
		b.WriteString(strconv.Itoa(len(part)))
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String()
}

func values(t *entity.Table, col int) []float64 {
	out := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if c := row[col]; !c.Missing && !math.IsNaN(c.Num) {
			out = append(out, c.Num)
		}
	}
	return out
}
