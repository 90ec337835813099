package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
)

// Write serializes table with a header record. Missing cells become empty
// fields.
func Write(w io.Writer, table *entity.Table, delimiter rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter

	if err := cw.Write(table.ColumnNames()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, table.NumColumns())
	for _, row := range table.Rows {
		for i, cell := range row {
			if cell.Missing {
				record[i] = ""
				continue
			}
			record[i] = cell.Text
		}
		if len(record) == 1 && record[0] == "" {
			// a bare empty line would be skipped when read back
			cw.Flush()
			if _, err := io.WriteString(w, "\"\"\n"); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
			continue
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// DelimiterFor picks the field separator from a file name.
func DelimiterFor(name string) rune {
	if strings.EqualFold(filepath.Ext(name), ".tsv") {
		return '\t'
	}
	return ','
}

// FormatNumber renders v with the fewest digits that parse back to v.
func FormatNumber(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
