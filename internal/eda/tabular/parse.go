package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
)

const utf8BOM = "\ufeff"

//nolint:gochecknoglobals // lookup table
var missingTokens = map[string]struct{}{
	"":         {},
	"NA":       {},
	"N/A":      {},
	"n/a":      {},
	"NaN":      {},
	"nan":      {},
	"-NaN":     {},
	"-nan":     {},
	"NULL":     {},
	"null":     {},
	"None":     {},
	"#N/A":     {},
	"#NA":      {},
	"<NA>":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"#N/A N/A": {},
}

// IsMissing reports whether a raw field is one of the missing markers.
func IsMissing(text string) bool {
	_, ok := missingTokens[text]
	return ok
}

// Parse reads delimited text whose first record is the header. Column types
// are inferred from the non-missing values.
func Parse(r io.Reader, delimiter rune) (*entity.Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no columns to parse from file", entity.ErrParse)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrParse, err)
	}

	names := headerNames(header)
	width := len(names)
	table := &entity.Table{Columns: make([]entity.Column, width)}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrParse, err)
		}

		if len(record) > width {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: expected %d fields in line %d, saw %d", entity.ErrParse, width, line, len(record))
		}

		row := make([]entity.Cell, width)
		for i := range row {
			if i >= len(record) {
				row[i] = entity.Cell{Missing: true}
				continue
			}
			row[i] = entity.Cell{Text: record[i], Missing: IsMissing(record[i])}
		}
		table.Rows = append(table.Rows, row)
	}

	for i, name := range names {
		table.Columns[i] = inferColumn(name, table.Rows, i)
	}

	return table, nil
}

func headerNames(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	names := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, raw := range header {
		name := raw
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if _, dup := seen[name]; dup {
			base := name
			for n := 1; ; n++ {
				name = base + "." + strconv.Itoa(n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
		}
		seen[name] = struct{}{}
		names[i] = name
	}
	return names
}

// inferColumn decides the column type and fills Num on its cells.
func inferColumn(name string, rows [][]entity.Cell, col int) entity.Column {
	if len(rows) == 0 {
		return entity.Column{Name: name, Kind: entity.KindText, DType: entity.DTypeObject}
	}

	allInt, allNum, allBool := true, true, true
	hasMissing := false
	present := 0

	for _, row := range rows {
		cell := row[col]
		if cell.Missing {
			hasMissing = true
			continue
		}
		present++
		text := strings.TrimSpace(cell.Text)
		if allInt {
			if _, err := strconv.ParseInt(text, 10, 64); err != nil {
				allInt = false
			}
		}
		if allNum {
			if _, ok := parseNumber(text); !ok {
				allNum = false
			}
		}
		if allBool {
			if _, ok := parseBool(text); !ok {
				allBool = false
			}
		}
		if !allInt && !allNum && !allBool {
			break
		}
	}

	switch {
	case present == 0:
		return numericColumn(name, entity.DTypeFloat64, rows, col)
	case allInt && !hasMissing:
		return numericColumn(name, entity.DTypeInt64, rows, col)
	case allNum:
		return numericColumn(name, entity.DTypeFloat64, rows, col)
	case allBool && !hasMissing:
		for _, row := range rows {
			if v, _ := parseBool(strings.TrimSpace(row[col].Text)); v {
				row[col].Num = 1
			}
		}
		return entity.Column{Name: name, Kind: entity.KindBool, DType: entity.DTypeBool}
	default:
		return entity.Column{Name: name, Kind: entity.KindText, DType: entity.DTypeObject}
	}
}

func numericColumn(name, dtype string, rows [][]entity.Cell, col int) entity.Column {
	for _, row := range rows {
		if row[col].Missing {
			continue
		}
		row[col].Num, _ = parseNumber(strings.TrimSpace(row[col].Text))
	}
	return entity.Column{Name: name, Kind: entity.KindNumeric, DType: dtype}
}

// parseNumber accepts decimal notation plus inf/infinity. Hex floats and
// digit separators are rejected even though strconv understands them.
func parseNumber(text string) (float64, bool) {
	if text == "" || strings.ContainsAny(text, "xX_pP") {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func parseBool(text string) (bool, bool) {
	switch text {
	case "True", "TRUE", "true":
		return true, true
	case "False", "FALSE", "false":
		return false, true
	default:
		return false, false
	}
}
