package entity

// Kind is the broad type of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBool:
		return "bool"
	default:
		return "text"
	}
}

// Data type labels reported to users.
const (
	DTypeInt64   = "int64"
	DTypeFloat64 = "float64"
	DTypeBool    = "bool"
	DTypeObject  = "object"
)

type Column struct {
	Name  string
	Kind  Kind
	DType string
}

// Cell keeps the raw text of a field. Num is meaningful only for
// non-missing cells of numeric and bool columns.
type Cell struct {
	Text    string
	Num     float64
	Missing bool
}

// Table is an ordered set of named columns over rows of cells. Every row
// holds exactly len(Columns) cells.
type Table struct {
	Columns []Column
	Rows    [][]Cell
}

func (t *Table) NumRows() int {
	return len(t.Rows)
}

func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// ColumnIndex returns the position of name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// NumericColumns returns the positions of columns with KindNumeric.
func (t *Table) NumericColumns() []int {
	var idx []int
	for i, c := range t.Columns {
		if c.Kind == KindNumeric {
			idx = append(idx, i)
		}
	}
	return idx
}

// Clone returns a deep copy. Cells are values, so copying each row is enough.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]Column(nil), t.Columns...),
		Rows:    make([][]Cell, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]Cell(nil), row...)
	}
	return out
}
