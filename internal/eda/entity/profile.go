package entity

// ColumnStats holds descriptive statistics of one numeric column.
// Undefined values are NaN.
type ColumnStats struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	P25    float64
	P50    float64
	P75    float64
	Max    float64
}

type ProfileSummary struct {
	RowCount    int
	ColumnCount int
	Columns     []string
	// DTypes and Missing are keyed by column name, see Columns for order.
	DTypes  map[string]string
	Missing map[string]int
	Stats   []ColumnStats
	Preview *Table
}

// Matrix is a symmetric correlation grid over Columns. Undefined pairs are NaN.
type Matrix struct {
	Columns []string
	Values  [][]float64
}
