package entity

// Strategy is a missing-value handling rule.
type Strategy string

const (
	StrategyMean         Strategy = "mean"
	StrategyForwardFill  Strategy = "first"
	StrategyBackwardFill Strategy = "last"
	StrategyDrop         Strategy = "delete"
)

func (s Strategy) Valid() bool {
	switch s {
	case StrategyMean, StrategyForwardFill, StrategyBackwardFill, StrategyDrop:
		return true
	default:
		return false
	}
}

// ChartKind is one of the supported chart renderings.
type ChartKind string

const (
	ChartBar       ChartKind = "bar"
	ChartLine      ChartKind = "line"
	ChartScatter   ChartKind = "scatter"
	ChartPie       ChartKind = "pie"
	ChartHistogram ChartKind = "hist"
)

func (k ChartKind) Valid() bool {
	switch k {
	case ChartBar, ChartLine, ChartScatter, ChartPie, ChartHistogram:
		return true
	default:
		return false
	}
}

// NeedsX reports whether the chart plots an x column.
func (k ChartKind) NeedsX() bool {
	return k != ChartHistogram
}
