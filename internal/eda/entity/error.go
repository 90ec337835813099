package entity

import "errors"

var (
	ErrParse           = errors.New("malformed table")
	ErrNotFound        = errors.New("stored table not found")
	ErrUnknownStrategy = errors.New("unknown missing value strategy")
	ErrInvalidColumn   = errors.New("invalid column")
	ErrUnknownChart    = errors.New("unknown chart type")
	ErrNoData          = errors.New("no data to plot")
	ErrChartData       = errors.New("data cannot be drawn as this chart")
	ErrMissingSession  = errors.New("no uploaded file in session")
)
