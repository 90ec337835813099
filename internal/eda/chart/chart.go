package chart

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Output size in pixels.
const (
	Width  = 1000
	Height = 600
)

// Request names the chart to draw and its columns. X is ignored for
// histograms.
type Request struct {
	Kind entity.ChartKind
	X    string
	Y    string
}

// ParseKind resolves a user supplied chart type.
func ParseKind(token string) (entity.ChartKind, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "histogram" {
		t = string(entity.ChartHistogram)
	}
	k := entity.ChartKind(t)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", entity.ErrUnknownChart, token)
	}
	return k, nil
}

// Title is the caption drawn above the chart. top tells whether a pie was
// reduced to its largest slices.
func Title(req Request, top bool) string {
	switch req.Kind {
	case entity.ChartBar:
		return fmt.Sprintf("Bar Chart: %s by %s", req.Y, req.X)
	case entity.ChartLine:
		return fmt.Sprintf("Line Chart: %s by %s", req.Y, req.X)
	case entity.ChartScatter:
		return fmt.Sprintf("Scatter Plot: %s vs %s", req.Y, req.X)
	case entity.ChartPie:
		if top {
			return fmt.Sprintf("Pie Chart (Top %d): %s by %s", PieLimit, req.Y, req.X)
		}
		return fmt.Sprintf("Pie Chart: %s by %s", req.Y, req.X)
	case entity.ChartHistogram:
		return fmt.Sprintf("Histogram of %s", req.Y)
	default:
		return ""
	}
}

// Render draws req over table as a PNG image.
func Render(table *entity.Table, req Request) ([]byte, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownChart, string(req.Kind))
	}

	yi, err := column(table, req.Y)
	if err != nil {
		return nil, err
	}
	if table.Columns[yi].Kind != entity.KindNumeric {
		return nil, fmt.Errorf("%w: %q is not numeric", entity.ErrInvalidColumn, req.Y)
	}

	xi := -1
	if req.Kind.NeedsX() {
		if xi, err = column(table, req.X); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	switch req.Kind {
	case entity.ChartBar:
		err = renderBar(&buf, table, xi, yi, req)
	case entity.ChartLine, entity.ChartScatter:
		err = renderSeries(&buf, table, xi, yi, req)
	case entity.ChartPie:
		err = renderPie(&buf, table, xi, yi, req)
	case entity.ChartHistogram:
		err = renderHistogram(&buf, table, yi, req)
	}
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func column(table *entity.Table, name string) (int, error) {
	if name == "" {
		return -1, fmt.Errorf("%w: no column selected", entity.ErrInvalidColumn)
	}
	i := table.ColumnIndex(name)
	if i < 0 {
		return -1, fmt.Errorf("%w: %q not found", entity.ErrInvalidColumn, name)
	}
	return i, nil
}

func background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 30, Bottom: 20}}
}

func renderSeries(buf *bytes.Buffer, table *entity.Table, xi, yi int, req Request) error {
	pts := points(table, xi, yi)
	if len(pts.xs) == 0 {
		return fmt.Errorf("%w: %q and %q share no complete rows", entity.ErrNoData, req.X, req.Y)
	}

	style := chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2}
	if req.Kind == entity.ChartScatter {
		style = chart.Style{StrokeWidth: chart.Disabled, DotWidth: 4, DotColor: chart.ColorBlue}
	}

	xMin, xMax := padded(pts.xs)
	yMin, yMax := padded(pts.ys)

	graph := chart.Chart{
		Title:      Title(req, false),
		Width:      Width,
		Height:     Height,
		Background: background(),
		XAxis: chart.XAxis{
			Name:  req.X,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks: categoryTicks(pts.categories, xMin, xMax),
		},
		YAxis: chart.YAxis{
			Name:  req.Y,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: req.Y, XValues: pts.xs, YValues: pts.ys, Style: style},
		},
	}

	if err := graph.Render(chart.PNG, buf); err != nil {
		return fmt.Errorf("render %s chart: %w", req.Kind, err)
	}
	return nil
}

func renderBar(buf *bytes.Buffer, table *entity.Table, xi, yi int, req Request) error {
	pts := points(table, xi, yi)
	if len(pts.ys) == 0 {
		return fmt.Errorf("%w: %q and %q share no complete rows", entity.ErrNoData, req.X, req.Y)
	}

	bars := make([]chart.Value, len(pts.ys))
	every := labelStride(len(bars))
	for i, v := range pts.ys {
		bars[i] = chart.Value{Value: v, Style: chart.Style{FillColor: chart.ColorBlue, StrokeColor: chart.ColorBlue}}
		if i%every == 0 {
			bars[i].Label = pts.labels[i]
		}
	}

	return drawBars(buf, bars, Title(req, false), pts.ys)
}

func renderHistogram(buf *bytes.Buffer, table *entity.Table, yi int, req Request) error {
	values := present(table, yi)
	if len(values) == 0 {
		return fmt.Errorf("%w: %q has no values", entity.ErrNoData, req.Y)
	}

	bins := histogramBins(values, HistogramBins)
	bars := make([]chart.Value, len(bins))
	counts := make([]float64, len(bins))
	for i, b := range bins {
		counts[i] = float64(b.Count)
		bars[i] = chart.Value{
			Value: counts[i],
			Label: fmt.Sprintf("%.3g", (b.Lo+b.Hi)/2),
			Style: chart.Style{FillColor: chart.ColorBlue, StrokeColor: chart.ColorWhite, StrokeWidth: 1},
		}
	}

	return drawBars(buf, bars, Title(req, false), counts)
}

func drawBars(buf *bytes.Buffer, bars []chart.Value, title string, values []float64) error {
	lo, hi := spanWithZero(values)

	// plot area is roughly the canvas minus the y axis labels
	slot := max(2, (Width-140)/len(bars))
	width := max(1, slot*3/4)

	graph := chart.BarChart{
		Title:        title,
		Width:        Width,
		Height:       Height,
		Background:   background(),
		BarWidth:     width,
		BarSpacing:   max(1, slot-width),
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, buf); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

//nolint:gochecknoglobals // slice colors cycled in order
var pieColors = []drawing.Color{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
	{R: 227, G: 119, B: 194, A: 255},
	{R: 127, G: 127, B: 127, A: 255},
	{R: 188, G: 189, B: 34, A: 255},
	{R: 23, G: 190, B: 207, A: 255},
}

func renderPie(buf *bytes.Buffer, table *entity.Table, xi, yi int, req Request) error {
	slices, top, err := pieSlices(table, xi, yi)
	if err != nil {
		return err
	}

	values := make([]chart.Value, 0, len(slices))
	for i, s := range slices {
		if s.Value == 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: s.Value,
			Label: s.Label,
			Style: chart.Style{FillColor: pieColors[i%len(pieColors)], StrokeColor: chart.ColorWhite},
		})
	}

	graph := chart.PieChart{
		Title:      Title(req, top),
		Width:      Width,
		Height:     Height,
		Background: background(),
		Values:     values,
	}

	if err := graph.Render(chart.PNG, buf); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}
