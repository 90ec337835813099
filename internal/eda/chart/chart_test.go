package chart

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"
	"testing"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
	"github.com/shandysiswandi/goeda/internal/eda/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"
)

func parse(t *testing.T, src string) *entity.Table {
	t.Helper()
	tbl, err := tabular.Parse(strings.NewReader(src), ',')
	require.NoError(t, err)
	return tbl
}

const sales = "region,month,units,price\n" +
	"north,1,10,2.5\n" +
	"south,2,20,3.5\n" +
	"north,3,,4\n" +
	"east,4,5,1.5\n" +
	"south,5,15,2\n"

func TestParseKind(t *testing.T) {
	for token, want := range map[string]entity.ChartKind{
		"bar":       entity.ChartBar,
		"LINE":      entity.ChartLine,
		"scatter":   entity.ChartScatter,
		"pie":       entity.ChartPie,
		"hist":      entity.ChartHistogram,
		"histogram": entity.ChartHistogram,
	} {
		got, err := ParseKind(token)
		require.NoError(t, err, token)
		assert.Equal(t, want, got)
	}

	_, err := ParseKind("radar")
	assert.ErrorIs(t, err, entity.ErrUnknownChart)
}

func TestTitle(t *testing.T) {
	req := func(k entity.ChartKind) Request { return Request{Kind: k, X: "region", Y: "units"} }

	assert.Equal(t, "Bar Chart: units by region", Title(req(entity.ChartBar), false))
	assert.Equal(t, "Line Chart: units by region", Title(req(entity.ChartLine), false))
	assert.Equal(t, "Scatter Plot: units vs region", Title(req(entity.ChartScatter), false))
	assert.Equal(t, "Pie Chart: units by region", Title(req(entity.ChartPie), false))
	assert.Equal(t, "Pie Chart (Top 10): units by region", Title(req(entity.ChartPie), true))
	assert.Equal(t, "Histogram of units", Title(req(entity.ChartHistogram), false))
}

func TestRenderAllKinds(t *testing.T) {
	tbl := parse(t, sales)

	tests := []Request{
		{Kind: entity.ChartBar, X: "region", Y: "units"},
		{Kind: entity.ChartLine, X: "month", Y: "price"},
		{Kind: entity.ChartScatter, X: "region", Y: "price"},
		{Kind: entity.ChartPie, X: "region", Y: "units"},
		{Kind: entity.ChartHistogram, Y: "price"},
	}
	for _, req := range tests {
		t.Run(string(req.Kind), func(t *testing.T) {
			raw, err := Render(tbl, req)
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(raw))
			require.NoError(t, err)
			assert.Equal(t, Width, img.Bounds().Dx())
			assert.Equal(t, Height, img.Bounds().Dy())
		})
	}
}

func TestRenderSinglePoint(t *testing.T) {
	tbl := parse(t, "x,y\n1,1\n")

	for _, k := range []entity.ChartKind{entity.ChartBar, entity.ChartLine, entity.ChartScatter, entity.ChartHistogram} {
		_, err := Render(tbl, Request{Kind: k, X: "x", Y: "y"})
		assert.NoError(t, err, k)
	}
}

func TestRenderSingleCategory(t *testing.T) {
	tbl := parse(t, "region,sales\nnorth,1\nnorth,2\nnorth,3\n")

	for _, k := range []entity.ChartKind{entity.ChartBar, entity.ChartLine, entity.ChartScatter} {
		img, err := Render(tbl, Request{Kind: k, X: "region", Y: "sales"})
		require.NoError(t, err, k)

		decoded, err := png.Decode(bytes.NewReader(img))
		require.NoError(t, err, k)
		assert.Equal(t, Width, decoded.Bounds().Dx(), k)
	}
}

func TestCategoryTicksFramesSingleCategory(t *testing.T) {
	ticks := categoryTicks([]string{"north"}, -0.5, 0.5)

	require.Len(t, ticks, 3)
	assert.Equal(t, chart.Tick{Value: -0.5}, ticks[0])
	assert.Equal(t, chart.Tick{Value: 0, Label: "north"}, ticks[1])
	assert.Equal(t, chart.Tick{Value: 0.5}, ticks[2])

	assert.Nil(t, categoryTicks(nil, 0, 1))
}

func TestRenderValidation(t *testing.T) {
	tbl := parse(t, sales)

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"unknown kind", Request{Kind: "radar", X: "region", Y: "units"}, entity.ErrUnknownChart},
		{"missing y", Request{Kind: entity.ChartBar, X: "region", Y: "nope"}, entity.ErrInvalidColumn},
		{"missing x", Request{Kind: entity.ChartLine, X: "nope", Y: "units"}, entity.ErrInvalidColumn},
		{"empty x", Request{Kind: entity.ChartPie, Y: "units"}, entity.ErrInvalidColumn},
		{"text y", Request{Kind: entity.ChartBar, X: "month", Y: "region"}, entity.ErrInvalidColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tbl, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRenderHistogramIgnoresX(t *testing.T) {
	_, err := Render(parse(t, sales), Request{Kind: entity.ChartHistogram, X: "nope", Y: "units"})
	assert.NoError(t, err)
}

func TestRenderNoData(t *testing.T) {
	tbl := parse(t, "x,y\n1,\n,2\n")

	_, err := Render(tbl, Request{Kind: entity.ChartScatter, X: "x", Y: "y"})
	assert.ErrorIs(t, err, entity.ErrNoData)
}

func TestRenderPieRejectsNegativeSums(t *testing.T) {
	tbl := parse(t, "k,v\na,5\nb,-3\n")

	_, err := Render(tbl, Request{Kind: entity.ChartPie, X: "k", Y: "v"})
	assert.ErrorIs(t, err, entity.ErrChartData)

	_, err = Render(parse(t, "k,v\na,0\nb,0\n"), Request{Kind: entity.ChartPie, X: "k", Y: "v"})
	assert.ErrorIs(t, err, entity.ErrChartData)
}

func TestPieSlicesOrderedByKey(t *testing.T) {
	tbl := parse(t, sales)

	slices, top, err := pieSlices(tbl, 0, 2)
	require.NoError(t, err)
	assert.False(t, top)

	require.Len(t, slices, 3)
	assert.Equal(t, []string{"east", "north", "south"}, []string{slices[0].Key, slices[1].Key, slices[2].Key})
	assert.InDelta(t, 35, slices[2].Value, 1e-12)
	assert.Equal(t, "east (10.0%)", slices[0].Label)
	assert.Equal(t, "south (70.0%)", slices[2].Label)
}

func TestPieSlicesNumericKeysSortByValue(t *testing.T) {
	tbl := parse(t, "k,v\n10,1\n9,1\n100,1\n")

	slices, _, err := pieSlices(tbl, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "10", "100"}, []string{slices[0].Key, slices[1].Key, slices[2].Key})
}

func TestPieSlicesKeepsTopTen(t *testing.T) {
	var b strings.Builder
	b.WriteString("k,v\n")
	for i := 1; i <= 12; i++ {
		fmt.Fprintf(&b, "g%02d,%d\n", i, i)
	}

	slices, top, err := pieSlices(parse(t, b.String()), 0, 1)
	require.NoError(t, err)
	assert.True(t, top)
	require.Len(t, slices, PieLimit)
	assert.Equal(t, "g12", slices[0].Key)
	assert.Equal(t, "g03", slices[PieLimit-1].Key)
}

func TestHistogramBins(t *testing.T) {
	bins := histogramBins([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 10)

	require.Len(t, bins, 10)
	assert.InDelta(t, 0, bins[0].Lo, 1e-12)
	assert.InDelta(t, 10, bins[9].Hi, 1e-12)
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 2, bins[9].Count, "max falls in the last bin")

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 11, total)
}

func TestHistogramBinsConstant(t *testing.T) {
	bins := histogramBins([]float64{3, 3, 3}, HistogramBins)

	assert.InDelta(t, 2.5, bins[0].Lo, 1e-12)
	assert.InDelta(t, 3.5, bins[HistogramBins-1].Hi, 1e-12)

	filled := 0
	for _, b := range bins {
		if b.Count > 0 {
			filled++
			assert.Equal(t, 3, b.Count)
		}
	}
	assert.Equal(t, 1, filled)
}

func TestPointsMapsCategories(t *testing.T) {
	tbl := parse(t, sales)

	s := points(tbl, 0, 3)
	assert.Equal(t, []string{"north", "south", "east"}, s.categories)
	assert.Equal(t, []float64{0, 1, 0, 2, 1}, s.xs)

	ticks := categoryTicks(s.categories, -0.1, 2.1)
	require.Len(t, ticks, 3)
	assert.Equal(t, "east", ticks[2].Label)

	numeric := points(tbl, 1, 2)
	assert.Nil(t, numeric.categories)
	assert.Equal(t, []float64{1, 2, 4, 5}, numeric.xs)
}

func TestLabelStride(t *testing.T) {
	assert.Equal(t, 1, labelStride(5))
	assert.Equal(t, 1, labelStride(30))
	assert.Equal(t, 2, labelStride(31))
	assert.Equal(t, 4, labelStride(100))
}
