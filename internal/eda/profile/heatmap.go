package profile

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const heatmapTitle = "Correlation Heatmap"

//nolint:gochecknoglobals // palette anchors of the diverging blue-white-red scale
var coolwarm = []struct {
	at  float64
	rgb [3]float64
}{
	{0.00, [3]float64{59, 76, 192}},
	{0.25, [3]float64{124, 159, 249}},
	{0.50, [3]float64{221, 220, 219}},
	{0.75, [3]float64{245, 156, 125}},
	{1.00, [3]float64{180, 4, 38}},
}

// ColorFor maps a coefficient in [-1, 1] onto the diverging scale. NaN is
// drawn light gray.
func ColorFor(v float64) color.RGBA {
	if math.IsNaN(v) {
		return color.RGBA{R: 240, G: 240, B: 240, A: 255}
	}
	t := (math.Max(-1, math.Min(1, v)) + 1) / 2

	for i := 1; i < len(coolwarm); i++ {
		lo, hi := coolwarm[i-1], coolwarm[i]
		if t > hi.at {
			continue
		}
		f := (t - lo.at) / (hi.at - lo.at)
		mix := func(c int) uint8 {
			return uint8(math.Round(lo.rgb[c] + (hi.rgb[c]-lo.rgb[c])*f))
		}
		return color.RGBA{R: mix(0), G: mix(1), B: mix(2), A: 255}
	}

	last := coolwarm[len(coolwarm)-1].rgb
	return color.RGBA{R: uint8(last[0]), G: uint8(last[1]), B: uint8(last[2]), A: 255}
}

type heatmapLayout struct {
	cell    int
	labelW  int
	originX int
	originY int
	barX    int
	width   int
	height  int
}

const (
	charW        = 7
	maxLabelLen  = 16
	titleHeight  = 40
	bottomMargin = 36
	barGap       = 24
	barWidth     = 18
	barLabelW    = 44
)

func newLayout(m entity.Matrix) heatmapLayout {
	n := len(m.Columns)
	cell := 560 / max(n, 1)
	cell = max(44, min(90, cell))

	longest := 0
	for _, name := range m.Columns {
		longest = max(longest, len(truncate(name, maxLabelLen)))
	}

	l := heatmapLayout{cell: cell, labelW: longest*charW + 16}
	l.originX = l.labelW
	l.originY = titleHeight
	l.barX = l.originX + n*cell + barGap
	l.width = l.barX + barWidth + barLabelW
	l.height = l.originY + n*cell + bottomMargin
	return l
}

// Heatmap draws m as a grid of colored cells annotated with two decimals,
// labels on both axes and a color bar. The result is PNG encoded.
func Heatmap(m entity.Matrix) ([]byte, error) {
	if len(m.Columns) == 0 {
		return nil, fmt.Errorf("heatmap: empty matrix")
	}

	l := newLayout(m)
	img := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	drawText(img, (l.width-textWidth(heatmapTitle))/2, 24, heatmapTitle, color.Black)

	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := m.Values[i][j]
			x0 := l.originX + j*l.cell
			y0 := l.originY + i*l.cell
			rect := image.Rect(x0+1, y0+1, x0+l.cell-1, y0+l.cell-1)
			draw.Draw(img, rect, image.NewUniform(ColorFor(v)), image.Point{}, draw.Src)

			label := "nan"
			if !math.IsNaN(v) {
				label = fmt.Sprintf("%.2f", v)
			}
			var ink color.Color = color.Black
			if !math.IsNaN(v) && math.Abs(v) > 0.6 {
				ink = color.White
			}
			drawText(img, x0+(l.cell-textWidth(label))/2, y0+l.cell/2+4, label, ink)
		}
	}

	fit := max(3, (l.cell-4)/charW)
	for i, name := range m.Columns {
		row := truncate(name, maxLabelLen)
		drawText(img, l.labelW-8-textWidth(row), l.originY+i*l.cell+l.cell/2+4, row, color.Black)

		col := truncate(name, fit)
		drawText(img, l.originX+i*l.cell+(l.cell-textWidth(col))/2, l.originY+n*l.cell+18, col, color.Black)
	}

	drawColorBar(img, l, n*l.cell)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("heatmap: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// drawColorBar paints the scale from +1 at the top to -1 at the bottom.
func drawColorBar(img *image.RGBA, l heatmapLayout, height int) {
	for y := 0; y < height; y++ {
		v := 1 - 2*float64(y)/float64(max(height-1, 1))
		line := image.Rect(l.barX, l.originY+y, l.barX+barWidth, l.originY+y+1)
		draw.Draw(img, line, image.NewUniform(ColorFor(v)), image.Point{}, draw.Src)
	}

	for _, tick := range []float64{1, 0.5, 0, -0.5, -1} {
		y := l.originY + int(math.Round((1-tick)/2*float64(height-1)))
		draw.Draw(img, image.Rect(l.barX+barWidth, y, l.barX+barWidth+4, y+1), image.Black, image.Point{}, draw.Src)
		drawText(img, l.barX+barWidth+6, y+4, fmt.Sprintf("%.1f", tick), color.Black)
	}
}

func drawText(img *image.RGBA, x, y int, s string, ink color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(s)
}

func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 2 {
		return string(r[:limit])
	}
	return string(r[:limit-2]) + ".."
}
