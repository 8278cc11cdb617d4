package charts

import (
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"fraud-eda/internal/analysis"
	"fraud-eda/internal/dataset"
)

// pointStyle renders markers only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    2,
		DotColor:    col.WithAlpha(overlayAlpha),
	}
}

// TimeAmountScatter plots Amount against Time with one colour per class.
func TimeAmountScatter(w io.Writer, f Format, points []analysis.Point) error {
	if len(points) == 0 {
		return analysis.ErrEmptyView
	}

	xs := make(map[int][]float64)
	ys := make(map[int][]float64)
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		xs[p.Class] = append(xs[p.Class], p.Time)
		ys[p.Class] = append(ys[p.Class], p.Amount)
		minX, maxX = math.Min(minX, p.Time), math.Max(maxX, p.Time)
		minY, maxY = math.Min(minY, p.Amount), math.Max(maxY, p.Amount)
	}

	var (
		series []chart.Series
		names  []string
		colors []drawing.Color
	)
	for _, l := range dataset.Labels {
		c := int(l)
		if len(xs[c]) == 0 {
			continue
		}
		names = append(names, l.String())
		colors = append(colors, classColor(c))
		series = append(series, chart.ContinuousSeries{
			Name:    l.String(),
			XValues: xs[c],
			YValues: ys[c],
			Style:   pointStyle(classColor(c)),
		})
	}

	ch := chart.Chart{
		Title:      "Montant des transactions en fonction du temps",
		Background: background(),
		Width:      width,
		Height:     height,
		XAxis: chart.XAxis{
			Name:           "Temps (s)",
			Range:          paddedRange(minX, maxX),
			ValueFormatter: amountFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Montant",
			Range:          paddedRange(minY, maxY),
			ValueFormatter: amountFormatter,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{swatchLegend(names, colors)}
	return ch.Render(f.provider(), w)
}

// swatchLegend draws a colour square per entry in the top right corner of the
// plot. chart.Legend draws the series stroke, which dot-only series lack.
func swatchLegend(names []string, colors []drawing.Color) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		const size, gap = 8, 6
		r.SetFont(defaults.GetFont())
		r.SetFontSize(8)
		r.SetFontColor(drawing.ColorBlack)

		x := box.Right - 8
		for i := len(names) - 1; i >= 0; i-- {
			tb := r.MeasureText(names[i])
			x -= tb.Width()
			r.Text(names[i], x, box.Top+4+size)
			x -= size + 4
			fillRect(r, x, box.Top+4, x+size, box.Top+4+size, colors[i])
			x -= gap * 2
		}
	}
}
