package charts

import (
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"fraud-eda/internal/analysis"
)

// AmountHistogram draws the unconditioned amount distribution.
func AmountHistogram(w io.Writer, f Format, h analysis.Histogram) error {
	if len(h.Counts) == 0 {
		return analysis.ErrEmptyView
	}
	series := []chart.Series{stepSeries("Montant", h.Edges, h.Counts, colorSingle, 255)}

	ch := histogramChart("Distribution du montant des transactions", h.Edges, maxCount(h.Counts), series)
	return ch.Render(f.provider(), w)
}

// AmountHistogramByClass overlays one semi-transparent histogram per class.
func AmountHistogramByClass(w io.Writer, f Format, h analysis.SplitHistogram) error {
	if len(h.Classes) == 0 {
		return analysis.ErrEmptyView
	}
	var series []chart.Series
	top := 0
	for _, c := range h.Classes {
		series = append(series, stepSeries(c.Name, h.Edges, c.Counts, classColor(c.Class), overlayAlpha))
		if m := maxCount(c.Counts); m > top {
			top = m
		}
	}

	ch := histogramChart("Montant des transactions selon la classe", h.Edges, top, series)
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(f.provider(), w)
}

func histogramChart(title string, edges []float64, top int, series []chart.Series) chart.Chart {
	return chart.Chart{
		Title:      title,
		Background: background(),
		Width:      width,
		Height:     height,
		XAxis: chart.XAxis{
			Name:           "Montant",
			Range:          paddedRange(edges[0], edges[len(edges)-1]),
			ValueFormatter: amountFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Nombre",
			Range:          countRange(top),
			ValueFormatter: countFormatter,
		},
		Series: series,
	}
}

// stepSeries outlines the bars as one closed step polygon so the area
// beneath can be filled.
func stepSeries(name string, edges []float64, counts []int, col drawing.Color, alpha uint8) chart.ContinuousSeries {
	xs := make([]float64, 0, 2*len(counts)+2)
	ys := make([]float64, 0, 2*len(counts)+2)
	xs = append(xs, edges[0])
	ys = append(ys, 0)
	for i, c := range counts {
		xs = append(xs, edges[i], edges[i+1])
		ys = append(ys, float64(c), float64(c))
	}
	xs = append(xs, edges[len(edges)-1])
	ys = append(ys, 0)

	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: col.WithAlpha(alpha),
			StrokeWidth: 1,
			FillColor:   col.WithAlpha(alpha),
		},
	}
}

func maxCount(counts []int) int {
	top := 0
	for _, c := range counts {
		if c > top {
			top = c
		}
	}
	return top
}
