package charts

import (
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"fraud-eda/internal/analysis"
)

// ClassBar draws one bar per class in the given order. There is no legend.
func ClassBar(w io.Writer, f Format, counts []analysis.ClassCount) error {
	bars := make([]chart.Value, len(counts))
	top := 0
	for i, c := range counts {
		col := classColor(c.Class)
		bars[i] = chart.Value{
			Label: c.Name,
			Value: float64(c.Count),
			Style: chart.Style{FillColor: col, StrokeColor: col},
		}
		if c.Count > top {
			top = c.Count
		}
	}

	bc := chart.BarChart{
		Title:      "Nombre de transactions par classe",
		Background: background(),
		Width:      width,
		Height:     height,
		BarWidth:   120,
		Bars:       bars,
		YAxis: chart.YAxis{
			Name:           "Nombre de transactions",
			Range:          countRange(top),
			ValueFormatter: countFormatter,
		},
	}
	return bc.Render(f.provider(), w)
}
