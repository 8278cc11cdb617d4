package api

import (
	"errors"
	"fmt"
	"io"

	"fraud-eda/internal/analysis"
	"fraud-eda/internal/charts"
	"fraud-eda/internal/state"
)

// Chart names as they appear in /charts/{name}.
const (
	ChartClassDistribution = "class-distribution"
	ChartAmount            = "amount-histogram"
	ChartAmountByClass     = "amount-histogram-by-class"
	ChartScatter           = "scatter"
	ChartCorrelation       = "correlation"
)

// ChartNames lists every chart in page order.
var ChartNames = []string{
	ChartClassDistribution,
	ChartAmount,
	ChartAmountByClass,
	ChartScatter,
	ChartCorrelation,
}

var ErrUnknownChart = errors.New("unknown chart")

// ChartRenderer draws a named chart from the memoized views.
type ChartRenderer struct {
	Views *state.Views
	Bins  int
}

// Render writes the chart to w. Filter-dependent charts return
// analysis.ErrEmptyView when the selection matches no rows; the class
// distribution and the correlation heatmap ignore sel.
func (c *ChartRenderer) Render(w io.Writer, name string, sel analysis.Selection, f charts.Format) error {
	switch name {
	case ChartClassDistribution:
		ds, err := c.Views.Dataset()
		if err != nil {
			return err
		}
		return charts.ClassBar(w, f, analysis.ClassDistribution(ds))

	case ChartAmount:
		view, err := c.Views.Filtered(sel)
		if err != nil {
			return err
		}
		h, err := analysis.AmountHistogram(view, c.Bins)
		if err != nil {
			return err
		}
		return charts.AmountHistogram(w, f, h)

	case ChartAmountByClass:
		view, err := c.Views.Filtered(sel)
		if err != nil {
			return err
		}
		h, err := analysis.AmountHistogramByClass(view, c.Bins)
		if err != nil {
			return err
		}
		return charts.AmountHistogramByClass(w, f, h)

	case ChartScatter:
		sample, err := c.Views.Sampled(sel)
		if err != nil {
			return err
		}
		if sample.Empty() {
			return analysis.ErrEmptyView
		}
		return charts.TimeAmountScatter(w, f, analysis.ScatterPoints(sample))

	case ChartCorrelation:
		m, err := c.Views.Correlation()
		if err != nil {
			return err
		}
		return charts.CorrelationHeatmap(w, f, m)
	}
	return fmt.Errorf("%w %q", ErrUnknownChart, name)
}
