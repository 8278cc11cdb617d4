package analysis

import (
	"errors"
	"math"

	"fraud-eda/internal/dataset"
)

// DefaultBins is the histogram bin count of the amount charts.
const DefaultBins = 50

// ErrEmptyView is returned by computations that need at least one row.
var ErrEmptyView = errors.New("no data for the selected filter")

// ClassCount is one bar of the class distribution.
type ClassCount struct {
	Class int    `json:"class"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ClassDistribution counts rows per class over the full dataset, ordered by
// label value (Normal, then Fraude). Both classes are always present.
func ClassDistribution(ds *dataset.Dataset) []ClassCount {
	counts := make([]int, len(dataset.Labels))
	for _, c := range ds.Class() {
		counts[c]++
	}
	out := make([]ClassCount, len(dataset.Labels))
	for i, l := range dataset.Labels {
		out[i] = ClassCount{Class: int(l), Name: l.String(), Count: counts[i]}
	}
	return out
}

// Histogram is an equal-width binning: bin i covers [Edges[i], Edges[i+1]),
// the last bin also includes its right edge.
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// ClassHistogram is a histogram restricted to one class.
type ClassHistogram struct {
	Class  int    `json:"class"`
	Name   string `json:"name"`
	Counts []int  `json:"counts"`
}

// SplitHistogram shares one set of edges between classes.
type SplitHistogram struct {
	Edges   []float64        `json:"edges"`
	Classes []ClassHistogram `json:"classes"`
}

// AmountHistogram bins the Amount of every row in the view.
func AmountHistogram(v dataset.View, bins int) (Histogram, error) {
	if v.Empty() {
		return Histogram{}, ErrEmptyView
	}
	amounts := v.Amounts()
	edges := binEdges(amounts, bins)
	return Histogram{Edges: edges, Counts: countInto(amounts, edges)}, nil
}

// AmountHistogramByClass bins Amount per class on edges computed over the
// whole view, so the class histograms overlay bin for bin. Only classes
// present in the view are returned.
func AmountHistogramByClass(v dataset.View, bins int) (SplitHistogram, error) {
	if v.Empty() {
		return SplitHistogram{}, ErrEmptyView
	}
	amounts := v.Amounts()
	classes := v.Classes()
	edges := binEdges(amounts, bins)

	perClass := make(map[dataset.Label][]float64)
	for i, c := range classes {
		perClass[c] = append(perClass[c], amounts[i])
	}

	out := SplitHistogram{Edges: edges}
	for _, l := range dataset.Labels {
		values, ok := perClass[l]
		if !ok {
			continue
		}
		out.Classes = append(out.Classes, ClassHistogram{
			Class:  int(l),
			Name:   l.String(),
			Counts: countInto(values, edges),
		})
	}
	return out, nil
}

// binEdges spans [min, max] with bins equal-width bins. A degenerate range
// is widened by 0.5 on each side.
func binEdges(values []float64, bins int) []float64 {
	if bins <= 0 {
		bins = DefaultBins
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 1
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi
	return edges
}

func countInto(values, edges []float64) []int {
	bins := len(edges) - 1
	counts := make([]int, bins)
	lo, hi := edges[0], edges[bins]
	width := (hi - lo) / float64(bins)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < lo || v > hi {
			continue
		}
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}
	return counts
}
