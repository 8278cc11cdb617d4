// Package charts renders the dashboard figures with go-chart.
package charts

import (
	"fmt"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"fraud-eda/internal/analysis"
)

// Format is an image encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat maps a query value onto a Format; empty means PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "svg":
		return SVG, nil
	}
	return "", fmt.Errorf("unknown image format %q (want png or svg)", s)
}

// ContentType is the MIME type of the encoding.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Ext is the file extension without the dot.
func (f Format) Ext() string {
	if f == SVG {
		return "svg"
	}
	return "png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

const (
	width  = 800
	height = 400

	// overlayAlpha is 0.6 opacity.
	overlayAlpha uint8 = 153
)

var (
	colorNormal = drawing.Color{R: 99, G: 110, B: 250, A: 255}
	colorFraud  = drawing.Color{R: 239, G: 85, B: 59, A: 255}
	colorSingle = drawing.Color{R: 99, G: 110, B: 250, A: 255}
)

func classColor(class int) drawing.Color {
	if class == 1 {
		return colorFraud
	}
	return colorNormal
}

func background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}}
}

func countFormatter(v interface{}) string {
	if vf, ok := v.(float64); ok {
		return analysis.FormatCount(int(math.Round(vf)))
	}
	return ""
}

func amountFormatter(v interface{}) string {
	if vf, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", vf)
	}
	return ""
}

// paddedRange returns a non-degenerate range covering [lo, hi].
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsNaN(lo) || math.IsNaN(hi) {
		lo, hi = 0, 1
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// countRange is the y range of a count axis, with headroom above top.
func countRange(top int) *chart.ContinuousRange {
	if top <= 0 {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	return &chart.ContinuousRange{Min: 0, Max: float64(top) * 1.05}
}
