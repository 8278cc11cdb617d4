package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"fraud-eda/internal/analysis"
)

const (
	heatmapWidth  = 800
	heatmapHeight = 640

	heatmapTop    = 50
	heatmapBottom = 20
	heatmapLeft   = 80
	colorBarWidth = 18
	colorBarGap   = 30
)

// bluesStops is the sequential "Blues" colour scale, light to dark.
var bluesStops = []drawing.Color{
	{R: 247, G: 251, B: 255, A: 255},
	{R: 222, G: 235, B: 247, A: 255},
	{R: 198, G: 219, B: 239, A: 255},
	{R: 158, G: 202, B: 225, A: 255},
	{R: 107, G: 174, B: 214, A: 255},
	{R: 66, G: 146, B: 198, A: 255},
	{R: 33, G: 113, B: 181, A: 255},
	{R: 8, G: 81, B: 156, A: 255},
	{R: 8, G: 48, B: 107, A: 255},
}

// Blues maps t in [0, 1] onto the Blues scale. Values outside are clamped.
func Blues(t float64) drawing.Color {
	if math.IsNaN(t) || t <= 0 {
		return bluesStops[0]
	}
	if t >= 1 {
		return bluesStops[len(bluesStops)-1]
	}
	pos := t * float64(len(bluesStops)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := bluesStops[i], bluesStops[i+1]
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*frac))
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// CorrelationHeatmap draws the matrix as a colour grid scaled to its own
// min and max, with row labels, no column labels and a colour bar.
func CorrelationHeatmap(w io.Writer, f Format, m analysis.CorrelationMatrix) error {
	n := len(m.Columns)
	if n == 0 {
		return fmt.Errorf("correlation heatmap: no numeric columns")
	}

	r, err := f.provider()(heatmapWidth, heatmapHeight)
	if err != nil {
		return err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}
	r.SetFont(font)

	fillRect(r, 0, 0, heatmapWidth, heatmapHeight, drawing.ColorWhite)

	gridW := heatmapWidth - heatmapLeft - colorBarGap - colorBarWidth - 60
	gridH := heatmapHeight - heatmapTop - heatmapBottom
	cell := gridW / n
	if c := gridH / n; c < cell {
		cell = c
	}
	if cell < 1 {
		cell = 1
	}

	lo, hi := m.Range()
	scale := func(v float64) float64 {
		if hi == lo {
			return 1
		}
		return (v - lo) / (hi - lo)
	}

	for i := 0; i < n; i++ {
		y := heatmapTop + i*cell
		for j := 0; j < n; j++ {
			x := heatmapLeft + j*cell
			fillRect(r, x, y, x+cell, y+cell, Blues(scale(m.Values[i][j])))
		}
	}

	r.SetFontColor(drawing.ColorBlack)
	labelSize := math.Min(9, math.Max(5, float64(cell)*0.6))
	r.SetFontSize(labelSize)
	for i, name := range m.Columns {
		tb := r.MeasureText(name)
		y := heatmapTop + i*cell + cell/2 + tb.Height()/2
		r.Text(name, heatmapLeft-tb.Width()-4, y)
	}

	barX := heatmapLeft + n*cell + colorBarGap
	barH := n * cell
	drawColorBar(r, barX, heatmapTop, barH, lo, hi)

	r.SetFontSize(12)
	title := "Matrice de corrélation des variables"
	tb := r.MeasureText(title)
	r.Text(title, heatmapLeft+(n*cell-tb.Width())/2, heatmapTop-16)

	return r.Save(w)
}

func drawColorBar(r chart.Renderer, x, y, h int, lo, hi float64) {
	const steps = 64
	for s := 0; s < steps; s++ {
		y0 := y + s*h/steps
		y1 := y + (s+1)*h/steps
		// Top of the bar is the maximum.
		t := 1 - (float64(s)+0.5)/steps
		fillRect(r, x, y0, x+colorBarWidth, y1, Blues(t))
	}

	r.SetFontSize(8)
	r.SetFontColor(drawing.ColorBlack)
	for _, tick := range []float64{hi, (lo + hi) / 2, lo} {
		label := fmt.Sprintf("%.2f", tick)
		tb := r.MeasureText(label)
		ty := y + h/2
		switch tick {
		case hi:
			ty = y + tb.Height()/2
		case lo:
			ty = y + h + tb.Height()/2
		}
		r.Text(label, x+colorBarWidth+4, ty)
	}

	r.SetFontSize(10)
	caption := "Corrélation"
	tb := r.MeasureText(caption)
	r.SetTextRotation(-math.Pi / 2)
	r.Text(caption, x+colorBarWidth+44, y+(h+tb.Width())/2)
	r.ClearTextRotation()
}

func fillRect(r chart.Renderer, x0, y0, x1, y1 int, col drawing.Color) {
	r.SetFillColor(col)
	r.SetStrokeColor(col)
	r.SetStrokeWidth(0)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.Close()
	r.Fill()
}
