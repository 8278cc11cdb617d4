package charts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"fraud-eda/internal/analysis"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func assertImage(t *testing.T, f Format, b []byte) {
	t.Helper()
	require.NotEmpty(t, b)
	if f == PNG {
		assert.True(t, bytes.HasPrefix(b, pngMagic), "expected a PNG signature")
		return
	}
	assert.Contains(t, string(b), "<svg")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"", PNG, false},
		{"png", PNG, false},
		{"SVG", SVG, false},
		{"gif", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "image/png", PNG.ContentType())
	assert.Equal(t, "image/svg+xml", SVG.ContentType())
	assert.Equal(t, "svg", SVG.Ext())
}

func TestRender(t *testing.T) {
	counts := []analysis.ClassCount{
		{Class: 0, Name: "Normal", Count: 900},
		{Class: 1, Name: "Fraude", Count: 100},
	}
	hist := analysis.Histogram{Edges: []float64{0, 5, 10}, Counts: []int{3, 1}}
	split := analysis.SplitHistogram{
		Edges: []float64{0, 5, 10},
		Classes: []analysis.ClassHistogram{
			{Class: 0, Name: "Normal", Counts: []int{3, 0}},
			{Class: 1, Name: "Fraude", Counts: []int{0, 1}},
		},
	}
	points := []analysis.Point{
		{Time: 0, Amount: 10, Class: 0},
		{Time: 10, Amount: 2, Class: 0},
		{Time: 20, Amount: 300, Class: 1},
	}
	matrix := analysis.CorrelationMatrix{
		Columns: []string{"Time", "Amount", "Class"},
		Values: [][]float64{
			{1, -0.01, -0.01},
			{-0.01, 1, 0.06},
			{-0.01, 0.06, 1},
		},
	}

	renders := map[string]func(*bytes.Buffer, Format) error{
		"class bar": func(b *bytes.Buffer, f Format) error { return ClassBar(b, f, counts) },
		"histogram": func(b *bytes.Buffer, f Format) error { return AmountHistogram(b, f, hist) },
		"histogram by class": func(b *bytes.Buffer, f Format) error {
			return AmountHistogramByClass(b, f, split)
		},
		"scatter": func(b *bytes.Buffer, f Format) error { return TimeAmountScatter(b, f, points) },
		"heatmap": func(b *bytes.Buffer, f Format) error { return CorrelationHeatmap(b, f, matrix) },
	}

	for name, render := range renders {
		for _, f := range []Format{PNG, SVG} {
			t.Run(name+"/"+string(f), func(t *testing.T) {
				var buf bytes.Buffer
				require.NoError(t, render(&buf, f))
				assertImage(t, f, buf.Bytes())
			})
		}
	}
}

func TestRenderDegenerateInputs(t *testing.T) {
	t.Run("all zero class counts", func(t *testing.T) {
		var buf bytes.Buffer
		err := ClassBar(&buf, PNG, []analysis.ClassCount{
			{Class: 0, Name: "Normal"},
			{Class: 1, Name: "Fraude"},
		})
		require.NoError(t, err)
		assertImage(t, PNG, buf.Bytes())
	})

	t.Run("single scatter point", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, TimeAmountScatter(&buf, PNG, []analysis.Point{{Time: 5, Amount: 5, Class: 1}}))
		assertImage(t, PNG, buf.Bytes())
	})

	t.Run("single column heatmap", func(t *testing.T) {
		var buf bytes.Buffer
		m := analysis.CorrelationMatrix{Columns: []string{"Class"}, Values: [][]float64{{1}}}
		require.NoError(t, CorrelationHeatmap(&buf, SVG, m))
		assertImage(t, SVG, buf.Bytes())
	})

	t.Run("empty inputs", func(t *testing.T) {
		var buf bytes.Buffer
		assert.ErrorIs(t, AmountHistogram(&buf, PNG, analysis.Histogram{}), analysis.ErrEmptyView)
		assert.ErrorIs(t, AmountHistogramByClass(&buf, PNG, analysis.SplitHistogram{}), analysis.ErrEmptyView)
		assert.ErrorIs(t, TimeAmountScatter(&buf, PNG, nil), analysis.ErrEmptyView)
		assert.Error(t, CorrelationHeatmap(&buf, PNG, analysis.CorrelationMatrix{}))
	})
}

func TestBlues(t *testing.T) {
	assert.Equal(t, drawing.Color{R: 247, G: 251, B: 255, A: 255}, Blues(0))
	assert.Equal(t, drawing.Color{R: 8, G: 48, B: 107, A: 255}, Blues(1))
	assert.Equal(t, Blues(0), Blues(-3))
	assert.Equal(t, Blues(1), Blues(7))
	assert.Equal(t, drawing.Color{R: 107, G: 174, B: 214, A: 255}, Blues(0.5))

	// Darker as t grows.
	prev := Blues(0)
	for _, v := range []float64{0.2, 0.4, 0.6, 0.8, 1} {
		c := Blues(v)
		assert.LessOrEqual(t, int(c.R)+int(c.G)+int(c.B), int(prev.R)+int(prev.G)+int(prev.B))
		prev = c
	}
}
