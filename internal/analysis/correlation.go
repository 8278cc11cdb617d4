package analysis

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"fraud-eda/internal/dataset"
	"fraud-eda/internal/logging"
)

// CorrelationMatrix holds pairwise Pearson coefficients; Values[i][j] is the
// correlation between Columns[i] and Columns[j].
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// Correlation computes the Pearson matrix over every numeric column of the
// full dataset. Pairs use the rows where both cells are present; a pair with
// fewer than two such rows or zero variance scores 0. The diagonal is 1.
func Correlation(ds *dataset.Dataset) CorrelationMatrix {
	defer logging.TimeTrack(time.Now(), "correlation matrix")

	cols := ds.NumericColumns()
	m := CorrelationMatrix{
		Columns: make([]string, len(cols)),
		Values:  make([][]float64, len(cols)),
	}
	hasNaN := make([]bool, len(cols))
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, len(cols))
		hasNaN[i] = containsNaN(c.Numbers)
	}

	for i := range cols {
		m.Values[i][i] = 1
		for j := i + 1; j < len(cols); j++ {
			x, y := cols[i].Numbers, cols[j].Numbers
			if hasNaN[i] || hasNaN[j] {
				x, y = pairwiseComplete(x, y)
			}
			r := pearson(x, y)
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

// Get returns the coefficient for two named columns.
func (m CorrelationMatrix) Get(a, b string) (float64, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

func (m CorrelationMatrix) index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Range returns the smallest and largest coefficient in the matrix.
func (m CorrelationMatrix) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range m.Values {
		for _, v := range row {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}

func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

func containsNaN(v []float64) bool {
	for _, f := range v {
		if math.IsNaN(f) {
			return true
		}
	}
	return false
}

func pairwiseComplete(x, y []float64) ([]float64, []float64) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}

// CorrelationResult is one column's correlation with a target column.
type CorrelationResult struct {
	Column1        string  `json:"column1"`
	Column2        string  `json:"column2"`
	Correlation    float64 `json:"correlation"`
	Interpretation string  `json:"interpretation"`
}

// TopCorrelations ranks every other column by |r| against target, strongest
// first, up to limit entries (all when limit <= 0).
func TopCorrelations(m CorrelationMatrix, target string, limit int) []CorrelationResult {
	t := m.index(target)
	if t < 0 {
		return nil
	}
	var out []CorrelationResult
	for j, name := range m.Columns {
		if j == t {
			continue
		}
		r := m.Values[t][j]
		out = append(out, CorrelationResult{
			Column1:        target,
			Column2:        name,
			Correlation:    r,
			Interpretation: Interpret(r),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Correlation) > math.Abs(out[j].Correlation)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Interpret buckets a coefficient into a human description.
func Interpret(r float64) string {
	switch {
	case r > 0.7:
		return "Strong positive"
	case r < -0.7:
		return "Strong negative"
	case r > 0.3:
		return "Moderate positive"
	case r < -0.3:
		return "Moderate negative"
	}
	return "Weak/None"
}
