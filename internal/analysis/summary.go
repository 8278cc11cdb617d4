package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"fraud-eda/internal/dataset"
)

// Summary holds the headline metrics, always computed on the full dataset.
type Summary struct {
	Total      int     `json:"total"`
	FraudCount int     `json:"fraud_count"`
	FraudPct   float64 `json:"fraud_pct"`
	HasData    bool    `json:"has_data"`

	TotalAmount decimal.Decimal `json:"total_amount"`
	FraudAmount decimal.Decimal `json:"fraud_amount"`

	AmountStats []AmountStats `json:"amount_stats"`
}

// Summarize counts rows and frauds. An empty dataset yields HasData=false
// and a zero percentage.
func Summarize(ds *dataset.Dataset) Summary {
	s := Summary{
		Total:       ds.Len(),
		TotalAmount: decimal.Zero,
		FraudAmount: decimal.Zero,
	}
	amounts := ds.Amount()
	for i, c := range ds.Class() {
		if c == dataset.Fraud {
			s.FraudCount++
		}
		// Decimal cannot hold NaN or Inf; such amounts are left out of the sums.
		if math.IsNaN(amounts[i]) || math.IsInf(amounts[i], 0) {
			continue
		}
		amt := decimal.NewFromFloat(amounts[i])
		s.TotalAmount = s.TotalAmount.Add(amt)
		if c == dataset.Fraud {
			s.FraudAmount = s.FraudAmount.Add(amt)
		}
	}
	if s.Total > 0 {
		s.HasData = true
		s.FraudPct = FraudPercentage(s.FraudCount, s.Total)
	}
	s.AmountStats = AmountStatsByClass(ds)
	return s
}

// FraudPercentage returns fraud/total*100, or 0 when total is 0.
func FraudPercentage(fraud, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(fraud) / float64(total) * 100
}

// PreviewTable is the first rows of the dataset, formatted as text.
type PreviewTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Preview returns the first n rows (fewer when the dataset is shorter).
func Preview(ds *dataset.Dataset, n int) PreviewTable {
	if n > ds.Len() {
		n = ds.Len()
	}
	if n < 0 {
		n = 0
	}
	t := PreviewTable{Headers: ds.Headers(), Rows: make([][]string, n)}
	for i := 0; i < n; i++ {
		t.Rows[i] = ds.Row(i)
	}
	return t
}

// AmountStats describes the Amount column for one class.
type AmountStats struct {
	Class  string  `json:"class"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// AmountStatsByClass computes AmountStats for every class that has rows.
func AmountStatsByClass(ds *dataset.Dataset) []AmountStats {
	byClass := make(map[dataset.Label][]float64)
	amounts := ds.Amount()
	for i, c := range ds.Class() {
		if math.IsNaN(amounts[i]) || math.IsInf(amounts[i], 0) {
			continue
		}
		byClass[c] = append(byClass[c], amounts[i])
	}

	var out []AmountStats
	for _, l := range dataset.Labels {
		values := byClass[l]
		if len(values) == 0 {
			continue
		}
		st := calculateStats(values)
		st.Class = l.String()
		out = append(out, st)
	}
	return out
}

func calculateStats(values []float64) AmountStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	st := AmountStats{
		Count: len(sorted),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
	}
	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	st.Mean = sum / float64(len(sorted))

	if len(sorted)%2 == 0 {
		st.Median = (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	} else {
		st.Median = sorted[len(sorted)/2]
	}
	return st
}

// FormatCount groups thousands with a space: 284807 -> "284 807".
func FormatCount(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FormatPercent renders a percentage with three decimals: "0.173 %".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.3f %%", p)
}
