package analysis

import (
	"math"
	"strconv"
	"strings"

	"fraud-eda/internal/dataset"
)

// ColumnInfo profiles one column of the dataset.
type ColumnInfo struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	TotalRows     int     `json:"total_rows"`
	NonNullRows   int     `json:"non_null_rows"`
	NullRate      float64 `json:"null_rate"`
	DistinctCount int     `json:"distinct_count"`
	Entropy       float64 `json:"entropy"`

	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Mean   *float64 `json:"mean,omitempty"`
	Median *float64 `json:"median,omitempty"`
}

// Columns profiles every column of the dataset in file order.
func Columns(ds *dataset.Dataset) []ColumnInfo {
	cols := ds.Columns()
	out := make([]ColumnInfo, len(cols))
	for i, c := range cols {
		out[i] = profileColumn(c, ds.Len())
	}
	return out
}

func profileColumn(c *dataset.Column, rows int) ColumnInfo {
	info := ColumnInfo{Name: c.Name, Type: columnType(c), TotalRows: rows}

	counts := make(map[string]int)
	var values []float64
	for i := 0; i < rows; i++ {
		if c.Numeric() {
			v := c.Numbers[i]
			if math.IsNaN(v) {
				continue
			}
			values = append(values, v)
			counts[strconv.FormatFloat(v, 'g', -1, 64)]++
		} else {
			v := c.Text[i]
			if isNull(v) {
				continue
			}
			counts[v]++
		}
		info.NonNullRows++
	}

	info.DistinctCount = len(counts)
	if rows > 0 {
		info.NullRate = float64(rows-info.NonNullRows) / float64(rows)
	}
	info.Entropy = entropy(counts, info.NonNullRows)

	if len(values) > 0 {
		st := calculateStats(values)
		info.Min, info.Max, info.Mean, info.Median = &st.Min, &st.Max, &st.Mean, &st.Median
	}
	return info
}

// columnType reports "label", "int", "float" or "text".
func columnType(c *dataset.Column) string {
	switch c.Kind {
	case dataset.KindLabel:
		return "label"
	case dataset.KindText:
		return "text"
	}
	for _, v := range c.Numbers {
		if math.IsNaN(v) {
			continue
		}
		if v != math.Trunc(v) {
			return "float"
		}
	}
	return "int"
}

func isNull(s string) bool {
	switch strings.ToLower(s) {
	case "", "null", "none", "nan":
		return true
	}
	return false
}

// entropy is the Shannon entropy in bits of a value histogram.
func entropy(counts map[string]int, total int) float64 {
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, n := range counts {
		if n > 0 {
			p := float64(n) / float64(total)
			h -= p * math.Log2(p)
		}
	}
	return h
}
