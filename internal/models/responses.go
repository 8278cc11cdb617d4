package models

import "fraud-eda/internal/analysis"

// StatusResponse is returned by /api/status
type StatusResponse struct {
	State   string `json:"state"`
	Source  string `json:"source"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Error   string `json:"error,omitempty"`
}

// SummaryResponse is returned by /api/summary
type SummaryResponse struct {
	analysis.Summary
	TotalText   string `json:"total_text"`
	FraudText   string `json:"fraud_text"`
	PercentText string `json:"percent_text"`
}

// NewSummaryResponse adds the display strings to a summary.
func NewSummaryResponse(s analysis.Summary) SummaryResponse {
	return SummaryResponse{
		Summary:     s,
		TotalText:   analysis.FormatCount(s.Total),
		FraudText:   analysis.FormatCount(s.FraudCount),
		PercentText: analysis.FormatPercent(s.FraudPct),
	}
}

// ColumnsResponse for /api/columns
type ColumnsResponse struct {
	Columns []analysis.ColumnInfo `json:"columns"`
}

// ClassDistributionResponse for /api/class-distribution
type ClassDistributionResponse struct {
	Classes []analysis.ClassCount `json:"classes"`
}

// HistogramResponse for /api/amount-histogram. Empty is set when the
// filter selects no rows, in which case both histograms are omitted.
type HistogramResponse struct {
	Selection string                   `json:"selection"`
	Empty     bool                     `json:"empty"`
	Overall   *analysis.Histogram      `json:"overall,omitempty"`
	ByClass   *analysis.SplitHistogram `json:"by_class,omitempty"`
}

// ScatterResponse for /api/scatter
type ScatterResponse struct {
	Selection string           `json:"selection"`
	Filtered  int              `json:"filtered"`
	Sampled   int              `json:"sampled"`
	Points    []analysis.Point `json:"points"`
}

// ClassCorrelationResponse for /api/correlation/class
type ClassCorrelationResponse struct {
	Target       string                       `json:"target"`
	Correlations []analysis.CorrelationResult `json:"correlations"`
}
