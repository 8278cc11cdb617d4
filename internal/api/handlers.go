package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fraud-eda/internal/analysis"
	"fraud-eda/internal/charts"
	"fraud-eda/internal/dataset"
	"fraud-eda/internal/logging"
	"fraud-eda/internal/models"
	"fraud-eda/internal/state"
)

type Handler struct {
	Provider    *dataset.Provider
	Views       *state.Views
	Charts      *ChartRenderer
	PreviewRows int
	Bins        int
}

func NewHandler(p *dataset.Provider, views *state.Views, previewRows, bins int) *Handler {
	if bins <= 0 {
		bins = analysis.DefaultBins
	}
	return &Handler{
		Provider:    p,
		Views:       views,
		Charts:      &ChartRenderer{Views: views, Bins: bins},
		PreviewRows: previewRows,
		Bins:        bins,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Dashboard)
	r.Get("/health", h.HealthCheck)

	r.Get("/api/status", h.GetStatus)
	r.Get("/api/summary", h.GetSummary)
	r.Get("/api/preview", h.GetPreview)
	r.Get("/api/columns", h.GetColumns)
	r.Get("/api/class-distribution", h.GetClassDistribution)
	r.Get("/api/amount-histogram", h.GetAmountHistogram)
	r.Get("/api/scatter", h.GetScatter)
	r.Get("/api/correlation", h.GetCorrelation)
	r.Get("/api/correlation/class", h.GetClassCorrelation)

	r.Get("/charts/{name}", h.GetChart)
}

// ============================================================================
// Health & status
// ============================================================================

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := models.StatusResponse{
		State:  h.Provider.State().String(),
		Source: h.Provider.Describe(),
	}
	ds, err := h.Provider.Dataset()
	switch {
	case err == nil:
		resp.Rows = ds.Len()
		resp.Columns = len(ds.Headers())
	case !errors.Is(err, dataset.ErrNotReady):
		resp.Error = err.Error()
	}
	writeJSON(w, resp)
}

// ============================================================================
// Summary panel
// ============================================================================

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Views.Summary()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, models.NewSummaryResponse(s))
}

func (h *Handler) GetPreview(w http.ResponseWriter, r *http.Request) {
	rows := getIntParam(r, "rows", h.PreviewRows)

	ds, err := h.Views.Dataset()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, analysis.Preview(ds, rows))
}

func (h *Handler) GetColumns(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Views.Dataset()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, models.ColumnsResponse{Columns: analysis.Columns(ds)})
}

// ============================================================================
// Distributions
// ============================================================================

func (h *Handler) GetClassDistribution(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Views.Dataset()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, models.ClassDistributionResponse{Classes: analysis.ClassDistribution(ds)})
}

func (h *Handler) GetAmountHistogram(w http.ResponseWriter, r *http.Request) {
	sel, ok := selectionParam(w, r)
	if !ok {
		return
	}
	bins := getIntParam(r, "bins", h.Bins)
	if bins <= 0 {
		http.Error(w, "bins must be positive", http.StatusBadRequest)
		return
	}

	view, err := h.Views.Filtered(sel)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := models.HistogramResponse{Selection: string(sel), Empty: view.Empty()}
	if !view.Empty() {
		overall, err := analysis.AmountHistogram(view, bins)
		if err != nil {
			writeError(w, err)
			return
		}
		byClass, err := analysis.AmountHistogramByClass(view, bins)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Overall, resp.ByClass = &overall, &byClass
	}
	writeJSON(w, resp)
}

func (h *Handler) GetScatter(w http.ResponseWriter, r *http.Request) {
	sel, ok := selectionParam(w, r)
	if !ok {
		return
	}
	filtered, err := h.Views.Filtered(sel)
	if err != nil {
		writeError(w, err)
		return
	}
	sample, err := h.Views.Sampled(sel)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, models.ScatterResponse{
		Selection: string(sel),
		Filtered:  filtered.Len(),
		Sampled:   sample.Len(),
		Points:    analysis.ScatterPoints(sample),
	})
}

// ============================================================================
// Correlation
// ============================================================================

func (h *Handler) GetCorrelation(w http.ResponseWriter, r *http.Request) {
	m, err := h.Views.Correlation()
	if err != nil {
		writeError(w, err)
		return
	}

	col1 := r.URL.Query().Get("col1")
	col2 := r.URL.Query().Get("col2")
	if col1 == "" && col2 == "" {
		writeJSON(w, m)
		return
	}

	corr, ok := m.Get(col1, col2)
	if !ok {
		http.Error(w, "Column not found", http.StatusNotFound)
		return
	}
	writeJSON(w, analysis.CorrelationResult{
		Column1:        col1,
		Column2:        col2,
		Correlation:    corr,
		Interpretation: analysis.Interpret(corr),
	})
}

func (h *Handler) GetClassCorrelation(w http.ResponseWriter, r *http.Request) {
	limit := getIntParam(r, "limit", 10)

	m, err := h.Views.Correlation()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, models.ClassCorrelationResponse{
		Target:       dataset.ColClass,
		Correlations: analysis.TopCorrelations(m, dataset.ColClass, limit),
	})
}

// ============================================================================
// Chart images
// ============================================================================

// GetChart serves a chart image. An empty filtered view yields 204.
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	sel, ok := selectionParam(w, r)
	if !ok {
		return
	}
	format, err := charts.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	err = h.Charts.Render(&buf, name, sel, format)
	if errors.Is(err, analysis.ErrEmptyView) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// ============================================================================
// Helpers
// ============================================================================

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warnf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dataset.ErrNotReady):
		http.Error(w, "Dataset not loaded", http.StatusServiceUnavailable)
	case errors.Is(err, ErrUnknownChart):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		logging.Errorf("request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func selectionParam(w http.ResponseWriter, r *http.Request) (analysis.Selection, bool) {
	sel, err := analysis.ParseSelection(r.URL.Query().Get("class"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return sel, true
}

func getIntParam(r *http.Request, name string, defaultVal int) int {
	valStr := r.URL.Query().Get(name)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}
