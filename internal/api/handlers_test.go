package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraud-eda/internal/analysis"
	"fraud-eda/internal/dataset"
	"fraud-eda/internal/models"
	"fraud-eda/internal/state"
)

const normalOnlyCSV = "Time,V1,V2,Amount,Class\n" +
	"0,-1.35,-0.07,149.62,0\n" +
	"0,1.19,0.26,2.69,0\n" +
	"1,-1.35,-1.34,378.66,0\n" +
	"1,-0.96,-0.18,123.5,0\n"

const mixedCSV = "Time,V1,V2,Amount,Class\n" +
	"0,-1.35,-0.07,149.62,0\n" +
	"0,1.19,0.26,2.69,0\n" +
	"1,-1.35,-1.34,378.66,1\n" +
	"1,-0.96,-0.18,123.5,0\n" +
	"2,-1.15,0.87,69.99,1\n"

type csvSource struct {
	body string
	err  error
}

func (s csvSource) Describe() string { return "test" }

func (s csvSource) Load(context.Context) (*dataset.Dataset, error) {
	if s.err != nil {
		return nil, s.err
	}
	return dataset.ParseCSV(strings.NewReader(s.body), dataset.DefaultSchema(), "test")
}

func newTestServer(t *testing.T, src dataset.Source, load bool) http.Handler {
	t.Helper()
	p := dataset.NewProvider(src)
	if load {
		_, err := p.Load(context.Background())
		require.NoError(t, err)
	}
	h := NewHandler(p, state.NewViews(p, 3, analysis.DefaultSeed), 5, 4)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func get(t *testing.T, srv http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealthAndStatus(t *testing.T) {
	srv := newTestServer(t, csvSource{body: mixedCSV}, true)

	rec := get(t, srv, "/health")
	assert.Equal(t, "OK", rec.Body.String())

	var st models.StatusResponse
	decode(t, get(t, srv, "/api/status"), &st)
	assert.Equal(t, "ready", st.State)
	assert.Equal(t, 5, st.Rows)
	assert.Equal(t, 5, st.Columns)
}

func TestNotLoaded(t *testing.T) {
	srv := newTestServer(t, csvSource{body: mixedCSV}, false)

	for _, path := range []string{"/", "/api/summary", "/api/correlation", "/charts/scatter"} {
		rec := get(t, srv, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}

	var st models.StatusResponse
	decode(t, get(t, srv, "/api/status"), &st)
	assert.Equal(t, "uninitialized", st.State)
}

func TestFailedLoadStatus(t *testing.T) {
	src := csvSource{err: errors.New("boom")}
	p := dataset.NewProvider(src)
	_, err := p.Load(context.Background())
	require.Error(t, err)

	h := NewHandler(p, state.NewViews(p, 3, analysis.DefaultSeed), 5, 4)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	var st models.StatusResponse
	decode(t, get(t, r, "/api/status"), &st)
	assert.Equal(t, "failed", st.State)
	assert.Contains(t, st.Error, "boom")

	assert.Equal(t, http.StatusInternalServerError, get(t, r, "/api/summary").Code)
}

func TestSummaryEndpoints(t *testing.T) {
	srv := newTestServer(t, csvSource{body: mixedCSV}, true)

	var sum map[string]interface{}
	decode(t, get(t, srv, "/api/summary"), &sum)
	assert.EqualValues(t, 5, sum["total"])
	assert.EqualValues(t, 2, sum["fraud_count"])
	assert.Equal(t, "40.000 %", sum["percent_text"])

	var preview analysis.PreviewTable
	decode(t, get(t, srv, "/api/preview?rows=2"), &preview)
	assert.Equal(t, []string{"Time", "V1", "V2", "Amount", "Class"}, preview.Headers)
	assert.Len(t, preview.Rows, 2)

	var cols models.ColumnsResponse
	decode(t, get(t, srv, "/api/columns"), &cols)
	require.Len(t, cols.Columns, 5)
	assert.Equal(t, "label", cols.Columns[4].Type)

	var dist models.ClassDistributionResponse
	decode(t, get(t, srv, "/api/class-distribution?class=fraud"), &dist)
	assert.Equal(t, 3, dist.Classes[0].Count, "class distribution ignores the filter")
	assert.Equal(t, 2, dist.Classes[1].Count)
}

func TestFilteredEndpoints(t *testing.T) {
	srv := newTestServer(t, csvSource{body: mixedCSV}, true)

	var hist models.HistogramResponse
	decode(t, get(t, srv, "/api/amount-histogram?class=fraud"), &hist)
	assert.False(t, hist.Empty)
	require.NotNil(t, hist.Overall)
	assert.Len(t, hist.Overall.Counts, 4)
	require.Len(t, hist.ByClass.Classes, 1)
	assert.Equal(t, "Fraude", hist.ByClass.Classes[0].Name)

	var sc models.ScatterResponse
	decode(t, get(t, srv, "/api/scatter"), &sc)
	assert.Equal(t, 5, sc.Filtered)
	assert.Equal(t, 3, sc.Sampled)
	assert.Len(t, sc.Points, 3)

	var again models.ScatterResponse
	decode(t, get(t, srv, "/api/scatter"), &again)
	assert.Equal(t, sc.Points, again.Points)

	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/scatter?class=maybe").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/amount-histogram?bins=-1").Code)
}

func TestEmptyFilter(t *testing.T) {
	srv := newTestServer(t, csvSource{body: normalOnlyCSV}, true)

	var hist models.HistogramResponse
	decode(t, get(t, srv, "/api/amount-histogram?class=fraud"), &hist)
	assert.True(t, hist.Empty)
	assert.Nil(t, hist.Overall)

	for _, name := range []string{ChartAmount, ChartAmountByClass, ChartScatter} {
		rec := get(t, srv, "/charts/"+name+"?class=fraud")
		assert.Equal(t, http.StatusNoContent, rec.Code, name)
	}

	rec := get(t, srv, "/?class=fraud")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Aucune donnée pour le filtre sélectionné.")
	assert.Contains(t, body, "Impossible d&#39;afficher le nuage de points")
	assert.Contains(t, body, "Nombre total de transactions")
	assert.Contains(t, body, "Matrice de corrélation des variables")
}

func TestCorrelationEndpoints(t *testing.T) {
	srv := newTestServer(t, csvSource{body: mixedCSV}, true)

	var m analysis.CorrelationMatrix
	decode(t, get(t, srv, "/api/correlation"), &m)
	assert.Equal(t, []string{"Time", "V1", "V2", "Amount", "Class"}, m.Columns)

	var filtered analysis.CorrelationMatrix
	decode(t, get(t, srv, "/api/correlation?class=fraud"), &filtered)
	assert.Equal(t, m, filtered)

	var pair analysis.CorrelationResult
	decode(t, get(t, srv, "/api/correlation?col1=Time&col2=Time"), &pair)
	assert.Equal(t, 1.0, pair.Correlation)
	assert.Equal(t, "Strong positive", pair.Interpretation)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/correlation?col1=Time&col2=Nope").Code)

	var top models.ClassCorrelationResponse
	decode(t, get(t, srv, "/api/correlation/class?limit=2"), &top)
	assert.Equal(t, "Class", top.Target)
	assert.Len(t, top.Correlations, 2)
}

func TestChartEndpoint(t *testing.T) {
	srv := newTestServer(t, csvSource{body: mixedCSV}, true)

	for _, name := range ChartNames {
		t.Run(name, func(t *testing.T) {
			rec := get(t, srv, "/charts/"+name)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
			assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

			rec = get(t, srv, "/charts/"+name+"?format=svg&class=normal")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), "<svg")
		})
	}

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/charts/pie").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/charts/scatter?format=gif").Code)
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t, csvSource{body: mixedCSV}, true)

	rec := get(t, srv, "/?class=normal")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `<option value="normal" selected>`)
	assert.Contains(t, body, "Transactions normales (Class = 0)")
	assert.Contains(t, body, ">5<", "total transactions metric")
	assert.Contains(t, body, "40.000 %")
	assert.Equal(t, 5, strings.Count(body, `src="data:image/png;base64,`))
	assert.NotContains(t, body, `class="error"`)
}

func TestDashboardHeaderOnly(t *testing.T) {
	srv := newTestServer(t, csvSource{body: "Time,V1,V2,Amount,Class\n"}, true)

	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<div class="warning">Aucune donnée</div>`)
	assert.Contains(t, body, "Aucune donnée pour le filtre sélectionné.")
	assert.Equal(t, 2, strings.Count(body, `src="data:image/png;base64,`), "class bars and heatmap")
	assert.NotContains(t, body, `class="error"`)

	var dist models.ClassDistributionResponse
	decode(t, get(t, srv, "/api/class-distribution"), &dist)
	require.Len(t, dist.Classes, 2)
	assert.Equal(t, 0, dist.Classes[0].Count)
	assert.Equal(t, 0, dist.Classes[1].Count)
}

func TestIsolate(t *testing.T) {
	assert.Empty(t, isolate("ok", func() error { return nil }))
	assert.Contains(t, isolate("err", func() error { return errors.New("bad input") }), "bad input")
	assert.Contains(t, isolate("panic", func() error { panic("kaboom") }), "kaboom")
}
