package api

import (
	"bytes"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"fraud-eda/internal/analysis"
	"fraud-eda/internal/charts"
	"fraud-eda/internal/dataset"
	"fraud-eda/internal/logging"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

const (
	msgEmptyAmount  = "Aucune donnée pour le filtre sélectionné."
	msgEmptyScatter = "Impossible d'afficher le nuage de points : aucune donnée pour le filtre choisi."
	msgNoData       = "Aucune donnée"
)

type selectOption struct {
	Value    string
	Label    string
	Selected bool
}

type chartImage struct {
	Src template.URL
}

// panelState is shared by every section: Err is an isolated failure
// message, Notice an informational message shown instead of the content.
type panelState struct {
	Err    string
	Notice string
}

type summaryPanel struct {
	panelState
	HasData bool
	Total   string
	Fraud   string
	Percent string
	Preview analysis.PreviewTable
	Stats   []analysis.AmountStats
}

type chartPanel struct {
	panelState
	Charts []chartImage
}

type correlationPanel struct {
	chartPanel
	Top []analysis.CorrelationResult
}

type pageData struct {
	Options     []selectOption
	FilterLabel string
	Source      string

	Summary     summaryPanel
	Classes     chartPanel
	Amount      chartPanel
	Scatter     chartPanel
	Correlation correlationPanel
}

// Dashboard renders the whole page for the ?class= selection. Each section
// is built independently so one failing section does not take the others
// down.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	defer logging.TimeTrack(time.Now(), "dashboard")

	sel, ok := selectionParam(w, r)
	if !ok {
		return
	}
	if _, err := h.Views.Dataset(); err != nil {
		writeError(w, err)
		return
	}

	data := pageData{
		FilterLabel: sel.Label(),
		Source:      h.Provider.Describe(),
	}
	for _, s := range analysis.Selections {
		data.Options = append(data.Options, selectOption{Value: string(s), Label: s.Label(), Selected: s == sel})
	}

	data.Summary.Err = isolate("summary", func() error { return h.buildSummary(&data.Summary) })
	data.Classes.Err = isolate("classes", func() error {
		return h.addChart(&data.Classes, ChartClassDistribution, sel)
	})
	data.Amount.Err = isolate("amount", func() error { return h.buildAmount(&data.Amount, sel) })
	data.Scatter.Err = isolate("scatter", func() error { return h.buildScatter(&data.Scatter, sel) })
	data.Correlation.Err = isolate("correlation", func() error { return h.buildCorrelation(&data.Correlation) })

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		logging.Errorf("rendering dashboard: %v", err)
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// isolate runs build and turns an error or a panic into a panel message.
func isolate(name string, build func() error) (msg string) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Errorf("panel %s panicked: %v", name, rec)
			msg = fmt.Sprintf("Erreur lors de l'affichage de cette section : %v", rec)
		}
	}()
	if err := build(); err != nil {
		logging.Errorf("panel %s: %v", name, err)
		return "Erreur lors de l'affichage de cette section : " + err.Error()
	}
	return ""
}

func (h *Handler) buildSummary(p *summaryPanel) error {
	s, err := h.Views.Summary()
	if err != nil {
		return err
	}
	ds, err := h.Views.Dataset()
	if err != nil {
		return err
	}
	p.HasData = s.HasData
	if !s.HasData {
		p.Notice = msgNoData
		return nil
	}
	p.Total = analysis.FormatCount(s.Total)
	p.Fraud = analysis.FormatCount(s.FraudCount)
	p.Percent = analysis.FormatPercent(s.FraudPct)
	p.Preview = analysis.Preview(ds, h.PreviewRows)
	p.Stats = s.AmountStats
	return nil
}

func (h *Handler) buildAmount(p *chartPanel, sel analysis.Selection) error {
	view, err := h.Views.Filtered(sel)
	if err != nil {
		return err
	}
	if view.Empty() {
		p.Notice = msgEmptyAmount
		return nil
	}
	if err := h.addChart(p, ChartAmount, sel); err != nil {
		return err
	}
	return h.addChart(p, ChartAmountByClass, sel)
}

func (h *Handler) buildScatter(p *chartPanel, sel analysis.Selection) error {
	view, err := h.Views.Filtered(sel)
	if err != nil {
		return err
	}
	if view.Empty() {
		p.Notice = msgEmptyScatter
		return nil
	}
	return h.addChart(p, ChartScatter, sel)
}

func (h *Handler) buildCorrelation(p *correlationPanel) error {
	if err := h.addChart(&p.chartPanel, ChartCorrelation, analysis.SelectAll); err != nil {
		return err
	}
	m, err := h.Views.Correlation()
	if err != nil {
		return err
	}
	p.Top = analysis.TopCorrelations(m, dataset.ColClass, 5)
	return nil
}

// addChart renders a PNG chart inline as a data URI.
func (h *Handler) addChart(p *chartPanel, name string, sel analysis.Selection) error {
	var buf bytes.Buffer
	err := h.Charts.Render(&buf, name, sel, charts.PNG)
	if errors.Is(err, analysis.ErrEmptyView) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("chart %s: %w", name, err)
	}
	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	p.Charts = append(p.Charts, chartImage{Src: template.URL(src)})
	return nil
}
