// Package report prints dashboard figures as terminal or markdown tables.
package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"fraud-eda/internal/analysis"
)

// Format selects plain box-drawn tables or markdown tables.
type Format int

const (
	Text Format = iota
	Markdown
)

func newTable(w io.Writer, f Format, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(headers)
	if f == Markdown {
		table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
		table.SetCenterSeparator("|")
	}
	return table
}

// Summary prints the headline metrics and the per-class amount statistics.
func Summary(w io.Writer, f Format, s analysis.Summary) {
	table := newTable(w, f, "Indicateur", "Valeur")
	if !s.HasData {
		table.Append([]string{"Nombre total de transactions", "Aucune donnée"})
		table.Render()
		return
	}
	table.Append([]string{"Nombre total de transactions", analysis.FormatCount(s.Total)})
	table.Append([]string{"Nombre de fraudes", analysis.FormatCount(s.FraudCount)})
	table.Append([]string{"Pourcentage de fraudes", analysis.FormatPercent(s.FraudPct)})
	table.Append([]string{"Montant total", s.TotalAmount.StringFixed(2)})
	table.Append([]string{"Montant des fraudes", s.FraudAmount.StringFixed(2)})
	table.Render()

	if len(s.AmountStats) == 0 {
		return
	}
	fmt.Fprintln(w)
	stats := newTable(w, f, "Classe", "Nombre", "Min", "Max", "Moyenne", "Médiane")
	for _, st := range s.AmountStats {
		stats.Append([]string{
			st.Class,
			analysis.FormatCount(st.Count),
			fmt.Sprintf("%.2f", st.Min),
			fmt.Sprintf("%.2f", st.Max),
			fmt.Sprintf("%.2f", st.Mean),
			fmt.Sprintf("%.2f", st.Median),
		})
	}
	stats.Render()
}

// Preview prints the first rows of the dataset.
func Preview(w io.Writer, f Format, p analysis.PreviewTable) {
	table := newTable(w, f, p.Headers...)
	table.AppendBulk(p.Rows)
	table.Render()
}

// Correlations prints a ranked list of correlations.
func Correlations(w io.Writer, f Format, results []analysis.CorrelationResult) {
	table := newTable(w, f, "Variable", "Cible", "Corrélation", "Interprétation")
	for _, r := range results {
		table.Append([]string{r.Column2, r.Column1, fmt.Sprintf("%.4f", r.Correlation), r.Interpretation})
	}
	table.Render()
}

// Classes prints the class distribution.
func Classes(w io.Writer, f Format, counts []analysis.ClassCount) {
	table := newTable(w, f, "Classe", "Nom", "Nombre")
	for _, c := range counts {
		table.Append([]string{fmt.Sprint(c.Class), c.Name, analysis.FormatCount(c.Count)})
	}
	table.Render()
}
