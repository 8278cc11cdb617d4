package analysis

import (
	"fmt"
	"strings"

	"fraud-eda/internal/dataset"
)

// Selection is the state of the class filter control.
type Selection string

const (
	SelectAll    Selection = "all"
	SelectNormal Selection = "normal"
	SelectFraud  Selection = "fraud"
)

// Selections lists the filter options in display order.
var Selections = []Selection{SelectAll, SelectNormal, SelectFraud}

// ParseSelection maps a query value onto a Selection. The empty string is
// SelectAll; "0" and "1" are accepted as class shortcuts.
func ParseSelection(s string) (Selection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return SelectAll, nil
	case "normal", "0":
		return SelectNormal, nil
	case "fraud", "1":
		return SelectFraud, nil
	}
	return "", fmt.Errorf("unknown class filter %q (want all, normal or fraud)", s)
}

// Label is the text shown in the selector.
func (s Selection) Label() string {
	switch s {
	case SelectNormal:
		return "Transactions normales (Class = 0)"
	case SelectFraud:
		return "Transactions frauduleuses (Class = 1)"
	}
	return "Toutes les transactions"
}

// Apply selects the rows matching the selection. SelectAll returns every
// row; an empty result is valid.
func Apply(ds *dataset.Dataset, sel Selection) dataset.View {
	if sel != SelectNormal && sel != SelectFraud {
		return dataset.All(ds)
	}
	want := dataset.Normal
	if sel == SelectFraud {
		want = dataset.Fraud
	}

	var idx []int
	for i, c := range ds.Class() {
		if c == want {
			idx = append(idx, i)
		}
	}
	return dataset.NewView(ds, idx)
}
