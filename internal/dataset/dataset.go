package dataset

import (
	"math"
	"strconv"
)

// Column is one named column held in columnar form. Numeric and label
// columns store their values in Numbers (NaN marks an empty cell); text
// columns store them in Text.
type Column struct {
	Name    string
	Kind    Kind
	Numbers []float64
	Text    []string
}

// Numeric reports whether the column takes part in numeric statistics.
func (c *Column) Numeric() bool {
	return c.Kind == KindNumeric || c.Kind == KindLabel
}

// Format renders the cell at row i the way the preview shows it.
func (c *Column) Format(i int) string {
	if c.Kind == KindText {
		return c.Text[i]
	}
	v := c.Numbers[i]
	if math.IsNaN(v) {
		return ""
	}
	if c.Kind == KindLabel {
		return strconv.Itoa(int(v))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Dataset is the immutable in-memory transaction table. Callers must not
// modify the slices it returns.
type Dataset struct {
	columns []Column
	index   map[string]int
	rows    int

	time   []float64
	amount []float64
	class  []Label

	origin string
}

// New assembles a Dataset from columns of equal length and validates them
// against the schema.
func New(columns []Column, schema Schema, origin string) (*Dataset, error) {
	ds := &Dataset{
		columns: columns,
		index:   make(map[string]int, len(columns)),
		origin:  origin,
	}
	for i, c := range columns {
		ds.index[c.Name] = i
	}
	if len(columns) > 0 {
		ds.rows = columnLen(&columns[0])
	}
	for _, c := range columns {
		if n := columnLen(&c); n != ds.rows {
			return nil, &SchemaError{Column: c.Name, Problem: "column length differs from the first column"}
		}
	}

	for _, f := range schema.Required {
		i, ok := ds.index[f.Name]
		if !ok {
			return nil, &SchemaError{Column: f.Name, Problem: "required column is missing"}
		}
		c := &ds.columns[i]
		if c.Kind != f.Kind {
			return nil, &SchemaError{Column: f.Name, Problem: "expected " + string(f.Kind) + " values, found " + string(c.Kind)}
		}
	}

	if c, ok := ds.Column(ColTime); ok && c.Numeric() {
		ds.time = c.Numbers
	}
	if c, ok := ds.Column(ColAmount); ok && c.Numeric() {
		ds.amount = c.Numbers
	}
	if c, ok := ds.Column(ColClass); ok && c.Kind == KindLabel {
		ds.class = make([]Label, ds.rows)
		for i, v := range c.Numbers {
			ds.class[i] = Label(v)
		}
	}
	return ds, nil
}

func columnLen(c *Column) int {
	if c.Kind == KindText {
		return len(c.Text)
	}
	return len(c.Numbers)
}

// Len returns the row count.
func (d *Dataset) Len() int { return d.rows }

// Origin describes where the data came from (file path or table).
func (d *Dataset) Origin() string { return d.origin }

// Headers returns the column names in file order.
func (d *Dataset) Headers() []string {
	out := make([]string, len(d.columns))
	for i, c := range d.columns {
		out[i] = c.Name
	}
	return out
}

// Columns returns every column in file order.
func (d *Dataset) Columns() []*Column {
	out := make([]*Column, len(d.columns))
	for i := range d.columns {
		out[i] = &d.columns[i]
	}
	return out
}

// Column looks a column up by name.
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return &d.columns[i], true
}

// NumericColumns returns numeric and label columns in file order.
func (d *Dataset) NumericColumns() []*Column {
	var out []*Column
	for i := range d.columns {
		if d.columns[i].Numeric() {
			out = append(out, &d.columns[i])
		}
	}
	return out
}

// Time returns the Time column.
func (d *Dataset) Time() []float64 { return d.time }

// Amount returns the Amount column.
func (d *Dataset) Amount() []float64 { return d.amount }

// Class returns the label of every row.
func (d *Dataset) Class() []Label { return d.class }

// Row formats row i in header order.
func (d *Dataset) Row(i int) []string {
	out := make([]string, len(d.columns))
	for j := range d.columns {
		out[j] = d.columns[j].Format(i)
	}
	return out
}
