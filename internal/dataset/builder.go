package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// builder turns string records into typed columns. Required columns are
// parsed with their declared kind and fail fast; other columns start out
// numeric and fall back to text on the first non-numeric value.
type builder struct {
	schema  Schema
	columns []Column
	fixed   []bool
	rows    int
}

func newBuilder(headers []string, schema Schema) (*builder, error) {
	b := &builder{
		schema:  schema,
		columns: make([]Column, len(headers)),
		fixed:   make([]bool, len(headers)),
	}
	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if f, ok := schema.fold(h); ok {
			h = f.Name
		}
		if h == "" {
			return nil, fmt.Errorf("%w: header %d is empty", ErrParse, i+1)
		}
		if seen[h] {
			return nil, fmt.Errorf("%w: duplicate header %q", ErrParse, h)
		}
		seen[h] = true

		kind := KindNumeric
		if f, ok := schema.field(h); ok {
			kind = f.Kind
			b.fixed[i] = true
		}
		b.columns[i] = Column{Name: h, Kind: kind}
	}
	for _, f := range schema.Required {
		if !seen[f.Name] {
			return nil, &SchemaError{Column: f.Name, Problem: "required column is missing"}
		}
	}
	return b, nil
}

func (b *builder) add(record []string) error {
	if len(record) != len(b.columns) {
		return fmt.Errorf("%w: row %d has %d fields, header has %d", ErrParse, b.rows+1, len(record), len(b.columns))
	}
	b.rows++
	for i, raw := range record {
		c := &b.columns[i]
		val := strings.TrimSpace(raw)

		switch c.Kind {
		case KindLabel:
			l, err := ParseLabel(val)
			if err != nil {
				return &SchemaError{Column: c.Name, Row: b.rows, Problem: err.Error()}
			}
			c.Numbers = append(c.Numbers, float64(l))
		case KindNumeric:
			v, err := parseNumber(val)
			if err != nil {
				if b.fixed[i] {
					return &SchemaError{Column: c.Name, Row: b.rows, Problem: fmt.Sprintf("expected a number, got %q", val)}
				}
				demoteToText(c)
				c.Text = append(c.Text, val)
				continue
			}
			if b.fixed[i] {
				if math.IsNaN(v) {
					return &SchemaError{Column: c.Name, Row: b.rows, Problem: "value is empty"}
				}
				if math.IsInf(v, 0) {
					return &SchemaError{Column: c.Name, Row: b.rows, Problem: fmt.Sprintf("value is not finite, got %q", val)}
				}
			}
			c.Numbers = append(c.Numbers, v)
		case KindText:
			c.Text = append(c.Text, val)
		}
	}
	return nil
}

func (b *builder) build(origin string) (*Dataset, error) {
	return New(b.columns, b.schema, origin)
}

// parseNumber maps an empty cell to NaN.
func parseNumber(s string) (float64, error) {
	if s == "" || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func demoteToText(c *Column) {
	c.Kind = KindText
	c.Text = make([]string, 0, cap(c.Numbers))
	for _, v := range c.Numbers {
		if math.IsNaN(v) {
			c.Text = append(c.Text, "")
			continue
		}
		c.Text = append(c.Text, strconv.FormatFloat(v, 'f', -1, 64))
	}
	c.Numbers = nil
}
