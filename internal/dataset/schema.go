package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrFetch wraps every failure to obtain the raw dataset bytes.
	ErrFetch = errors.New("dataset fetch failed")
	// ErrParse wraps malformed delimited input.
	ErrParse = errors.New("dataset parse failed")
	// ErrSchema is matched by every *SchemaError.
	ErrSchema = errors.New("dataset schema mismatch")
	// ErrNotReady is returned by Provider.Dataset before a successful Load.
	ErrNotReady = errors.New("dataset not loaded")
)

// Column names required by the dashboard.
const (
	ColTime   = "Time"
	ColAmount = "Amount"
	ColClass  = "Class"
)

// Kind is the declared or detected type of a column.
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindLabel   Kind = "label"
	KindText    Kind = "text"
)

// Field declares a required column.
type Field struct {
	Name string
	Kind Kind
}

// Schema lists the columns that must be present with a given kind.
// Columns not listed are accepted and typed by inspection.
type Schema struct {
	Required []Field
}

// DefaultSchema is the transaction schema: numeric Time and Amount, binary Class.
func DefaultSchema() Schema {
	return Schema{Required: []Field{
		{Name: ColTime, Kind: KindNumeric},
		{Name: ColAmount, Kind: KindNumeric},
		{Name: ColClass, Kind: KindLabel},
	}}
}

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s.Required {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// fold matches a header against the required names ignoring case, so
// PostgreSQL's lower-cased identifiers still satisfy the schema.
func (s Schema) fold(name string) (Field, bool) {
	for _, f := range s.Required {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Field{}, false
}

// SchemaError describes a missing or mistyped column.
type SchemaError struct {
	Column  string
	Row     int // 1-based data row, 0 when not row specific
	Problem string
}

func (e *SchemaError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("column %q row %d: %s", e.Column, e.Row, e.Problem)
	}
	return fmt.Sprintf("column %q: %s", e.Column, e.Problem)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// Label is the ground-truth class of a transaction.
type Label uint8

const (
	Normal Label = 0
	Fraud  Label = 1
)

// Labels lists every label in ascending order.
var Labels = []Label{Normal, Fraud}

// String returns the display name used on charts.
func (l Label) String() string {
	if l == Fraud {
		return "Fraude"
	}
	return "Normal"
}

// ParseLabel accepts "0"/"1" and their float spellings ("1.0").
func ParseLabel(s string) (Label, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "0":
		return Normal, nil
	case "1":
		return Fraud, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a class label: %q", s)
	}
	switch f {
	case 0:
		return Normal, nil
	case 1:
		return Fraud, nil
	}
	return 0, fmt.Errorf("class label must be 0 or 1, got %q", s)
}
