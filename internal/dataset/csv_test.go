package dataset

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `"Time","V1","V2","Amount","Class"
0,-1.3598,-0.0727,149.62,"0"
0,1.1918,0.2661,2.69,"0"
1,-1.3583,-1.3401,378.66,"1"
`

func TestParseCSV(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader(sampleCSV), DefaultSchema(), "sample")
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"Time", "V1", "V2", "Amount", "Class"}, ds.Headers())
	assert.Equal(t, []float64{149.62, 2.69, 378.66}, ds.Amount())
	assert.Equal(t, []float64{0, 0, 1}, ds.Time())
	assert.Equal(t, []Label{Normal, Normal, Fraud}, ds.Class())
	assert.Equal(t, "sample", ds.Origin())

	v1, ok := ds.Column("V1")
	require.True(t, ok)
	assert.Equal(t, KindNumeric, v1.Kind)
	assert.Len(t, ds.NumericColumns(), 5)

	assert.Equal(t, []string{"1", "-1.3583", "-1.3401", "378.66", "1"}, ds.Row(2))
}

func TestParseCSVVariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		check   func(t *testing.T, ds *Dataset)
	}{
		{
			name:  "semicolon delimiter",
			input: "Time;Amount;Class\n0;1.5;0\n2;3;1\n",
			check: func(t *testing.T, ds *Dataset) {
				assert.Equal(t, 2, ds.Len())
				assert.Equal(t, []float64{1.5, 3}, ds.Amount())
			},
		},
		{
			name:  "header only",
			input: "Time,Amount,Class\n",
			check: func(t *testing.T, ds *Dataset) {
				assert.Equal(t, 0, ds.Len())
			},
		},
		{
			name:  "lower case required headers",
			input: "time,amount,class\n0,1,0\n",
			check: func(t *testing.T, ds *Dataset) {
				assert.Equal(t, []string{"Time", "Amount", "Class"}, ds.Headers())
			},
		},
		{
			name:  "text column is detected",
			input: "Time,Amount,Merchant,Class\n0,1,12,0\n1,2,shop,1\n",
			check: func(t *testing.T, ds *Dataset) {
				c, ok := ds.Column("Merchant")
				require.True(t, ok)
				assert.Equal(t, KindText, c.Kind)
				assert.Equal(t, []string{"12", "shop"}, c.Text)
				assert.Len(t, ds.NumericColumns(), 3)
			},
		},
		{
			name:  "empty feature cell is NaN",
			input: "Time,V1,Amount,Class\n0,,1,0\n1,2,2,1\n",
			check: func(t *testing.T, ds *Dataset) {
				c, _ := ds.Column("V1")
				assert.True(t, math.IsNaN(c.Numbers[0]))
				assert.Equal(t, "", c.Format(0))
			},
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrParse,
		},
		{
			name:    "missing class column",
			input:   "Time,Amount\n0,1\n",
			wantErr: ErrSchema,
		},
		{
			name:    "class out of range",
			input:   "Time,Amount,Class\n0,1,2\n",
			wantErr: ErrSchema,
		},
		{
			name:    "non numeric amount",
			input:   "Time,Amount,Class\n0,abc,0\n",
			wantErr: ErrSchema,
		},
		{
			name:    "infinite amount",
			input:   "Time,V1,Amount,Class\n0,1,5,0\n1,2,inf,1\n2,3,7,0\n",
			wantErr: ErrSchema,
		},
		{
			name:    "infinite time",
			input:   "Time,Amount,Class\n-Infinity,1,0\n",
			wantErr: ErrSchema,
		},
		{
			name:    "empty time",
			input:   "Time,Amount,Class\n,1,0\n",
			wantErr: ErrSchema,
		},
		{
			name:    "ragged row",
			input:   "Time,Amount,Class\n0,1,0,9\n",
			wantErr: ErrParse,
		},
		{
			name:    "duplicate header",
			input:   "Time,Amount,Amount,Class\n0,1,1,0\n",
			wantErr: ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := ParseCSV(strings.NewReader(tt.input), DefaultSchema(), tt.name)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			tt.check(t, ds)
		})
	}
}

func TestSchemaErrorDetails(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("Time,Amount,Class\n0,1,0\n1,2,x\n"), DefaultSchema(), "t")
	var serr *SchemaError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, ColClass, serr.Column)
	assert.Equal(t, 2, serr.Row)
	assert.Contains(t, serr.Error(), `row 2`)
}

func TestNonFiniteRejected(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("Time,Amount,Class\n0,1,0\n1,+Inf,1\n"), DefaultSchema(), "t")
	var serr *SchemaError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, ColAmount, serr.Column)
	assert.Equal(t, 2, serr.Row)
	assert.Contains(t, serr.Error(), "not finite")
}

func TestParseLabel(t *testing.T) {
	for in, want := range map[string]Label{"0": Normal, "1": Fraud, " 1 ": Fraud, "1.0": Fraud, "0.0": Normal} {
		got, err := ParseLabel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "2", "-1", "yes", "0.5"} {
		_, err := ParseLabel(in)
		assert.Error(t, err, in)
	}
	assert.Equal(t, "Normal", Normal.String())
	assert.Equal(t, "Fraude", Fraud.String())
}

func TestViewGathers(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader(sampleCSV), DefaultSchema(), "sample")
	require.NoError(t, err)

	v := NewView(ds, []int{0, 2})
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, []float64{149.62, 378.66}, v.Amounts())
	assert.Equal(t, []float64{0, 1}, v.Times())
	assert.Equal(t, []Label{Normal, Fraud}, v.Classes())

	idx := v.Indices()
	idx[0] = 99
	assert.Equal(t, 0, v.Index(0), "Indices must return a copy")

	all := All(ds)
	assert.Equal(t, ds.Len(), all.Len())
	assert.False(t, all.Empty())
	assert.True(t, NewView(ds, nil).Empty())
}
