package dataset

// View is a read-only row subset of a Dataset, kept as ascending row indices.
type View struct {
	ds  *Dataset
	idx []int
}

// NewView wraps the given row indices. The slice is owned by the view.
func NewView(ds *Dataset, idx []int) View {
	return View{ds: ds, idx: idx}
}

// All returns the identity view over every row.
func All(ds *Dataset) View {
	idx := make([]int, ds.Len())
	for i := range idx {
		idx[i] = i
	}
	return View{ds: ds, idx: idx}
}

// Dataset returns the table the view selects from.
func (v View) Dataset() *Dataset { return v.ds }

// Len returns the number of selected rows.
func (v View) Len() int { return len(v.idx) }

// Empty reports whether the view selects nothing.
func (v View) Empty() bool { return len(v.idx) == 0 }

// Index returns the dataset row of the i-th selected row.
func (v View) Index(i int) int { return v.idx[i] }

// Indices returns a copy of the selected dataset rows.
func (v View) Indices() []int {
	out := make([]int, len(v.idx))
	copy(out, v.idx)
	return out
}

// Amounts gathers the Amount of every selected row.
func (v View) Amounts() []float64 { return v.gather(v.ds.amount) }

// Times gathers the Time of every selected row.
func (v View) Times() []float64 { return v.gather(v.ds.time) }

// Classes gathers the label of every selected row.
func (v View) Classes() []Label {
	out := make([]Label, len(v.idx))
	for i, r := range v.idx {
		out[i] = v.ds.class[r]
	}
	return out
}

func (v View) gather(col []float64) []float64 {
	out := make([]float64, len(v.idx))
	for i, r := range v.idx {
		out[i] = col[r]
	}
	return out
}
