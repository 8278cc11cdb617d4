package state

import (
	"sync"

	"fraud-eda/internal/analysis"
	"fraud-eda/internal/dataset"
)

// DatasetSource is what Views reads the loaded dataset from.
type DatasetSource interface {
	Dataset() (*dataset.Dataset, error)
}

// Views memoizes the derived views of the loaded dataset. Filtered views
// depend on the dataset and the selection, samples on the filtered view
// only, summary and correlation on the dataset only.
type Views struct {
	src        DatasetSource
	sampleSize int
	seed       int64

	mu       sync.RWMutex
	ds       *dataset.Dataset
	filtered map[analysis.Selection]dataset.View
	sampled  map[analysis.Selection]dataset.View
	summary  *analysis.Summary
	corr     *analysis.CorrelationMatrix
}

// NewViews creates an empty memo over src.
func NewViews(src DatasetSource, sampleSize int, seed int64) *Views {
	if sampleSize <= 0 {
		sampleSize = analysis.MaxScatterPoints
	}
	return &Views{
		src:        src,
		sampleSize: sampleSize,
		seed:       seed,
		filtered:   make(map[analysis.Selection]dataset.View),
		sampled:    make(map[analysis.Selection]dataset.View),
	}
}

// Dataset returns the current dataset, dropping memoized views if it changed.
func (v *Views) Dataset() (*dataset.Dataset, error) {
	ds, err := v.src.Dataset()
	if err != nil {
		return nil, err
	}

	v.mu.RLock()
	same := v.ds == ds
	v.mu.RUnlock()
	if same {
		return ds, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.ds != ds {
		v.ds = ds
		v.filtered = make(map[analysis.Selection]dataset.View)
		v.sampled = make(map[analysis.Selection]dataset.View)
		v.summary = nil
		v.corr = nil
	}
	return ds, nil
}

// Filtered returns the rows matching sel.
func (v *Views) Filtered(sel analysis.Selection) (dataset.View, error) {
	ds, err := v.Dataset()
	if err != nil {
		return dataset.View{}, err
	}

	v.mu.RLock()
	view, ok := v.filtered[sel]
	v.mu.RUnlock()
	if ok {
		return view, nil
	}

	view = analysis.Apply(ds, sel)

	v.mu.Lock()
	defer v.mu.Unlock()
	if cached, ok := v.filtered[sel]; ok && v.ds == ds {
		return cached, nil
	}
	if v.ds == ds {
		v.filtered[sel] = view
	}
	return view, nil
}

// Sampled returns the bounded scatter sample of the filtered view for sel.
func (v *Views) Sampled(sel analysis.Selection) (dataset.View, error) {
	filtered, err := v.Filtered(sel)
	if err != nil {
		return dataset.View{}, err
	}

	v.mu.RLock()
	view, ok := v.sampled[sel]
	v.mu.RUnlock()
	if ok {
		return view, nil
	}

	view = analysis.Sample(filtered, v.sampleSize, v.seed)

	v.mu.Lock()
	defer v.mu.Unlock()
	if cached, ok := v.sampled[sel]; ok {
		return cached, nil
	}
	if v.ds == filtered.Dataset() {
		v.sampled[sel] = view
	}
	return view, nil
}

// Summary returns the headline metrics of the full dataset.
func (v *Views) Summary() (analysis.Summary, error) {
	ds, err := v.Dataset()
	if err != nil {
		return analysis.Summary{}, err
	}

	v.mu.RLock()
	s := v.summary
	v.mu.RUnlock()
	if s != nil {
		return *s, nil
	}

	computed := analysis.Summarize(ds)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.ds == ds && v.summary == nil {
		v.summary = &computed
	}
	return computed, nil
}

// Correlation returns the Pearson matrix of the full dataset. The filter
// never reaches it.
func (v *Views) Correlation() (analysis.CorrelationMatrix, error) {
	ds, err := v.Dataset()
	if err != nil {
		return analysis.CorrelationMatrix{}, err
	}

	v.mu.RLock()
	m := v.corr
	v.mu.RUnlock()
	if m != nil {
		return *m, nil
	}

	computed := analysis.Correlation(ds)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.ds == ds && v.corr == nil {
		v.corr = &computed
	}
	return computed, nil
}
