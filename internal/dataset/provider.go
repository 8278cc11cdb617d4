package dataset

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// State is the lifecycle of a Provider.
type State int32

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "uninitialized"
}

// Provider loads a Source once per process and hands out the same Dataset
// afterwards. Concurrent callers wait for the single in-flight load. A failed
// load is remembered and returned to every later caller.
type Provider struct {
	src Source

	mu    sync.Mutex
	state atomic.Int32
	ds    *Dataset
	err   error
}

func NewProvider(src Source) *Provider {
	return &Provider{src: src}
}

// Load returns the dataset, loading it on the first call.
func (p *Provider) Load(ctx context.Context) (*Dataset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch State(p.state.Load()) {
	case StateReady:
		return p.ds, nil
	case StateFailed:
		return nil, p.err
	}

	p.state.Store(int32(StateLoading))
	ds, err := p.src.Load(ctx)
	if err != nil {
		p.err = fmt.Errorf("loading %s: %w", p.src.Describe(), err)
		p.state.Store(int32(StateFailed))
		return nil, p.err
	}
	p.ds = ds
	p.state.Store(int32(StateReady))
	return ds, nil
}

// Dataset returns the loaded dataset without triggering a load.
func (p *Provider) Dataset() (*Dataset, error) {
	switch State(p.state.Load()) {
	case StateReady:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.ds, nil
	case StateFailed:
		p.mu.Lock()
		defer p.mu.Unlock()
		return nil, p.err
	}
	return nil, ErrNotReady
}

// State reports the lifecycle state without blocking on an in-flight load.
func (p *Provider) State() State { return State(p.state.Load()) }

// Describe names the underlying source.
func (p *Provider) Describe() string { return p.src.Describe() }
