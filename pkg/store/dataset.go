package store

import (
	"fmt"
	"log"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
)

// Dataset is one fully loaded district: its edge, adjacency and shortcut
// tables, snapshotted in memory for the lifetime of a load. Queries read
// a Dataset without locking it themselves — callers borrow it from a
// Registry, which holds the lock for the duration.
type Dataset struct {
	Name   string
	RunID  uuid.UUID
	Edges  *EdgeTable
	Adj    *AdjacencyTable
	Shorts *ShortcutTable
}

// NumEdges reports the dense edge-id space size of the dataset.
func (d *Dataset) NumEdges() int {
	return d.Edges.Len()
}

// LoadDataset reads a dataset's binary store from path and wraps it with
// a freshly generated run id.
func LoadDataset(name, path string) (*Dataset, error) {
	edges, adj, shorts, err := ReadBinary(path)
	if err != nil {
		return nil, fmt.Errorf("load dataset %q: %w", name, err)
	}
	return &Dataset{
		Name:   name,
		RunID:  uuid.New(),
		Edges:  edges,
		Adj:    adj,
		Shorts: shorts,
	}, nil
}

// Registry is the process-wide, in-memory dataset directory described in
// the concurrency model: dataset load/unload is mutually exclusive with
// queries running against that same dataset, via one RWMutex per entry.
// Multiple datasets may be loaded, queried, and unloaded independently of
// one another.
type Registry struct {
	mu       sync.RWMutex
	datasets map[string]*entry
}

type entry struct {
	mu sync.RWMutex
	ds *Dataset
}

// NewRegistry returns an empty dataset registry.
func NewRegistry() *Registry {
	return &Registry{datasets: make(map[string]*entry)}
}

// Load reads the dataset at path and installs it under name, replacing
// any dataset already loaded under that name. Blocks until any in-flight
// queries against a prior dataset of the same name complete.
func (r *Registry) Load(name, path string) error {
	r.mu.Lock()
	e, ok := r.datasets[name]
	if !ok {
		e = &entry{}
		r.datasets[name] = e
	}
	r.mu.Unlock()

	log.Printf("loading dataset %q from %s...", name, path)
	ds, err := LoadDataset(name, path)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.ds = ds
	e.mu.Unlock()

	// Loading a large dataset allocates and discards sizeable temporaries
	// (binary read buffers, sort scratch for the shortcut indexes); reclaim
	// that before reporting ready, same as the teacher does after building
	// its spatial index.
	runtime.GC()
	debug.FreeOSMemory()

	log.Printf("dataset %q ready: %d edges, %d shortcuts, run %s",
		name, ds.NumEdges(), ds.Shorts.Len(), ds.RunID)
	return nil
}

// Unload removes the dataset registered under name. Blocks until any
// in-flight queries against it complete.
func (r *Registry) Unload(name string) error {
	r.mu.Lock()
	e, ok := r.datasets[name]
	if ok {
		delete(r.datasets, name)
	}
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("unload dataset %q: not loaded", name)
	}

	e.mu.Lock()
	e.ds = nil
	e.mu.Unlock()
	return nil
}

// With runs fn against the dataset registered under name, holding a read
// lock on it for the duration of fn — the same lock Load/Unload take
// exclusively, so a query never observes a half-swapped dataset.
func (r *Registry) With(name string, fn func(*Dataset) error) error {
	r.mu.RLock()
	e, ok := r.datasets[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("dataset %q: not loaded", name)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.ds == nil {
		return fmt.Errorf("dataset %q: not loaded", name)
	}
	return fn(e.ds)
}

// Names returns the currently loaded dataset names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.datasets))
	for n := range r.datasets {
		names = append(names, n)
	}
	return names
}
