package procpool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/aryankumar/parbench/internal/executor"
	"github.com/aryankumar/parbench/internal/util"
)

// Func is a type-erased work function run inside a worker process.
// Its return value must be JSON-encodable.
type Func func(ctx context.Context, id int) (any, error)

// Factory rebuilds a workload's function from its JSON parameters
type Factory func(params json.RawMessage) (Func, error)

// Registry maps workload names to factories.
// The driver and worker binaries must register the same names.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name, replacing any previous one
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Build resolves name and constructs its function from params
func (r *Registry) Build(name string, params json.RawMessage) (Func, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("workload %q: %w", name, util.ErrUnknownWorkload)
	}

	fn, err := factory(params)
	if err != nil {
		return nil, fmt.Errorf("build workload %q: %w", name, err)
	}
	return fn, nil
}

// Names lists registered workloads in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Erase adapts a typed work function to a registry Func
func Erase[T any](fn executor.WorkFunc[T]) Func {
	return func(ctx context.Context, id int) (any, error) {
		v, err := fn(ctx, id)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}
