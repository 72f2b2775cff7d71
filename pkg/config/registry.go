package config

import (
	"fmt"
	"sync"

	"github.com/conveyor-go/conveyor/pkg/pipeline/stage"
)

// Registry maps stage names to transforms. Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	transforms map[string]stage.Transform
}

// NewRegistry returns an empty transform registry.
func NewRegistry() *Registry {
	return &Registry{transforms: make(map[string]stage.Transform)}
}

// Register adds a transform under the given name. Overwrites any existing
// registration.
func (r *Registry) Register(name string, fn stage.Transform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.transforms == nil {
		r.transforms = make(map[string]stage.Transform)
	}
	r.transforms[name] = fn
}

// Get returns the transform for name, or nil and false if not found.
func (r *Registry) Get(name string) (stage.Transform, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.transforms[name]
	return fn, ok
}

// MustGet returns the transform for name, or panics if not found.
func (r *Registry) MustGet(name string) stage.Transform {
	fn, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("config: transform %q not registered", name))
	}
	return fn
}

// Names returns all registered transform names (unordered).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.transforms))
	for n := range r.transforms {
		names = append(names, n)
	}
	return names
}
