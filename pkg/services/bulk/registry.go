package bulk

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/exp/maps"
)

// Registry holds the target sources known to the application, one per target
// class. The host application registers its classes at startup; sweeps and
// the HTTP surface look them up by name.
type Registry interface {
	Register(source TargetSource) error
	Get(class string) (TargetSource, error)
	ListClasses() []string
}

type registry struct {
	mu      sync.RWMutex
	sources map[string]TargetSource
}

func NewRegistry() Registry {
	return &registry{
		sources: make(map[string]TargetSource),
	}
}

func (r *registry) Register(source TargetSource) error {
	if source == nil {
		return fmt.Errorf("source cannot be nil")
	}
	class := source.Class()
	if class == "" {
		return fmt.Errorf("source class cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[class]; exists {
		return fmt.Errorf("class %q is already registered", class)
	}

	r.sources[class] = source
	return nil
}

func (r *registry) Get(class string) (TargetSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, exists := r.sources[class]
	if !exists {
		return nil, fmt.Errorf("class %q is not registered", class)
	}
	return source, nil
}

func (r *registry) ListClasses() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	classes := maps.Keys(r.sources)
	sort.Strings(classes)
	return classes
}
