package bench

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownWorkload is returned by Lookup for names that are not registered.
var ErrUnknownWorkload = errors.New("unknown workload")

// Spec describes a registered workload and how to build fresh instances.
type Spec struct {
	Name              string
	Description       string
	DefaultDataSize   int
	DefaultIterations int
	New               func() Workload
}

// Registry maps workload names to their Spec. It is populated once at
// construction and read-only afterwards.
type Registry struct {
	specs map[string]Spec
	order []string
}

// NewRegistry builds a registry from specs, keeping their order for listing.
// It returns an error for empty or duplicate names and missing constructors.
func NewRegistry(specs ...Spec) (*Registry, error) {
	r := &Registry{specs: make(map[string]Spec, len(specs))}
	for _, s := range specs {
		key := strings.ToLower(strings.TrimSpace(s.Name))
		if key == "" {
			return nil, errors.New("workload spec without a name")
		}
		if s.New == nil {
			return nil, fmt.Errorf("workload %q has no constructor", s.Name)
		}
		if _, dup := r.specs[key]; dup {
			return nil, fmt.Errorf("workload %q registered twice", s.Name)
		}
		r.specs[key] = s
		r.order = append(r.order, key)
	}
	return r, nil
}

// Lookup resolves name case-insensitively.
func (r *Registry) Lookup(name string) (Spec, error) {
	s, ok := r.specs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %s", ErrUnknownWorkload, name)
	}
	return s, nil
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Specs returns every registered Spec in registration order.
func (r *Registry) Specs() []Spec {
	out := make([]Spec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.specs[name])
	}
	return out
}
