package suggest

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownProvider is returned by Get for a name that was never registered.
var ErrUnknownProvider = errors.New("unknown suggestion provider")

// Registry holds the configured providers by name.
type Registry struct {
	providers map[string]Provider
	def       string
}

// NewRegistry builds a registry. The rules provider is always registered.
// def names the provider used when a caller does not pick one.
func NewRegistry(def string, providers ...Provider) (*Registry, error) {
	r := &Registry{providers: map[string]Provider{RulesName: NewRules()}}
	for _, p := range providers {
		if p == nil {
			continue
		}
		r.providers[p.Name()] = p
	}

	if def == "" {
		def = RulesName
	}
	if _, ok := r.providers[def]; !ok {
		return nil, fmt.Errorf("unknown default suggestion provider %q (available: %v)", def, r.Names())
	}
	r.def = def
	return r, nil
}

// Get returns the named provider, or the default when name is empty.
func (r *Registry) Get(name string) (Provider, error) {
	if name == "" {
		name = r.def
	}
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownProvider, name, r.Names())
	}
	return p, nil
}

// Default returns the default provider.
func (r *Registry) Default() Provider {
	return r.providers[r.def]
}

// Names lists registered providers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
