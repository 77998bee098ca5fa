package strategy

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrDuplicate       = errors.New("strategy already registered")
)

// Params are the numeric knobs of a strategy, e.g. window lengths.
type Params map[string]float64

// Int returns the named parameter truncated to an int, or def when unset.
func (p Params) Int(name string, def int) int {
	if v, ok := p[name]; ok {
		return int(v)
	}
	return def
}

func (p Params) Float(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// Builder turns parameters into a Factory, validating them up front.
type Builder func(p Params) (Factory, error)

// Registry holds named strategy builders for lookup and enumeration.
type Registry struct {
	builders map[string]Builder
}

func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

func (r *Registry) Register(name string, b Builder) error {
	if _, ok := r.builders[name]; ok {
		return fmt.Errorf("%s: %w", name, ErrDuplicate)
	}
	r.builders[name] = b
	return nil
}

// Build looks up the named builder and applies p.
func (r *Registry) Build(name string, p Params) (Factory, error) {
	b, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownStrategy)
	}
	f, err := b(p)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	return f, nil
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
