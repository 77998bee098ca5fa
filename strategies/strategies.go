// Package strategies registers the bundled strategy builders.
package strategies

import (
	"taengine/internal/strategy"
	"taengine/strategies/donchian"
	"taengine/strategies/rsi"
	"taengine/strategies/smacross"
)

// Register adds every bundled strategy to r.
func Register(r *strategy.Registry) error {
	builders := map[string]strategy.Builder{
		smacross.Name: smacross.Build,
		donchian.Name: donchian.Build,
		rsi.Name:      rsi.Build,
	}
	for name, b := range builders {
		if err := r.Register(name, b); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding the bundled strategies.
func NewRegistry() *strategy.Registry {
	r := strategy.NewRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
}
