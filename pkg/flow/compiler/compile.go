package compiler

import "github.com/flowlattice/flowlattice/pkg/flow"

// Options configures a Compile run.
type Options struct {
	// Strict escalates UnreachableFunction to a hard error.
	Strict bool
	// Catalog supplies sink/non-sink classification for the optimizer. A
	// nil Catalog means no function is ever treated as a sink, which
	// prunes every function that is neither RunAlways nor feeding one.
	Catalog SinkCatalog
}

// Result is everything downstream stages (the manifest emitter) need.
type Result struct {
	Flattened *Flattened
	Optimized *Optimized
}

// Compile runs the full flatten -> connect -> type-check -> optimize
// pipeline over root, per spec §4.2-§4.5.
func Compile(root flow.Node, opts Options) (*Result, error) {
	fr, err := Flatten(root)
	if err != nil {
		return nil, err
	}
	resolved, err := Connect(fr)
	if err != nil {
		return nil, err
	}
	if err := TypeCheck(fr, resolved); err != nil {
		return nil, err
	}
	opt, err := Optimize(fr, resolved, opts.Catalog, opts.Strict)
	if err != nil {
		return nil, err
	}
	return &Result{Flattened: fr, Optimized: opt}, nil
}
