// Package library is the native implementation catalog: a locator ->
// runtime.Implementation table the Coordinator resolves dispatch through
// and the manifest validator resolves locators against (spec §4.6, §4.10).
// A Wasm-backed catalog (resolving the Locator.Wasm half left unused here)
// is a natural sibling package; this one only serves Locator.Native keys.
package library

import (
	"strings"
	"sync"

	cachelib "github.com/flowlattice/flowlattice/pkg/flow/library/cache"
	"github.com/flowlattice/flowlattice/pkg/flow/library/context"
	"github.com/flowlattice/flowlattice/pkg/flow/library/control"
	"github.com/flowlattice/flowlattice/pkg/flow/runtime"
)

// Table is a locator -> Implementation map, safe for concurrent lookup
// (lookups happen from worker goroutines during dispatch) but assembled
// once before a run starts.
type Table struct {
	mu    sync.RWMutex
	funcs map[string]runtime.Implementation
}

// New builds an empty Table.
func New() *Table {
	return &Table{funcs: make(map[string]runtime.Implementation)}
}

// Register adds or replaces the Implementation for locator.
func (t *Table) Register(locator string, impl runtime.Implementation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.funcs[locator] = impl
}

// Lookup implements runtime.Library.
func (t *Table) Lookup(locator string) (runtime.Implementation, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	impl, ok := t.funcs[locator]
	return impl, ok
}

// Resolvable implements manifest.ImplementationResolver.
func (t *Table) Resolvable(locator string) bool {
	_, ok := t.Lookup(locator)
	return ok
}

// IsSink implements compiler.SinkCatalog: every "lib://context/*"
// implementation is a sink — its value is a side effect (printed,
// written, sent), so the optimizer must keep it live even with no
// downstream consumer.
func (t *Table) IsSink(implementation string) bool {
	return strings.HasPrefix(implementation, "lib://context/")
}

// WithControl registers the pure "lib://control/*" functions and
// "lib://fmt/reverse".
func (t *Table) WithControl() *Table {
	t.Register("lib://control/add", control.Add)
	t.Register("lib://control/multiply", control.Multiply)
	t.Register("lib://control/compare", control.Compare)
	t.Register("lib://control/tap", control.Tap)
	t.Register("lib://control/fib_step", control.FibStep)
	t.Register("lib://fmt/reverse", control.Reverse)
	return t
}

// WithContext registers the "lib://context/*" side-effecting functions
// against ctx's shared streams and arguments.
func (t *Table) WithContext(ctx *context.Context) *Table {
	t.Register("lib://context/stdout", ctx.Stdout_())
	t.Register("lib://context/stderr", ctx.Stderr_())
	t.Register("lib://context/stdin", ctx.Stdin_())
	t.Register("lib://context/args", ctx.Args_())
	return t
}

// WithCache registers "lib://cache/get" and "lib://cache/set" against
// store.
func (t *Table) WithCache(store cachelib.Store) *Table {
	fn := &cachelib.Functions{Store: store}
	t.Register("lib://cache/get", fn.Get())
	t.Register("lib://cache/set", fn.Set())
	return t
}
