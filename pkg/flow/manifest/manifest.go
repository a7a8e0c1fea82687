// Package manifest defines the flat, serializable, executable form of a
// compiled flow (spec §4.6): the boundary between the compiler and the
// runtime. A Manifest is produced once by FromCompiled and is immutable
// and freely shared thereafter.
package manifest

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/flowlattice/flowlattice/pkg/flow"
	"github.com/flowlattice/flowlattice/pkg/flow/compiler"
)

// Destination is one edge leaving a function's output, in manifest form:
// a function id + input index the runtime pushes values into directly,
// with any edge transform already resolved.
type Destination struct {
	SourceOutputSubroute string `json:"source_output_subroute"`
	ToFunctionID         int    `json:"to_function_id"`
	ToInputIndex         int    `json:"to_input_index"`
	Transform            string `json:"transform"` // "none" | "wrap" | "unwrap"
}

// FunctionEntry is one function's manifest row. IDs are positional: a
// function's ID equals its index in Manifest.Functions.
type FunctionEntry struct {
	ID                    int                        `json:"id"`
	Route                 string                     `json:"route"`
	ImplementationLocator string                     `json:"implementation_locator"`
	InputDepths           []int                      `json:"input_depths,omitempty"`
	InitialValues         map[string]json.RawMessage `json:"initial_values,omitempty"` // keyed by input index
	Destinations          []Destination              `json:"destinations,omitempty"`
}

// Manifest is the flat, serialized, executable form of a compiled flow.
type Manifest struct {
	Metadata  flow.Metadata    `json:"metadata"`
	Libraries []flow.LibraryRef `json:"libraries,omitempty"`
	Functions []FunctionEntry  `json:"functions"`
}

// FromCompiled builds a Manifest from a compiler.Result, assigning dense
// [0..N) ids in the optimizer's surviving function order.
func FromCompiled(res *compiler.Result, meta flow.Metadata, libs []flow.LibraryRef) (*Manifest, error) {
	funcs := res.Optimized.Functions
	id := make(map[flow.Route]int, len(funcs))
	for i, fn := range funcs {
		id[fn.Route] = i
	}

	entries := make([]FunctionEntry, len(funcs))
	for i, fn := range funcs {
		entry := FunctionEntry{
			ID:                    i,
			Route:                 string(fn.Route),
			ImplementationLocator: fn.Implementation,
		}
		for _, in := range fn.Inputs {
			entry.InputDepths = append(entry.InputDepths, in.EffectiveDepth())
			if in.HasInitializer() {
				if entry.InitialValues == nil {
					entry.InitialValues = map[string]json.RawMessage{}
				}
				entry.InitialValues[strconv.Itoa(inputIndex(fn, in.Route))] = in.Initializer
			}
		}
		entries[i] = entry
	}

	for _, r := range res.Optimized.Resolved {
		fromFn, fromIdx := id[r.From.Parent()], -1
		toFn, ok := id[r.To.Parent()]
		if !ok {
			return nil, flow.New(flow.KindDanglingRoute, r.To, "destination function not in manifest")
		}
		srcFn := findFunction(funcs, r.From.Parent())
		fromIdx = inputIndexInOutputs(srcFn, r.From)
		dstFn := findFunction(funcs, r.To.Parent())
		toInputIdx := inputIndex(dstFn, r.To)

		dest := Destination{
			SourceOutputSubroute: outputSubroute(srcFn, fromIdx),
			ToFunctionID:         toFn,
			ToInputIndex:         toInputIdx,
			Transform:            r.Transform.String(),
		}
		entries[fromFn].Destinations = append(entries[fromFn].Destinations, dest)
	}

	return &Manifest{Metadata: meta, Libraries: libs, Functions: entries}, nil
}

func findFunction(funcs []*flow.Function, route flow.Route) *flow.Function {
	for _, fn := range funcs {
		if fn.Route == route {
			return fn
		}
	}
	return nil
}

func inputIndex(fn *flow.Function, route flow.Route) int {
	for i, p := range fn.Inputs {
		if p.Route == route {
			return i
		}
	}
	return -1
}

func inputIndexInOutputs(fn *flow.Function, route flow.Route) int {
	for i, p := range fn.Outputs {
		if p.Route == route {
			return i
		}
	}
	return -1
}

func outputSubroute(fn *flow.Function, idx int) string {
	if fn == nil || idx < 0 || idx >= len(fn.Outputs) {
		return ""
	}
	return string(fn.Outputs[idx].Name)
}

// Validate checks the structural invariants spec §4.6 requires: ids are
// dense [0..N), every destination id is in range, and (if resolver is
// non-nil) every implementation locator resolves. The Libraries entries
// are not checked.
func (m *Manifest) Validate(resolver ImplementationResolver) error {
	n := len(m.Functions)
	for i, fn := range m.Functions {
		if fn.ID != i {
			return fmt.Errorf("manifest function at index %d has non-dense id %d", i, fn.ID)
		}
		for _, d := range fn.Destinations {
			if d.ToFunctionID < 0 || d.ToFunctionID >= n {
				return fmt.Errorf("function %d: destination id %d out of range [0,%d)", i, d.ToFunctionID, n)
			}
			if d.ToInputIndex < 0 || d.ToInputIndex >= len(m.Functions[d.ToFunctionID].InputDepths) {
				return fmt.Errorf("function %d: destination input index %d out of range for function %d",
					i, d.ToInputIndex, d.ToFunctionID)
			}
		}
		if resolver != nil {
			if !resolver.Resolvable(fn.ImplementationLocator) {
				return flow.New(flow.KindMissingImpl, flow.Route(fn.Route),
					fmt.Sprintf("no implementation for %s", fn.ImplementationLocator))
			}
		}
	}
	return nil
}

// ImplementationResolver reports whether a locator can be looked up,
// either in a natively linked library table or via a Wasm loader (spec
// §4.6). The runtime's library catalog implements this.
type ImplementationResolver interface {
	Resolvable(locator string) bool
}
