package compiler

import (
	"context"
	"fmt"
	"sort"

	"github.com/flowlattice/flowlattice/pkg/flow"
)

// SinkCatalog tells the optimizer which implementations are side-effecting
// "sinks" — functions the optimizer must never prune even though their
// output (if any) drives nothing downstream. The library catalog (see
// pkg/flow/library) is the reference implementation.
type SinkCatalog interface {
	IsSink(implementation string) bool
}

// Optimized is the pruned, densely-renumbered result ready for manifest
// emission.
type Optimized struct {
	Functions []*flow.Function
	Resolved  []*Resolved
	// Unreachable lists functions the optimizer dropped, for --strict
	// reporting as warnings or (under strict mode) as a hard error.
	Unreachable []flow.Route
}

// Optimize computes the reachable set (every function whose output
// eventually reaches a sink, plus every RunAlways function), prunes
// everything else, and validates that every surviving input has either an
// initializer or an inbound connection.
//
// strict escalates UnreachableFunction from a warning (each dropped route
// is logged at warn level and listed in Unreachable) to a hard compile
// error, per spec §7.
func Optimize(fr *Flattened, resolved []*Resolved, catalog SinkCatalog, strict bool) (*Optimized, error) {
	reachable := map[flow.Route]bool{}
	var seeds []flow.Route
	for _, fn := range fr.Functions {
		if fn.RunAlways || isSinkFunction(fn, catalog) {
			seeds = append(seeds, fn.Route)
			reachable[fn.Route] = true
		}
	}

	// Reverse adjacency: consumer function -> list of producer functions.
	producers := map[flow.Route][]flow.Route{}
	for _, r := range resolved {
		from, to := r.From.Parent(), r.To.Parent()
		producers[to] = append(producers[to], from)
	}

	queue := append([]flow.Route{}, seeds...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, p := range producers[cur] {
			if !reachable[p] {
				reachable[p] = true
				queue = append(queue, p)
			}
		}
	}

	var kept []*flow.Function
	var dropped []flow.Route
	for _, fn := range fr.Functions {
		if reachable[fn.Route] {
			kept = append(kept, fn)
		} else {
			dropped = append(dropped, fn.Route)
		}
	}
	sort.Slice(dropped, func(i, j int) bool { return dropped[i] < dropped[j] })

	if len(dropped) > 0 && strict {
		return nil, flow.New(flow.KindUnreachableFunc, dropped[0],
			fmt.Sprintf("%d unreachable function(s), e.g. %s", len(dropped), dropped[0]))
	}
	for _, r := range dropped {
		flow.LogWarn(context.Background(), "unreachable function dropped", "route", string(r))
	}

	var keptResolved []*Resolved
	for _, r := range resolved {
		if reachable[r.From.Parent()] && reachable[r.To.Parent()] {
			keptResolved = append(keptResolved, r)
		}
	}

	fed := map[flow.Route]bool{}
	for _, r := range keptResolved {
		fed[r.To] = true
	}
	for _, fn := range kept {
		for _, in := range fn.Inputs {
			if in.HasInitializer() || fed[in.Route] {
				continue
			}
			return nil, flow.New(flow.KindValidationError, in.Route,
				"input has no initializer and no inbound connection")
		}
	}

	producing := map[flow.Route]bool{}
	for _, r := range keptResolved {
		producing[r.From] = true
	}
	for _, fn := range kept {
		var liveOutputs []*flow.Port
		for _, out := range fn.Outputs {
			if producing[out.Route] {
				liveOutputs = append(liveOutputs, out)
			}
		}
		fn.Outputs = liveOutputs
	}

	return &Optimized{Functions: kept, Resolved: keptResolved, Unreachable: dropped}, nil
}

func isSinkFunction(fn *flow.Function, catalog SinkCatalog) bool {
	if catalog == nil {
		return false
	}
	return catalog.IsSink(fn.Implementation)
}
