package compiler

import (
	"fmt"
	"sort"

	"github.com/flowlattice/flowlattice/pkg/flow"
)

// Resolved is a collapsed, direct function-to-function edge: the From and
// To routes both name function ports (no flow boundary survives).
type Resolved struct {
	Name      flow.Name
	From      flow.Route
	To        flow.Route
	Transform flow.Transform
}

// maxCollapseRounds bounds the collapse fixpoint loop so a malformed
// definition (a cycle purely among flow ports, which cannot occur in a
// well-formed tree but could from a hand-built one) fails loudly instead
// of hanging.
const maxCollapseRounds = 100000

// Connect collapses every authored connection in fr into a direct
// function-to-function edge, per spec §4.3. Connections that dead-end at
// an unused flow port are silently dropped; connections whose endpoint
// names a route not present anywhere in fr.Ports are a DanglingRoute
// error.
func Connect(fr *Flattened) ([]*Resolved, error) {
	for _, c := range fr.Connections {
		if _, ok := fr.Ports.Get(c.From); !ok {
			return nil, flow.New(flow.KindDanglingRoute, c.From, "connection references unknown route")
		}
		if _, ok := fr.Ports.Get(c.To); !ok {
			return nil, flow.New(flow.KindDanglingRoute, c.To, "connection references unknown route")
		}
	}

	working := make([]*flow.Connection, len(fr.Connections))
	copy(working, fr.Connections)

	round := 0
	for {
		round++
		if round > maxCollapseRounds {
			return nil, flow.New(flow.KindIllegalCycle, "", "connection collapse did not converge (cycle among flow ports)")
		}
		changed := false
		for i := 0; i < len(working); i++ {
			c := working[i]
			if c == nil || !fr.FlowPorts[c.To] {
				continue
			}
			var outIdx []int
			for j, c2 := range working {
				if c2 != nil && c2.From == c.To {
					outIdx = append(outIdx, j)
				}
			}
			if len(outIdx) == 0 {
				working[i] = nil
				changed = true
				continue
			}
			for _, j := range outIdx {
				name := c.Name
				if name == "" {
					name = working[j].Name
				}
				working = append(working, &flow.Connection{Name: name, From: c.From, To: working[j].To})
				working[j] = nil
			}
			working[i] = nil
			changed = true
		}
		if !changed {
			break
		}
	}

	seen := map[[2]flow.Route]bool{}
	var out []*Resolved
	for _, c := range working {
		if c == nil {
			continue
		}
		if fr.FlowPorts[c.From] || fr.FlowPorts[c.To] {
			return nil, flow.New(flow.KindDanglingRoute, c.To, "connection did not fully collapse to function ports")
		}
		key := [2]flow.Route{c.From, c.To}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, &Resolved{Name: c.Name, From: c.From, To: c.To})
	}

	if err := checkCompetingInputs(fr, out); err != nil {
		return nil, err
	}
	if err := checkIllegalCycles(fr, out); err != nil {
		return nil, err
	}
	return out, nil
}

func checkCompetingInputs(fr *Flattened, resolved []*Resolved) error {
	producers := map[flow.Route][]flow.Route{}
	for _, r := range resolved {
		producers[r.To] = append(producers[r.To], r.From)
	}
	// Deterministic order for error messages and for test assertions.
	var inputs []flow.Route
	for route := range producers {
		inputs = append(inputs, route)
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i] < inputs[j] })

	for _, in := range inputs {
		froms := producers[in]
		if len(froms) < 2 {
			continue
		}
		distinct := map[flow.Route]bool{}
		for _, f := range froms {
			distinct[f] = true
		}
		if len(distinct) < 2 {
			continue
		}
		port, _ := fr.Ports.Get(in)
		depth := flow.DefaultDepth
		if port != nil {
			depth = port.EffectiveDepth()
		}
		if depth == 1 {
			sort.Slice(froms, func(i, j int) bool { return froms[i] < froms[j] })
			return flow.New(flow.KindCompetingInputs, in,
				fmt.Sprintf("input has %d competing producers: %v", len(distinct), froms))
		}
	}
	return nil
}

func checkIllegalCycles(fr *Flattened, resolved []*Resolved) error {
	adj := map[flow.Route][]*Resolved{}
	funcOf := func(portRoute flow.Route) flow.Route { return portRoute.Parent() }
	for _, r := range resolved {
		from := funcOf(r.From)
		adj[from] = append(adj[from], r)
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[flow.Route]int{}
	var stack []*Resolved

	var visit func(fnRoute flow.Route) error
	visit = func(fnRoute flow.Route) error {
		color[fnRoute] = gray
		for _, edge := range adj[fnRoute] {
			stack = append(stack, edge)
			toFn := funcOf(edge.To)
			switch color[toFn] {
			case white:
				if err := visit(toFn); err != nil {
					return err
				}
			case gray:
				if err := cycleHasInitializer(fr, stack, toFn); err != nil {
					return err
				}
			}
			stack = stack[:len(stack)-1]
		}
		color[fnRoute] = black
		return nil
	}

	var roots []flow.Route
	for _, r := range resolved {
		roots = append(roots, funcOf(r.From))
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })
	seen := map[flow.Route]bool{}
	for _, root := range roots {
		if seen[root] {
			continue
		}
		seen[root] = true
		if color[root] == white {
			if err := visit(root); err != nil {
				return err
			}
		}
	}
	return nil
}

// cycleHasInitializer walks back through stack from its tail to the point
// where closeAt (the function that closes the cycle) first appears,
// returning an IllegalCycle error unless some input port along that span
// carries an initializer.
func cycleHasInitializer(fr *Flattened, stack []*Resolved, closeAt flow.Route) error {
	start := 0
	for i, edge := range stack {
		if edge.From.Parent() == closeAt {
			start = i
			break
		}
	}
	for _, edge := range stack[start:] {
		if port, ok := fr.Ports.Get(edge.To); ok && port.HasInitializer() {
			return nil
		}
	}
	return flow.New(flow.KindIllegalCycle, stack[len(stack)-1].To, "cycle has no input initializer to break it")
}
