// Package compiler flattens a flow.Node tree, collapses multi-hop
// connections into direct function edges, type-checks every edge, and
// prunes unreachable nodes, per spec §4.2-§4.5. The result feeds
// manifest.FromCompiled.
package compiler

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/flowlattice/flowlattice/pkg/flow"
)

// Flattened is the output of Flatten: every function and port now carries
// an absolute Route, and every authored connection has been rewritten to
// use those routes. Ports is an ordered index over every port (function
// and flow alike) so the connector and type checker can resolve either
// endpoint of a connection; iteration order over Ports and Functions is
// insertion (depth-first) order, which the idempotent-manifest property
// (spec §8.6) depends on.
type Flattened struct {
	Functions   []*flow.Function
	Connections []*flow.Connection
	Ports       *orderedmap.OrderedMap[flow.Route, *flow.Port]
	FlowPorts   map[flow.Route]bool // routes belonging to a flow (not a function)
}

// Flatten walks root depth-first, assigning a Route to every function and
// port, collecting a flat function list and a flat (still multi-hop)
// connection list with every endpoint rewritten to an absolute route.
func Flatten(root flow.Node) (*Flattened, error) {
	fr := &Flattened{
		Ports:     orderedmap.New[flow.Route, *flow.Port](),
		FlowPorts: map[flow.Route]bool{},
	}
	switch v := root.(type) {
	case *flow.Function:
		v.Route = flow.Route("").Join(string(v.Name))
		assignPorts(v.Route, v.Inputs, fr, false)
		assignPorts(v.Route, v.Outputs, fr, false)
		fr.Functions = append(fr.Functions, v)
	case *flow.Flow:
		v.Route = flow.Route("").Join(string(v.Name))
		if err := walkFlow(v, fr); err != nil {
			return nil, err
		}
	default:
		return nil, flow.New(flow.KindValidationError, "", "root must be a Flow or Function")
	}
	return fr, nil
}

func assignPorts(owner flow.Route, ports []*flow.Port, fr *Flattened, isFlowPort bool) {
	for _, p := range ports {
		p.Route = owner.Join(string(p.Name))
		fr.Ports.Set(p.Route, p)
		if isFlowPort {
			fr.FlowPorts[p.Route] = true
		}
	}
}

func walkFlow(f *flow.Flow, fr *Flattened) error {
	assignPorts(f.Route, f.Inputs, fr, true)
	assignPorts(f.Route, f.Outputs, fr, true)

	for _, fn := range f.Functions {
		fn.Route = f.Route.Join(string(fn.Name))
		assignPorts(fn.Route, fn.Inputs, fr, false)
		assignPorts(fn.Route, fn.Outputs, fr, false)
		fr.Functions = append(fr.Functions, fn)
	}
	for _, child := range f.Flows {
		child.Route = f.Route.Join(string(child.Name))
		if err := walkFlow(child, fr); err != nil {
			return err
		}
	}
	for _, c := range f.Connections {
		fr.Connections = append(fr.Connections, &flow.Connection{
			Name: c.Name,
			From: f.Route.Join(string(c.From)),
			To:   f.Route.Join(string(c.To)),
		})
	}
	return nil
}
