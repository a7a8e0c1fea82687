package compiler

import (
	"fmt"

	"github.com/flowlattice/flowlattice/pkg/flow"
)

// TypeCheck verifies every resolved connection's producer type is
// assignable to its consumer type, tagging the connection with the edge
// transform (wrap/unwrap) Assignable determined, per spec §4.4.
func TypeCheck(fr *Flattened, resolved []*Resolved) error {
	for _, r := range resolved {
		fromPort, ok := fr.Ports.Get(r.From)
		if !ok {
			return flow.New(flow.KindDanglingRoute, r.From, "unknown output route")
		}
		toPort, ok := fr.Ports.Get(r.To)
		if !ok {
			return flow.New(flow.KindDanglingRoute, r.To, "unknown input route")
		}
		ok2, transform := flow.Assignable(fromPort.Type, toPort.Type)
		if !ok2 {
			return flow.New(flow.KindTypeMismatch, r.To, fmt.Sprintf(
				"%s (%s) is not assignable to %s (%s)", r.From, fromPort.Type, r.To, toPort.Type))
		}
		r.Transform = transform
	}
	return nil
}
