package loader

import "github.com/flowlattice/flowlattice/pkg/flow"

// Doc is what a Deserializer hands back: either a terminal FunctionDoc or a
// FlowDoc naming further child references for the Loader to resolve. This
// is distinct from flow.Node (flow.Flow / flow.Function) because a FlowDoc
// has not yet had its children loaded — flow.Flow.Flows/Functions hold
// fully resolved nodes, not references.
type Doc interface {
	isDoc()
}

// FunctionDoc wraps a fully-decoded function; functions are always leaves
// so there is nothing further to resolve.
type FunctionDoc struct {
	Function *flow.Function
}

func (*FunctionDoc) isDoc() {}

// ProcessRef is one child reference in a FlowDoc's process list: a local
// alias and the source (relative URL, or "lib://..." for a library
// function) to load for it.
type ProcessRef struct {
	Alias  string
	Source string
}

// FlowDoc is a decoded flow definition whose children have not yet been
// loaded.
type FlowDoc struct {
	Name        flow.Name
	Inputs      []*flow.Port
	Outputs     []*flow.Port
	Connections []*flow.Connection
	Process     []ProcessRef
}

func (*FlowDoc) isDoc() {}
