package flow

import "encoding/json"

// Node is implemented by both Function and Flow: the two kinds of node a
// Deserializer may produce for a given URL, and that the Loader assembles
// into a definition tree.
type Node interface {
	node()
}

// Function is a leaf node: a pure operation with typed inputs and outputs,
// a reference to its Implementation, and an optional run-again-forever
// semantics enforced at the manifest/runtime boundary (§ RunAgain).
//
// Function carries no numeric id; ids are assigned to manifest.FunctionEntry
// values at manifest-emission time (see manifest.FromCompiled).
type Function struct {
	Name           Name
	Route          Route
	Implementation string // "lib://..." or a local path to a compiled artifact
	Inputs         []*Port
	Outputs        []*Port
	// RunAlways marks a function reachable by the optimizer even with no
	// sink downstream (e.g. a generator with only side-effecting output
	// reached indirectly, or a function the author wants kept regardless).
	RunAlways bool
}

func (*Function) node() {}

// InputByRoute finds an input port of f by its route, or nil.
func (f *Function) InputByRoute(r Route) *Port {
	for _, p := range f.Inputs {
		if p.Route == r {
			return p
		}
	}
	return nil
}

// OutputByRoute finds an output port of f by its route, or nil.
func (f *Function) OutputByRoute(r Route) *Port {
	for _, p := range f.Outputs {
		if p.Route == r {
			return p
		}
	}
	return nil
}

// Flow is a non-leaf node: a named composition of child flows, child
// functions, ports, and local connections. Flows exist only at compile
// time; the flattener discards them once every function and port has an
// absolute Route.
type Flow struct {
	Name        Name
	Route       Route
	Inputs      []*Port
	Outputs     []*Port
	Flows       []*Flow
	Functions   []*Function
	Connections []*Connection
}

func (*Flow) node() {}

// Connection is an authored, directed edge between two routes, optionally
// named. Before flattening the routes are local aliases; after flattening
// they are absolute. A connection may cross a flow boundary, in which case
// one endpoint names a flow's own input/output port rather than a
// function's; the connector collapses such chains into direct
// function-to-function edges (see pkg/flow/compiler).
type Connection struct {
	Name Name
	From Route
	To   Route
}

// Metadata describes a flow or manifest's identity.
type Metadata struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Authors []string `json:"authors,omitempty"`
}

// LibraryRef names a library dependency a flow or manifest requires,
// resolved at link time against a library manifest (see pkg/flow/manifest).
type LibraryRef struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	URL     string `json:"url"`
}

// InitialValue pairs a raw JSON value with the input route it seeds. The
// loader and compiler do not use it: a port's initial value is carried in
// Port.Initializer.
type InitialValue struct {
	Input Route
	Value json.RawMessage
}
