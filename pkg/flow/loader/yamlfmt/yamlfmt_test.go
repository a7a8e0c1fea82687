package yamlfmt

import (
	"testing"

	"github.com/flowlattice/flowlattice/pkg/flow"
	"github.com/flowlattice/flowlattice/pkg/flow/loader"
)

func TestAcceptsYAMLExtensions(t *testing.T) {
	d := New()
	if !d.Accepts("root.yaml") || !d.Accepts("root.yml") || !d.Accepts("root.flow.yaml") {
		t.Error("Accepts should match .yaml and .yml (including .flow.yaml)")
	}
	if d.Accepts("root.json") {
		t.Error("Accepts should not match .json")
	}
}

func TestDeserializeFunction(t *testing.T) {
	data := []byte(`
kind: function
name: adder
implementation: lib://control/add
inputs:
  - name: a
    type: Number
  - name: b
    type: Number
    default: 1
outputs:
  - name: sum
    type: Number
`)
	doc, err := New().Deserialize("local", data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	fd, ok := doc.(*loader.FunctionDoc)
	if !ok {
		t.Fatalf("Deserialize() = %T, want *loader.FunctionDoc", doc)
	}
	if fd.Function.Name != "adder" || fd.Function.Implementation != "lib://control/add" {
		t.Errorf("Function = %+v", fd.Function)
	}
	if len(fd.Function.Inputs) != 2 || len(fd.Function.Outputs) != 1 {
		t.Fatalf("ports = %d in, %d out", len(fd.Function.Inputs), len(fd.Function.Outputs))
	}
	if string(fd.Function.Inputs[1].Initializer) != "1" {
		t.Errorf("default initializer = %q, want %q", fd.Function.Inputs[1].Initializer, "1")
	}
}

func TestDeserializeFunctionFallsBackToLocalName(t *testing.T) {
	data := []byte(`
kind: function
implementation: lib://control/add
`)
	doc, err := New().Deserialize("fallback", data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	fd := doc.(*loader.FunctionDoc)
	if fd.Function.Name != "fallback" {
		t.Errorf("Name = %q, want fallback", fd.Function.Name)
	}
}

func TestDeserializeFlowWithProcessAndConnections(t *testing.T) {
	data := []byte(`
kind: flow
name: pipeline
process:
  - alias: reverse
    source: lib://fmt/reverse
  - alias: stdout
    source: lib://context/stdout
connections:
  - from: reverse/out
    to: stdout/in
`)
	doc, err := New().Deserialize("local", data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	fd, ok := doc.(*loader.FlowDoc)
	if !ok {
		t.Fatalf("Deserialize() = %T, want *loader.FlowDoc", doc)
	}
	if fd.Name != "pipeline" {
		t.Errorf("Name = %q, want pipeline", fd.Name)
	}
	if len(fd.Process) != 2 {
		t.Fatalf("len(Process) = %d, want 2", len(fd.Process))
	}
	if len(fd.Connections) != 1 || fd.Connections[0].From != flow.Route("reverse/out") {
		t.Fatalf("Connections = %+v", fd.Connections)
	}
}

func TestDeserializeDefaultsToFlowKindWhenUnset(t *testing.T) {
	doc, err := New().Deserialize("local", []byte(`name: bare`))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if _, ok := doc.(*loader.FlowDoc); !ok {
		t.Fatalf("Deserialize() = %T, want *loader.FlowDoc for empty kind", doc)
	}
}

func TestDeserializeRejectsUnknownKind(t *testing.T) {
	_, err := New().Deserialize("local", []byte(`kind: bogus`))
	if err == nil {
		t.Fatal("expected an error for an unknown document kind")
	}
}

func TestDeserializeRejectsInvalidYAML(t *testing.T) {
	_, err := New().Deserialize("local", []byte(`{not: [valid`))
	if err == nil {
		t.Fatal("expected an error for malformed yaml")
	}
}
