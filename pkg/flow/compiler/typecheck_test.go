package compiler

import (
	"testing"

	"github.com/flowlattice/flowlattice/pkg/flow"
)

func TestTypeCheckTagsTransform(t *testing.T) {
	src := &flow.Function{
		Name:           "src",
		Implementation: "x",
		Outputs:        []*flow.Port{{Name: "out", Type: "Number", Direction: flow.Output}},
	}
	dst := &flow.Function{
		Name:           "dst",
		Implementation: "x",
		Inputs:         []*flow.Port{{Name: "in", Type: "Array/Number", Direction: flow.Input}},
	}
	root := &flow.Flow{
		Name:        "root",
		Functions:   []*flow.Function{src, dst},
		Connections: []*flow.Connection{{From: "src/out", To: "dst/in"}},
	}
	fr := mustFlatten(t, root)
	resolved, err := Connect(fr)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := TypeCheck(fr, resolved); err != nil {
		t.Fatalf("TypeCheck: %v", err)
	}
	if resolved[0].Transform != flow.TransformWrap {
		t.Errorf("transform = %v, want wrap", resolved[0].Transform)
	}
}

func TestTypeCheckRejectsMismatch(t *testing.T) {
	src := &flow.Function{
		Name:           "src",
		Implementation: "x",
		Outputs:        []*flow.Port{{Name: "out", Type: "String", Direction: flow.Output}},
	}
	dst := &flow.Function{
		Name:           "dst",
		Implementation: "x",
		Inputs:         []*flow.Port{{Name: "in", Type: "Number", Direction: flow.Input}},
	}
	root := &flow.Flow{
		Name:        "root",
		Functions:   []*flow.Function{src, dst},
		Connections: []*flow.Connection{{From: "src/out", To: "dst/in"}},
	}
	fr := mustFlatten(t, root)
	resolved, err := Connect(fr)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	err = TypeCheck(fr, resolved)
	if err == nil {
		t.Fatal("expected TypeMismatch error")
	}
	fe, ok := err.(*flow.Error)
	if !ok || fe.Kind != flow.KindTypeMismatch {
		t.Errorf("err = %v, want KindTypeMismatch", err)
	}
}
