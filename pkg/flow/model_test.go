package flow

import "testing"

func TestFunctionPortLookup(t *testing.T) {
	fn := &Function{
		Name: "cmp",
		Inputs: []*Port{
			{Name: "left", Route: "/cmp/left"},
			{Name: "right", Route: "/cmp/right"},
		},
		Outputs: []*Port{
			{Name: "equal", Route: "/cmp/equal"},
		},
	}
	if p := fn.InputByRoute("/cmp/left"); p == nil || p.Name != "left" {
		t.Errorf("InputByRoute(/cmp/left) = %v", p)
	}
	if p := fn.InputByRoute("/cmp/missing"); p != nil {
		t.Errorf("InputByRoute(missing) = %v, want nil", p)
	}
	if p := fn.OutputByRoute("/cmp/equal"); p == nil {
		t.Error("OutputByRoute(/cmp/equal) = nil")
	}
}

func TestPortEffectiveDepth(t *testing.T) {
	p := &Port{}
	if p.EffectiveDepth() != DefaultDepth {
		t.Errorf("EffectiveDepth() = %d, want %d", p.EffectiveDepth(), DefaultDepth)
	}
	p.Depth = 5
	if p.EffectiveDepth() != 5 {
		t.Errorf("EffectiveDepth() = %d, want 5", p.EffectiveDepth())
	}
}

func TestPortHasInitializer(t *testing.T) {
	p := &Port{}
	if p.HasInitializer() {
		t.Error("empty port should have no initializer")
	}
	p.Initializer = []byte(`"hi"`)
	if !p.HasInitializer() {
		t.Error("port with Initializer set should report HasInitializer")
	}
}

func TestNameValid(t *testing.T) {
	if !Name("add").Valid() {
		t.Error("add should be a valid name")
	}
	if Name("").Valid() {
		t.Error("empty name should be invalid")
	}
	if Name("a/b").Valid() {
		t.Error("name with a slash should be invalid")
	}
}

func TestDirectionString(t *testing.T) {
	if Input.String() != "input" {
		t.Errorf("Input.String() = %q", Input.String())
	}
	if Output.String() != "output" {
		t.Errorf("Output.String() = %q", Output.String())
	}
}
