package cache

import (
	"context"
	"testing"

	"github.com/flowlattice/flowlattice/pkg/flow/runtime"
)

func TestFunctionsSetThenGet(t *testing.T) {
	fn := &Functions{Store: NewMemoryStore()}

	out, runAgain, err := fn.Set().Run(context.Background(), []any{"k", "v"})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if out != "v" || runAgain != runtime.Continue {
		t.Errorf("Set() = (%v, %v), want (v, Continue)", out, runAgain)
	}

	out, _, err = fn.Get().Run(context.Background(), []any{"k"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out != "v" {
		t.Errorf("Get(k) = %v, want v", out)
	}
}

func TestFunctionsGetMissingKeyProducesNoOutput(t *testing.T) {
	fn := &Functions{Store: NewMemoryStore()}
	out, _, err := fn.Get().Run(context.Background(), []any{"missing"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out != nil {
		t.Errorf("Get(missing) = %v, want nil", out)
	}
}

func TestFunctionsGetRejectsNonStringKey(t *testing.T) {
	fn := &Functions{Store: NewMemoryStore()}
	if _, _, err := fn.Get().Run(context.Background(), []any{42}); err == nil {
		t.Fatal("expected error for non-string key")
	}
}

func TestFunctionsSetRejectsNonStringKey(t *testing.T) {
	fn := &Functions{Store: NewMemoryStore()}
	if _, _, err := fn.Set().Run(context.Background(), []any{42, "v"}); err == nil {
		t.Fatal("expected error for non-string key")
	}
}

func TestFunctionsSetStringifiesValue(t *testing.T) {
	fn := &Functions{Store: NewMemoryStore()}
	if _, _, err := fn.Set().Run(context.Background(), []any{"k", float64(7)}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	raw, found, err := fn.Store.Get("k")
	if err != nil || !found {
		t.Fatalf("Store.Get(k) = (_, %v, %v)", found, err)
	}
	if string(raw) != "7" {
		t.Errorf("stored value = %q, want %q", raw, "7")
	}
}
