package manifest

import (
	"strings"
	"testing"

	"github.com/flowlattice/flowlattice/pkg/flow"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	res := compileHelloWorld(t)
	m, err := FromCompiled(res, flow.Metadata{Name: "hello", Version: "1.0"}, nil)
	if err != nil {
		t.Fatalf("FromCompiled: %v", err)
	}
	data, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ok, err := Equivalent(m, back)
	if err != nil {
		t.Fatalf("Equivalent: %v", err)
	}
	if !ok {
		t.Error("decoded manifest should be equivalent to the original")
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	data := []byte(`{"metadata":{"name":"x","version":"1"},"functions":[],"bogus_field":1}`)
	if _, err := Decode(data); err == nil {
		t.Fatal("expected decode error for unknown field")
	}
}

func TestIdempotentManifestAcrossDoubleRoundTrip(t *testing.T) {
	res := compileHelloWorld(t)
	m, err := FromCompiled(res, flow.Metadata{Name: "hello", Version: "1.0"}, nil)
	if err != nil {
		t.Fatalf("FromCompiled: %v", err)
	}
	first, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	parsed, err := Decode(first)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	second, err := Encode(parsed)
	if err != nil {
		t.Fatalf("Encode (second): %v", err)
	}
	if strings.TrimSpace(string(first)) != strings.TrimSpace(string(second)) {
		t.Errorf("re-emitting a parsed manifest changed its bytes:\nfirst:  %s\nsecond: %s", first, second)
	}
}
