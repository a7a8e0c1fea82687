package runtime

import (
	"encoding/json"
	"testing"

	"github.com/flowlattice/flowlattice/pkg/flow/manifest"
)

// twoNodeManifest builds: fn0 --(out)--> fn1(in), fn0 seeded with a string
// initial value, fn1 has no outbound destinations (a terminal sink).
func twoNodeManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Functions: []manifest.FunctionEntry{
			{
				ID:            0,
				InputDepths:   []int{1},
				InitialValues: map[string]json.RawMessage{"0": json.RawMessage(`"seed"`)},
				Destinations: []manifest.Destination{
					{ToFunctionID: 1, ToInputIndex: 0, Transform: "none"},
				},
			},
			{
				ID:          1,
				InputDepths: []int{1},
			},
		},
	}
}

func TestRunStateInitializeSeedsQueues(t *testing.T) {
	rs := New(twoNodeManifest())
	rs.Initialize()
	if rs.QueueLen(0, 0) != 1 {
		t.Fatalf("QueueLen(0,0) = %d, want 1", rs.QueueLen(0, 0))
	}
}

func TestRunStateTakeReadyAndComplete(t *testing.T) {
	rs := New(twoNodeManifest())
	rs.Initialize()

	job, ok := rs.TakeReady()
	if !ok {
		t.Fatal("TakeReady() ok = false, want true")
	}
	if job.FunctionID != 0 {
		t.Fatalf("FunctionID = %d, want 0", job.FunctionID)
	}
	if job.Inputs[0] != "seed" {
		t.Fatalf("Inputs[0] = %v, want seed", job.Inputs[0])
	}

	rs.Complete(0, "seed", true, Continue)
	if rs.QueueLen(1, 0) != 1 {
		t.Fatalf("QueueLen(1,0) = %d, want 1 after routing", rs.QueueLen(1, 0))
	}

	job2, ok := rs.TakeReady()
	if !ok || job2.FunctionID != 1 {
		t.Fatalf("TakeReady() = %v, %v, want fn 1", job2, ok)
	}
	rs.Complete(1, nil, false, Continue)

	if _, ok := rs.TakeReady(); ok {
		t.Fatal("TakeReady() should report termination once nothing is ready or in flight")
	}
}

func TestRunStateBackPressureBlocksProducerWhenDestinationFull(t *testing.T) {
	m := &manifest.Manifest{
		Functions: []manifest.FunctionEntry{
			{
				ID:            0,
				InputDepths:   []int{1},
				InitialValues: map[string]json.RawMessage{"0": json.RawMessage(`1`)},
				Destinations:  []manifest.Destination{{ToFunctionID: 1, ToInputIndex: 0, Transform: "none"}},
			},
			{
				ID:          1,
				InputDepths: []int{1}, // depth 1, already full below
			},
		},
	}
	rs := New(m)
	rs.Initialize()
	// Manually fill fn1's input queue to simulate it already being full.
	rs.queues[1][0] = append(rs.queues[1][0], "occupying")

	// TakeReady scans functions in id order, so a ready fn0 would be
	// returned first; fn1 (full input, no destinations) is the only ready one.
	job, ok := rs.TakeReady()
	if !ok || job.FunctionID != 1 {
		t.Fatalf("TakeReady() = %v, %v; want fn1, with fn0 held back while its destination is full", job, ok)
	}
}

func TestRunStateRetirementIsPermanent(t *testing.T) {
	m := &manifest.Manifest{
		Functions: []manifest.FunctionEntry{
			{ID: 0, InputDepths: []int{1}, InitialValues: map[string]json.RawMessage{"0": json.RawMessage(`1`)}},
		},
	}
	rs := New(m)
	rs.Initialize()

	job, ok := rs.TakeReady()
	if !ok {
		t.Fatal("expected fn0 to be ready")
	}
	rs.Complete(job.FunctionID, nil, false, Retire)

	// Refill the input; a retired function must never be dispatched again.
	rs.queues[0][0] = append(rs.queues[0][0], "new value")
	if _, ok := rs.TakeReady(); ok {
		t.Fatal("a retired function should never be dispatched again, even with fresh input")
	}
}

func TestRunStateSelfEdgeExemptFromBackPressure(t *testing.T) {
	m := &manifest.Manifest{
		Functions: []manifest.FunctionEntry{
			{
				ID:            0,
				InputDepths:   []int{1},
				InitialValues: map[string]json.RawMessage{"0": json.RawMessage(`0`)},
				Destinations:  []manifest.Destination{{ToFunctionID: 0, ToInputIndex: 0, Transform: "none"}},
			},
		},
	}
	rs := New(m)
	rs.Initialize()

	job, ok := rs.TakeReady()
	if !ok {
		t.Fatal("expected fn0 to be ready")
	}
	rs.Complete(job.FunctionID, 1, true, Continue)

	// Even though fn0's own input queue is the destination (depth 1), the
	// self-edge exemption means it should become ready again immediately.
	if _, ok := rs.TakeReady(); !ok {
		t.Fatal("a self-feeding function should remain dispatchable (self-edges are exempt from back-pressure)")
	}
}

func TestRunStateMultiOutputSubvalueRouting(t *testing.T) {
	m := &manifest.Manifest{
		Functions: []manifest.FunctionEntry{
			{
				ID:          0,
				InputDepths: []int{},
				Destinations: []manifest.Destination{
					{SourceOutputSubroute: "a", ToFunctionID: 1, ToInputIndex: 0, Transform: "none"},
					{SourceOutputSubroute: "b", ToFunctionID: 2, ToInputIndex: 0, Transform: "none"},
				},
			},
			{ID: 1, InputDepths: []int{1}},
			{ID: 2, InputDepths: []int{1}},
		},
	}
	rs := New(m)
	rs.Complete(0, map[string]any{"a": "first", "b": "second"}, true, Continue)
	if rs.QueueLen(1, 0) != 1 {
		t.Fatalf("QueueLen(1,0) = %d, want 1", rs.QueueLen(1, 0))
	}
}
