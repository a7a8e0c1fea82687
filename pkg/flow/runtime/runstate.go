package runtime

import (
	"encoding/json"
	"strconv"
	"sync"

	"github.com/flowlattice/flowlattice/pkg/flow/manifest"
)

// Job is one dispatchable unit of work: a function id and its drained
// input arguments, in port order.
type Job struct {
	FunctionID int
	Inputs     []any
}

// RunState is the ephemeral per-execution state spec §4.7 describes: per
// function input queues bounded by depth, a boolean marking whether the
// function is currently executing, and derived readiness. All operations
// are serialized by a single mutex, matching the "single owner, atomic
// transitions" design the teacher's Flow applies to its own worker-pool
// state (spec §9, "shared mutable runtime state").
//
// Back-pressure is enforced with a reservation count, not just the queue's
// current length: when a function is dispatched, every destination it
// might produce into has a slot reserved for the duration of that run.
// Without this, two functions that both target the same depth>1 input
// (legal fan-in) could each observe room and both be dispatched, then both
// push and exceed depth — the readiness check alone only guarantees room
// at the instant of dispatch, not for the lifetime of a concurrent run.
type RunState struct {
	mu        sync.Mutex
	cond      *sync.Cond
	manifest  *manifest.Manifest
	queues    [][][]any
	reserved  [][]int
	executing []bool
	retired   []bool
	inFlight  int
	cancelled bool
}

// New creates a RunState for m with all queues empty.
func New(m *manifest.Manifest) *RunState {
	rs := &RunState{manifest: m}
	rs.cond = sync.NewCond(&rs.mu)
	n := len(m.Functions)
	rs.queues = make([][][]any, n)
	rs.reserved = make([][]int, n)
	rs.executing = make([]bool, n)
	rs.retired = make([]bool, n)
	for i, fn := range m.Functions {
		rs.queues[i] = make([][]any, len(fn.InputDepths))
		rs.reserved[i] = make([]int, len(fn.InputDepths))
	}
	return rs
}

// Initialize pushes every manifest initial value into its input queue.
func (rs *RunState) Initialize() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for i, fn := range rs.manifest.Functions {
		for idxStr, raw := range fn.InitialValues {
			idx, err := strconv.Atoi(idxStr)
			if err != nil || idx < 0 || idx >= len(fn.InputDepths) {
				continue
			}
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				continue
			}
			rs.queues[i][idx] = append(rs.queues[i][idx], v)
		}
	}
	rs.cond.Broadcast()
}

// Cancel marks the RunState cancelled, waking any goroutine blocked in
// TakeReady so the Coordinator can unwind.
func (rs *RunState) Cancel() {
	rs.mu.Lock()
	rs.cancelled = true
	rs.cond.Broadcast()
	rs.mu.Unlock()
}

// QueueLen reports the number of values currently queued at a function's
// input, for tests asserting the back-pressure property (spec §8.4).
func (rs *RunState) QueueLen(fid, inputIdx int) int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.queues[fid][inputIdx])
}

func (rs *RunState) effectiveLen(fid, idx int) int {
	return len(rs.queues[fid][idx]) + rs.reserved[fid][idx]
}

func (rs *RunState) isReadyLocked(fid int) bool {
	if rs.executing[fid] || rs.retired[fid] {
		return false
	}
	for _, q := range rs.queues[fid] {
		if len(q) == 0 {
			return false
		}
	}
	fn := rs.manifest.Functions[fid]
	for _, d := range fn.Destinations {
		if d.ToFunctionID == fid {
			continue // self-edges are exempt from back-pressure
		}
		depth := rs.manifest.Functions[d.ToFunctionID].InputDepths[d.ToInputIndex]
		if rs.effectiveLen(d.ToFunctionID, d.ToInputIndex) >= depth {
			return false
		}
	}
	return true
}

func (rs *RunState) findReadyLocked() int {
	for i := range rs.manifest.Functions {
		if rs.isReadyLocked(i) {
			return i
		}
	}
	return -1
}

// TakeReady blocks until a function is ready, the run terminates (no
// function ready and none in flight), or the state is cancelled. ok is
// false on termination or cancellation.
func (rs *RunState) TakeReady() (job *Job, ok bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for {
		if rs.cancelled {
			return nil, false
		}
		if fid := rs.findReadyLocked(); fid >= 0 {
			fn := rs.manifest.Functions[fid]
			args := make([]any, len(fn.InputDepths))
			for i := range args {
				args[i] = rs.queues[fid][i][0]
				rs.queues[fid][i] = rs.queues[fid][i][1:]
			}
			rs.executing[fid] = true
			rs.inFlight++
			for _, d := range fn.Destinations {
				rs.reserved[d.ToFunctionID][d.ToInputIndex]++
			}
			return &Job{FunctionID: fid, Inputs: args}, true
		}
		if rs.inFlight == 0 {
			return nil, false
		}
		rs.cond.Wait()
	}
}

// Complete records the result of running fid's job: routes output (if
// any) to every destination, applying each edge's transform, releases
// this job's reservations, retires fid if runAgain is Retire, and
// re-evaluates readiness.
func (rs *RunState) Complete(fid int, output any, hasOutput bool, runAgain RunAgain) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.executing[fid] = false
	rs.inFlight--
	if runAgain == Retire {
		rs.retired[fid] = true
	}

	fn := rs.manifest.Functions[fid]
	multiOutput := countDistinctSubroutes(fn.Destinations) > 1
	for _, d := range fn.Destinations {
		rs.reserved[d.ToFunctionID][d.ToInputIndex]--
		if !hasOutput {
			continue
		}
		val := subvalue(output, d.SourceOutputSubroute, multiOutput)
		switch d.Transform {
		case "unwrap":
			if arr, ok := val.([]any); ok {
				for _, e := range arr {
					rs.queues[d.ToFunctionID][d.ToInputIndex] = append(rs.queues[d.ToFunctionID][d.ToInputIndex], e)
				}
			} else {
				rs.queues[d.ToFunctionID][d.ToInputIndex] = append(rs.queues[d.ToFunctionID][d.ToInputIndex], val)
			}
		case "wrap":
			rs.queues[d.ToFunctionID][d.ToInputIndex] = append(rs.queues[d.ToFunctionID][d.ToInputIndex], []any{val})
		default:
			rs.queues[d.ToFunctionID][d.ToInputIndex] = append(rs.queues[d.ToFunctionID][d.ToInputIndex], val)
		}
	}
	rs.cond.Broadcast()
}

func countDistinctSubroutes(dests []manifest.Destination) int {
	seen := map[string]bool{}
	for _, d := range dests {
		seen[d.SourceOutputSubroute] = true
	}
	return len(seen)
}

// subvalue extracts a named field from output when the producing function
// declares more than one output port; with a single output port the whole
// value is forwarded unchanged (spec §4.10 returns one Option<Value> per
// run — multiple named outputs are fields of that one JSON value).
func subvalue(output any, subroute string, multiOutput bool) any {
	if !multiOutput || subroute == "" {
		return output
	}
	if m, ok := output.(map[string]any); ok {
		return m[subroute]
	}
	return output
}

// Idle reports whether the run has terminated (nothing ready, nothing in
// flight).
func (rs *RunState) Idle() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.inFlight == 0 && rs.findReadyLocked() < 0
}
