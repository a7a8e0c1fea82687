package runtime

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/flowlattice/flowlattice/pkg/flow"
	"github.com/flowlattice/flowlattice/pkg/flow/manifest"
)

// Coordinator drives one manifest to completion, per spec §4.8: await a
// submission, initialize RunState, then loop dispatching ready jobs through
// a bounded worker pool until nothing is ready and nothing is in flight.
// It owns the single authoritative RunState; workers only ever touch it
// through RunState's atomic operations, matching the teacher's Flow, which
// owns its semaphore and handler slice and lets goroutines touch only their
// own pipe endpoints.
type Coordinator struct {
	library Library
	config  Config

	// AbortOnFunctionError escalates any FunctionFailed to a full abort
	// (spec §7's abort_on_function_error flag). Default false: a failed
	// function simply produces no output and its downstream consumers
	// never become ready.
	AbortOnFunctionError bool
}

// NewCoordinator builds a Coordinator over library with the given worker
// pool configuration.
func NewCoordinator(library Library, config Config) *Coordinator {
	return &Coordinator{library: library, config: config}
}

// Run executes one submission to completion, reporting starting/ending
// events to handler and honoring ctx cancellation as an Abort.
func (c *Coordinator) Run(ctx context.Context, m *manifest.Manifest, handler SubmissionHandler) Result {
	if _, ok := handler.WaitForSubmission(); !ok {
		return Completed
	}

	rs := New(m)
	rs.Initialize()
	handler.FlowExecutionStarting()

	sem := c.config.semaphore()
	var wg sync.WaitGroup
	var mu sync.Mutex
	var metrics Metrics
	var aborting atomic.Bool

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			aborting.Store(true)
			rs.Cancel()
		case <-stop:
		}
	}()

	stepping := false
	for {
		job, ok := rs.TakeReady()
		if !ok {
			break
		}

		if handler.ShouldEnterDebugger(*job) || stepping {
			cmd := handler.BreakpointHit(*job)
			if cmd == CommandAbort {
				aborting.Store(true)
				rs.Cancel()
				rs.Complete(job.FunctionID, nil, false, Continue)
				break
			}
			stepping = cmd == CommandStepOne
		}

		wg.Add(1)
		go c.dispatch(ctx, job, m, rs, handler, sem, &wg, &mu, &metrics, &aborting)
	}

	wg.Wait()

	result := Completed
	switch {
	case metrics.FunctionsFailed > 0 && c.AbortOnFunctionError:
		result = RuntimeError
	case aborting.Load():
		result = Aborted
	}
	handler.FlowExecutionEnded(result, metrics)
	return result
}

func (c *Coordinator) dispatch(
	ctx context.Context,
	job *Job,
	m *manifest.Manifest,
	rs *RunState,
	handler SubmissionHandler,
	sem chan struct{},
	wg *sync.WaitGroup,
	mu *sync.Mutex,
	metrics *Metrics,
	aborting *atomic.Bool,
) {
	defer wg.Done()

	if sem != nil {
		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
		case <-ctx.Done():
			rs.Complete(job.FunctionID, nil, false, Continue)
			return
		}
	}

	fn := m.Functions[job.FunctionID]
	impl, found := c.library.Lookup(fn.ImplementationLocator)
	if !found {
		mu.Lock()
		metrics.FunctionsFailed++
		mu.Unlock()
		handler.FunctionFailed(job.FunctionID, flow.New(flow.KindMissingImpl,
			flow.Route(fn.Route), "no implementation for "+fn.ImplementationLocator).Error())
		rs.Complete(job.FunctionID, nil, false, Retire)
		if c.AbortOnFunctionError {
			aborting.Store(true)
			rs.Cancel()
		}
		return
	}

	out, runAgain, err := impl.Run(ctx, job.Inputs)
	mu.Lock()
	metrics.FunctionsDispatched++
	mu.Unlock()
	if err != nil {
		mu.Lock()
		metrics.FunctionsFailed++
		mu.Unlock()
		handler.FunctionFailed(job.FunctionID, err.Error())
		rs.Complete(job.FunctionID, nil, false, runAgain)
		if c.AbortOnFunctionError {
			aborting.Store(true)
			rs.Cancel()
		}
		return
	}

	rs.Complete(job.FunctionID, out, out != nil, runAgain)
}
