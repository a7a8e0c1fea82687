package runtime

// Submission carries whatever a Submission Handler needs to start one flow
// execution: CLI flow arguments, a GUI's "run" click, a test harness's
// fixture. The core treats it as opaque.
type Submission struct {
	Args []string
}

// Metrics summarizes one completed run, reported to the Submission Handler
// alongside the terminal state.
type Metrics struct {
	FunctionsDispatched int
	FunctionsFailed     int
}

// Result is the terminal outcome the Coordinator reports (spec §7's Runtime
// error kinds plus the two clean outcomes).
type Result int

const (
	// Completed means the run drained to termination with ready empty and
	// nothing in flight.
	Completed Result = iota
	// RuntimeError means the run stopped under abort_on_function_error after
	// a FunctionFailed.
	RuntimeError
	// Aborted means a Submission Handler issued Abort.
	Aborted
)

func (r Result) String() string {
	switch r {
	case Completed:
		return "completed"
	case RuntimeError:
		return "runtime_error"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Command is what a Submission Handler returns from a debugger pause to
// tell the Coordinator how to proceed.
type Command int

const (
	// CommandContinue resumes normal dispatch.
	CommandContinue Command = iota
	// CommandStepOne dispatches exactly the paused job, then pauses again
	// before the next one.
	CommandStepOne
	// CommandAbort stops accepting new dispatches (spec §5 Cancellation).
	CommandAbort
)

// SubmissionHandler is the polymorphic collaborator spec §4.9 describes:
// the boundary CLIs, GUIs, remote clients, and test harnesses plug into
// without the core knowing which kind of caller it's driving. Every method
// may be called from the Coordinator's goroutine and, for FunctionFailed
// notifications, potentially from worker goroutines, so implementations
// must be safe for concurrent invocation.
type SubmissionHandler interface {
	// FlowExecutionStarting is called once initialize(manifest) completes.
	FlowExecutionStarting()

	// ShouldEnterDebugger is consulted before each dispatch; when true the
	// Coordinator calls BreakpointHit and awaits a Command before
	// proceeding.
	ShouldEnterDebugger(job Job) bool

	// BreakpointHit notifies the handler that dispatch of job is paused,
	// and blocks until the handler decides how to proceed.
	BreakpointHit(job Job) Command

	// FunctionFailed notifies the handler that fid's Implementation
	// returned an error. detail is the error's message.
	FunctionFailed(fid int, detail string)

	// FlowExecutionEnded reports the terminal Result and run Metrics.
	FlowExecutionEnded(result Result, metrics Metrics)

	// WaitForSubmission blocks until a Submission is available, or
	// reports ok=false if the source is closed (no more runs expected).
	WaitForSubmission() (sub Submission, ok bool)
}
