// Command flowr runs a compiled manifest to completion. Like flowc, its
// argument parsing is deliberately stdlib flag only — the CLI surface is
// an external boundary the core doesn't specify beyond its exit codes
// (spec §6).
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/flowlattice/flowlattice/pkg/flow"
	"github.com/flowlattice/flowlattice/pkg/flow/library"
	cachelib "github.com/flowlattice/flowlattice/pkg/flow/library/cache"
	"github.com/flowlattice/flowlattice/pkg/flow/library/cache/badgerstore"
	libcontext "github.com/flowlattice/flowlattice/pkg/flow/library/context"
	"github.com/flowlattice/flowlattice/pkg/flow/manifest"
	"github.com/flowlattice/flowlattice/pkg/flow/provider/fileprovider"
	"github.com/flowlattice/flowlattice/pkg/flow/runtime"
)

// openStore returns the in-memory cache by default, or a badger-backed
// store when dir is set. The returned close func is always safe to call.
func openStore(dir string) (cachelib.Store, func(), error) {
	if dir == "" {
		return cachelib.NewMemoryStore(), func() {}, nil
	}
	s, err := badgerstore.Open(dir)
	if err != nil {
		return nil, func() {}, err
	}
	return s, func() { _ = s.Close() }, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("flowr", flag.ContinueOnError)
	abortOnErr := fs.Bool("abort-on-function-error", false, "escalate any function failure to a full abort")
	cacheDir := fs.String("cache-dir", "", "badger cache directory (empty = in-memory cache)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: flowr <manifest_url> [-- <flow_args>...]")
		return 2
	}
	manifestURL := fs.Arg(0)
	flowArgs := fs.Args()[1:]
	if len(flowArgs) > 0 && flowArgs[0] == "--" {
		flowArgs = flowArgs[1:]
	}

	ctx := context.Background()
	provider := fileprovider.New()
	resolved, _, err := provider.ResolveURL(ctx, manifestURL, "manifest", []string{".json"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "resolve:", err)
		return 2
	}
	data, err := provider.GetContents(ctx, resolved)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		return 2
	}
	if err := manifest.ValidateSchema(data); err != nil {
		fmt.Fprintln(os.Stderr, "schema:", err)
		return 1
	}
	m, err := manifest.Decode(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decode:", err)
		return 1
	}

	store, closeStore, err := openStore(*cacheDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cache:", err)
		return 2
	}
	defer closeStore()

	fctx := &libcontext.Context{Stdout: os.Stdout, Stderr: os.Stderr, Stdin: bufio.NewReader(os.Stdin), Args: flowArgs}
	table := library.New().WithControl().WithContext(fctx).WithCache(store)

	if err := m.Validate(table); err != nil {
		fmt.Fprintln(os.Stderr, "validate:", err)
		return 1
	}

	coord := runtime.NewCoordinator(table, runtime.Config{MaxConcurrent: runtime.ConcurrencyAuto})
	coord.AbortOnFunctionError = *abortOnErr

	handler := newCLIHandler(flowArgs)
	result := coord.Run(ctx, m, handler)

	switch result {
	case runtime.Completed:
		return 0
	case runtime.Aborted:
		return 2
	default:
		return 1
	}
}

// cliHandler is the flowr SubmissionHandler: a single one-shot submission
// per process invocation, no debugger, plain-text logging of failures.
type cliHandler struct {
	args      []string
	delivered bool
}

func newCLIHandler(args []string) *cliHandler {
	return &cliHandler{args: args}
}

func (h *cliHandler) FlowExecutionStarting() {
	flow.LogInfo(context.Background(), "flow execution starting")
}

func (h *cliHandler) ShouldEnterDebugger(runtime.Job) bool { return false }

func (h *cliHandler) BreakpointHit(runtime.Job) runtime.Command { return runtime.CommandContinue }

func (h *cliHandler) FunctionFailed(fid int, detail string) {
	fmt.Fprintf(os.Stderr, "function %d failed: %s\n", fid, detail)
}

func (h *cliHandler) FlowExecutionEnded(result runtime.Result, metrics runtime.Metrics) {
	flow.LogInfo(context.Background(), "flow execution ended",
		"result", result.String(),
		"dispatched", metrics.FunctionsDispatched,
		"failed", metrics.FunctionsFailed)
}

func (h *cliHandler) WaitForSubmission() (runtime.Submission, bool) {
	if h.delivered {
		return runtime.Submission{}, false
	}
	h.delivered = true
	return runtime.Submission{Args: h.args}, true
}
