// Package context provides the reserved "context" library: the only
// functions in flowlattice allowed to perform I/O. Every other
// Implementation is pure with respect to the engine (spec §4.10); side
// effects flow exclusively through implementations built here, each
// closing over a *Context rather than touching a global.
//
// This mirrors the original Rust runtime's stdio/args functions, which
// hold a reference to a RuntimeClient and send it Events rather than
// calling os.Stdout directly (flowr/src/flowruntime/stdio/stdout.rs,
// flowr/src/flowruntime/args/get.rs in original_source/).
package context

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/flowlattice/flowlattice/pkg/flow/runtime"
)

// Context holds the process-level resources side-effecting functions are
// allowed to touch: standard streams and the flow's invocation arguments.
// One Context is built per Coordinator run and shared by every context/*
// Implementation it resolves.
type Context struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  *bufio.Reader
	Args   []string
}

// Stdout returns an Implementation that writes its single input to
// c.Stdout. Strings and numbers are written as-is; other JSON values are
// written in their default textual form. It never retires.
func (c *Context) Stdout_() runtime.Implementation {
	return runtime.ImplementationFunc(func(_ context.Context, inputs []any) (any, runtime.RunAgain, error) {
		if _, err := fmt.Fprintln(c.Stdout, stringify(inputs[0])); err != nil {
			return nil, runtime.Continue, err
		}
		return nil, runtime.Continue, nil
	})
}

// Stderr returns an Implementation writing its single input to c.Stderr.
func (c *Context) Stderr_() runtime.Implementation {
	return runtime.ImplementationFunc(func(_ context.Context, inputs []any) (any, runtime.RunAgain, error) {
		if _, err := fmt.Fprintln(c.Stderr, stringify(inputs[0])); err != nil {
			return nil, runtime.Continue, err
		}
		return nil, runtime.Continue, nil
	})
}

// Stdin returns an Implementation with no inputs that reads one line from
// c.Stdin and produces it as a string; it retires (permanently) on EOF,
// matching the reference runtime's "get args once" shape for one-shot
// console input.
func (c *Context) Stdin_() runtime.Implementation {
	return runtime.ImplementationFunc(func(_ context.Context, _ []any) (any, runtime.RunAgain, error) {
		line, err := c.Stdin.ReadString('\n')
		if err == io.EOF && line == "" {
			return nil, runtime.Retire, nil
		}
		if err != nil && err != io.EOF {
			return nil, runtime.Continue, err
		}
		return trimNewline(line), runtime.Continue, nil
	})
}

// Args returns an Implementation with no inputs that produces c.Args as a
// single output once, then retires permanently — mirroring the reference
// "get" function (flowr/src/flowruntime/args/get.rs), which fetches the
// flow's arguments exactly once per run.
func (c *Context) Args_() runtime.Implementation {
	delivered := false
	return runtime.ImplementationFunc(func(_ context.Context, _ []any) (any, runtime.RunAgain, error) {
		if delivered {
			return nil, runtime.Retire, nil
		}
		delivered = true
		out := make([]any, len(c.Args))
		for i, a := range c.Args {
			out[i] = a
		}
		return out, runtime.Retire, nil
	})
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
