package context

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/flowlattice/flowlattice/pkg/flow/runtime"
)

func TestStdoutWritesLine(t *testing.T) {
	var buf bytes.Buffer
	c := &Context{Stdout: &buf}
	out, runAgain, err := c.Stdout_().Run(context.Background(), []any{"hello"})
	if err != nil {
		t.Fatalf("Stdout: %v", err)
	}
	if out != nil || runAgain != runtime.Continue {
		t.Errorf("Stdout() = (%v, %v), want (nil, Continue)", out, runAgain)
	}
	if buf.String() != "hello\n" {
		t.Errorf("stdout = %q, want %q", buf.String(), "hello\n")
	}
}

func TestStdoutStringifiesNonStrings(t *testing.T) {
	var buf bytes.Buffer
	c := &Context{Stdout: &buf}
	if _, _, err := c.Stdout_().Run(context.Background(), []any{float64(42)}); err != nil {
		t.Fatalf("Stdout: %v", err)
	}
	if buf.String() != "42\n" {
		t.Errorf("stdout = %q, want %q", buf.String(), "42\n")
	}
}

func TestStderrWritesLine(t *testing.T) {
	var buf bytes.Buffer
	c := &Context{Stderr: &buf}
	if _, _, err := c.Stderr_().Run(context.Background(), []any{"oops"}); err != nil {
		t.Fatalf("Stderr: %v", err)
	}
	if buf.String() != "oops\n" {
		t.Errorf("stderr = %q", buf.String())
	}
}

func TestStdinReadsLineThenRetiresOnEOF(t *testing.T) {
	c := &Context{Stdin: bufio.NewReader(strings.NewReader("flow\n"))}
	impl := c.Stdin_()

	out, runAgain, err := impl.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Stdin: %v", err)
	}
	if out != "flow" || runAgain != runtime.Continue {
		t.Errorf("Stdin() = (%v, %v), want (flow, Continue)", out, runAgain)
	}

	_, runAgain, err = impl.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Stdin (EOF): %v", err)
	}
	if runAgain != runtime.Retire {
		t.Errorf("Stdin() at EOF runAgain = %v, want Retire", runAgain)
	}
}

func TestArgsDeliversOnceThenRetires(t *testing.T) {
	c := &Context{Args: []string{"a", "b"}}
	impl := c.Args_()

	out, runAgain, err := impl.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Args: %v", err)
	}
	if runAgain != runtime.Retire {
		t.Errorf("Args() runAgain = %v, want Retire (one-shot delivery)", runAgain)
	}
	got, ok := out.([]any)
	if !ok || len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Args() = %v, want [a b]", out)
	}

	out2, _, err := impl.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Args (second call): %v", err)
	}
	if out2 != nil {
		t.Errorf("Args() second call = %v, want nil (already delivered)", out2)
	}
}
