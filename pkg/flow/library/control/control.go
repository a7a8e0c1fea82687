// Package control implements pure, stateless flow functions grounded in
// flowstdlib's control and math subpackages (original_source/flowstdlib/
// control/{compare,tap}, flowstdlib/math/multiply): comparison, tap
// gating, and basic arithmetic. None of these touch I/O — they are plain
// value transforms, the vast majority of a real flow's function graph.
package control

import (
	"context"
	"fmt"

	"github.com/flowlattice/flowlattice/pkg/flow/runtime"
)

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Add produces inputs[0] + inputs[1].
var Add runtime.Implementation = runtime.ImplementationFunc(
	func(_ context.Context, inputs []any) (any, runtime.RunAgain, error) {
		a, ok1 := asFloat(inputs[0])
		b, ok2 := asFloat(inputs[1])
		if !ok1 || !ok2 {
			return nil, runtime.Continue, fmt.Errorf("add: non-numeric input")
		}
		return a + b, runtime.Continue, nil
	})

// Multiply produces inputs[0] * inputs[1] (original_source/flowstdlib/
// math/multiply/multiply.rs).
var Multiply runtime.Implementation = runtime.ImplementationFunc(
	func(_ context.Context, inputs []any) (any, runtime.RunAgain, error) {
		a, ok1 := asFloat(inputs[0])
		b, ok2 := asFloat(inputs[1])
		if !ok1 || !ok2 {
			return nil, runtime.Continue, fmt.Errorf("multiply: non-numeric input")
		}
		return a * b, runtime.Continue, nil
	})

// Compare produces {equal, lt, gt, lte, gte} for inputs[0] vs inputs[1],
// the multi-output shape original_source/flowstdlib/control/compare/
// compare.rs returns as one JSON object. Destinations read individual
// fields via their source output subroute.
var Compare runtime.Implementation = runtime.ImplementationFunc(
	func(_ context.Context, inputs []any) (any, runtime.RunAgain, error) {
		left, ok1 := asFloat(inputs[0])
		right, ok2 := asFloat(inputs[1])
		if !ok1 || !ok2 {
			return nil, runtime.Continue, fmt.Errorf("compare: non-numeric input")
		}
		return map[string]any{
			"equal": left == right,
			"lt":    left < right,
			"gt":    left > right,
			"lte":   left <= right,
			"gte":   left >= right,
		}, runtime.Continue, nil
	})

// Tap forwards inputs[0] only when inputs[1] (the gate) is true, producing
// no output otherwise (original_source/flowstdlib/control/tap/tap.rs).
var Tap runtime.Implementation = runtime.ImplementationFunc(
	func(_ context.Context, inputs []any) (any, runtime.RunAgain, error) {
		gate, _ := inputs[1].(bool)
		if !gate {
			return nil, runtime.Continue, nil
		}
		return inputs[0], runtime.Continue, nil
	})

// FibStep advances a two-state Fibonacci feedback loop: given the current
// pair (a, b), it produces {out_a: b, out_b: a+b}. Wiring out_a back to
// both this function's own "a" input and a sink emits the classic stream
// 1,1,2,3,5,8,... when seeded with a=0, b=1 (spec §8's Fibonacci
// acceptance scenario). Grounded in the two-function add+feedback shape
// original_source/flowr/examples/fibonacci describes, collapsed here into
// one multi-output step so a single function owns both halves of the
// state update.
var FibStep runtime.Implementation = runtime.ImplementationFunc(
	func(_ context.Context, inputs []any) (any, runtime.RunAgain, error) {
		a, ok1 := asFloat(inputs[0])
		b, ok2 := asFloat(inputs[1])
		if !ok1 || !ok2 {
			return nil, runtime.Continue, fmt.Errorf("fib_step: non-numeric input")
		}
		return map[string]any{"out_a": b, "out_b": a + b}, runtime.Continue, nil
	})

// Reverse reverses a string input (original_source/flowstdlib/fmt/
// reverse).
var Reverse runtime.Implementation = runtime.ImplementationFunc(
	func(_ context.Context, inputs []any) (any, runtime.RunAgain, error) {
		s, ok := inputs[0].(string)
		if !ok {
			return nil, runtime.Continue, fmt.Errorf("reverse: non-string input")
		}
		r := []rune(s)
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return string(r), runtime.Continue, nil
	})
