package flow

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/hbollon/go-edlib"
)

// Kind classifies an Error the way spec §7 groups failures: by the phase
// that raised it. The Coordinator and compiler both attach a Kind so
// callers can branch on failure category without string matching.
type Kind string

const (
	KindNotFound         Kind = "NotFound"
	KindParseError       Kind = "ParseError"
	KindValidationError  Kind = "ValidationError"
	KindDefinitionCycle  Kind = "DefinitionCycle"
	KindDanglingRoute    Kind = "DanglingRoute"
	KindCompetingInputs  Kind = "CompetingInputs"
	KindIllegalCycle     Kind = "IllegalCycle"
	KindTypeMismatch     Kind = "TypeMismatch"
	KindUnreachableFunc  Kind = "UnreachableFunction"
	KindMissingImpl      Kind = "MissingImplementation"
	KindLibraryVersion   Kind = "LibraryVersionMismatch"
	KindFunctionFailed   Kind = "FunctionFailed"
	KindAborted          Kind = "Aborted"
)

// Error is the single error type used across the compiler and runtime. It
// carries a Kind, the Route most relevant to the failure (when known), and
// structured slog.Attr tags for logging, mirroring how the teacher's
// *calque.Error attaches trace/request metadata to a wrapped cause.
type Error struct {
	Kind  Kind
	Route Route
	msg   string
	cause error
	attrs []slog.Attr
}

// New creates an Error of the given kind with a message, no underlying
// cause.
func New(kind Kind, route Route, msg string) *Error {
	return &Error{Kind: kind, Route: route, msg: msg}
}

// Wrap creates an Error of the given kind wrapping an existing error.
func Wrap(kind Kind, route Route, msg string, cause error) *Error {
	return &Error{Kind: kind, Route: route, msg: msg, cause: cause}
}

// Tag attaches a structured logging attribute and returns the receiver for
// chaining.
func (e *Error) Tag(a slog.Attr) *Error {
	e.attrs = append(e.attrs, a)
	return e
}

// Attrs returns the tags accumulated on this error, plus the standard
// kind/route fields, for use with slog.
func (e *Error) Attrs() []slog.Attr {
	out := []slog.Attr{slog.String("kind", string(e.Kind))}
	if e.Route != "" {
		out = append(out, slog.String("route", string(e.Route)))
	}
	return append(out, e.attrs...)
}

func (e *Error) Error() string {
	if e.Route != "" {
		if e.cause != nil {
			return fmt.Sprintf("%s: %s (route=%s): %v", e.Kind, e.msg, e.Route, e.cause)
		}
		return fmt.Sprintf("%s: %s (route=%s)", e.Kind, e.msg, e.Route)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports kind-equality: two *Error values are "the same" error for
// errors.Is purposes when they share a Kind. This lets callers write
// errors.Is(err, flow.New(flow.KindTypeMismatch, "", "")) as a kind probe.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Suggest returns the closest candidate name to want by Levenshtein
// distance, or "" if nothing is within a reasonable edit distance. Used to
// turn "unknown DataType Nubmer" into "unknown DataType Nubmer (did you
// mean Number?)".
func Suggest(want string, candidates []string) string {
	best := ""
	bestDist := -1
	for _, c := range candidates {
		d, err := edlib.StringsSimilarity(want, c, edlib.Levenshtein)
		if err != nil {
			continue
		}
		dist := int((1 - d) * float32(max(len(want), len(c))))
		if bestDist == -1 || dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	if bestDist < 0 || bestDist > 3 {
		return ""
	}
	return best
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// withSuggestion appends a "(did you mean X?)" hint to msg if a close
// candidate exists.
func withSuggestion(msg, want string, candidates []string) string {
	if s := Suggest(want, candidates); s != "" {
		return fmt.Sprintf("%s (did you mean %q?)", msg, s)
	}
	return msg
}

// sortedCopy returns a sorted copy of names, used so suggestion candidate
// order (and therefore tie-breaking) is deterministic.
func sortedCopy(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}

// UnknownDataTypeError builds a ValidationError for a DataType the loader
// doesn't recognize, suggesting the closest registered name.
func UnknownDataTypeError(route Route, want string) *Error {
	msg := withSuggestion(fmt.Sprintf("unknown DataType %q", want), want, sortedCopy(RegisteredTypeNames()))
	return New(KindValidationError, route, msg)
}

