package flow

import "strings"

// DataType is a symbolic type name in the flow type lattice, e.g. "Number",
// "String", "Array/Number", "Json". Json sits at the top of the lattice and
// accepts anything; "Array/T" accepts anywhere "T" accepts, applied
// element-wise, and a bare "T" can be lifted into "Array/T" on an edge.
type DataType string

// Json is the universal top type: every other type is assignable to it.
const Json DataType = "Json"

const arrayPrefix = "Array/"

// IsArray reports whether the type is an array-of-T form.
func (d DataType) IsArray() bool {
	return strings.HasPrefix(string(d), arrayPrefix)
}

// Element returns the element type of an array type, or d unchanged if d is
// not an array type.
func (d DataType) Element() DataType {
	if !d.IsArray() {
		return d
	}
	return DataType(strings.TrimPrefix(string(d), arrayPrefix))
}

// ArrayOf returns the array-of-d type.
func (d DataType) ArrayOf() DataType {
	return DataType(arrayPrefix + string(d))
}

// Transform tags the edge-level coercion the connector/type-checker applies
// so a produced value matches what the consumer declared.
type Transform int

const (
	// TransformNone means the producer and consumer types line up exactly.
	TransformNone Transform = iota
	// TransformWrap lifts a scalar value into a single-element array because
	// the producer is T and the consumer is Array/T.
	TransformWrap
	// TransformUnwrap iterates an array value element-wise because the
	// producer is Array/T and the consumer is T.
	TransformUnwrap
)

func (t Transform) String() string {
	switch t {
	case TransformWrap:
		return "wrap"
	case TransformUnwrap:
		return "unwrap"
	default:
		return "none"
	}
}

// Assignable reports whether a value of type from may flow to a port
// declared as type to, and if so, what edge transform (if any) makes it so.
// Assignability is not symmetric: Json accepts everything, T accepts T,
// Array/T accepts Array/T and (by lifting) T, and T accepts Array/T (by
// unwrapping) only when the consumer's element type matches.
func Assignable(from, to DataType) (ok bool, transform Transform) {
	if to == Json {
		return true, TransformNone
	}
	if from == to {
		return true, TransformNone
	}
	switch {
	case to.IsArray() && !from.IsArray():
		// T -> Array/T: lift, provided element types line up (or the
		// consumer's element type is Json).
		if to.Element() == from || to.Element() == Json {
			return true, TransformWrap
		}
	case !to.IsArray() && from.IsArray():
		// Array/T -> T: iterate, provided element types line up.
		if from.Element() == to {
			return true, TransformUnwrap
		}
	case to.IsArray() && from.IsArray():
		if ok, inner := Assignable(from.Element(), to.Element()); ok {
			return true, inner
		}
	}
	return false, TransformNone
}

// Known reports whether d is one of the built-in primitive types or a
// well-formed Array/... composition of one. Custom scalar type names (e.g.
// a library's own struct type) are accepted too as long as they are
// non-empty; this only rejects the empty string and malformed array
// suffixes like "Array/".
func (d DataType) Known() bool {
	if d == "" {
		return false
	}
	if d.IsArray() {
		return d.Element() != "" && d.Element().Known()
	}
	return true
}

// builtinTypes lists the primitive datatypes the compiler recognizes by
// name for "did you mean" suggestions; custom library types are still
// accepted structurally (see Known) but won't appear in suggestions unless
// registered via RegisterType.
var builtinTypes = []string{
	"Json", "String", "Number", "Boolean", "Bytes", "Object",
}

// RegisteredTypeNames returns builtin type names plus any registered via
// RegisterType, for building suggestion indexes.
func RegisteredTypeNames() []string {
	out := make([]string, len(builtinTypes))
	copy(out, builtinTypes)
	return append(out, extraTypes...)
}

var extraTypes []string

// RegisterType adds a custom scalar type name to the suggestion index used
// by UnknownDataTypeError messages. It has no effect on Assignable, which
// is purely structural.
func RegisterType(name string) {
	extraTypes = append(extraTypes, name)
}
