package flow

import "encoding/json"

// Validate checks a Function's own well-formedness: non-empty name, known
// port types, and parseable initializers. It does not check connections or
// cross-node invariants — that is the compiler's job once routes exist.
func (f *Function) Validate() error {
	if !f.Name.Valid() {
		return New(KindValidationError, f.Route, "function name must be non-empty and slash-free")
	}
	if f.Implementation == "" {
		return New(KindValidationError, f.Route, "function has no implementation reference")
	}
	for _, p := range f.Inputs {
		if err := validatePort(p); err != nil {
			return err
		}
	}
	for _, p := range f.Outputs {
		if err := validatePort(p); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a Flow's own well-formedness, recursing into child
// flows and functions.
func (fl *Flow) Validate() error {
	if !fl.Name.Valid() {
		return New(KindValidationError, fl.Route, "flow name must be non-empty and slash-free")
	}
	for _, p := range fl.Inputs {
		if err := validatePort(p); err != nil {
			return err
		}
	}
	for _, p := range fl.Outputs {
		if err := validatePort(p); err != nil {
			return err
		}
	}
	for _, child := range fl.Functions {
		if err := child.Validate(); err != nil {
			return err
		}
	}
	for _, child := range fl.Flows {
		if err := child.Validate(); err != nil {
			return err
		}
	}
	for _, c := range fl.Connections {
		if c.From == "" || c.To == "" {
			return New(KindValidationError, fl.Route, "connection endpoints must be non-empty")
		}
	}
	return nil
}

func validatePort(p *Port) error {
	if !p.Name.Valid() {
		return New(KindValidationError, p.Route, "port name must be non-empty and slash-free")
	}
	if !p.Type.Known() {
		return UnknownDataTypeError(p.Route, string(p.Type))
	}
	if p.Direction == Output && p.Initializer != nil {
		return New(KindValidationError, p.Route, "output ports cannot carry an initializer")
	}
	if p.Initializer != nil && !json.Valid(p.Initializer) {
		return New(KindValidationError, p.Route, "initializer is not valid JSON")
	}
	return nil
}
