// Package yamlfmt is the reference authoring-syntax deserializer: it
// decodes ".flow.yaml"/".yaml"/".yml" files into loader.Doc values using
// github.com/goccy/go-yaml, the YAML codec the teacher pack (and the
// original Rust implementation's own yaml_deserializer) both reach for.
// Deserializers are an external-collaborator boundary per spec §1; this is
// the one reference implementation flowlattice ships so the compiler can
// be exercised end-to-end.
package yamlfmt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/flowlattice/flowlattice/pkg/flow"
	"github.com/flowlattice/flowlattice/pkg/flow/loader"
)

// Deserializer implements loader.Deserializer for YAML-authored flows and
// functions.
type Deserializer struct{}

// New returns a YAML Deserializer.
func New() *Deserializer { return &Deserializer{} }

// Accepts matches .yaml, .yml, and .flow.yaml extensions.
func (Deserializer) Accepts(resolvedURL string) bool {
	for _, ext := range []string{".yaml", ".yml"} {
		if strings.HasSuffix(resolvedURL, ext) {
			return true
		}
	}
	return false
}

type yamlPort struct {
	Name    string          `yaml:"name"`
	Type    string          `yaml:"type"`
	Depth   int             `yaml:"depth,omitempty"`
	Default json.RawMessage `yaml:"default,omitempty"`
}

type yamlConnection struct {
	Name string `yaml:"name,omitempty"`
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type yamlProcessRef struct {
	Alias  string `yaml:"alias"`
	Source string `yaml:"source"`
}

type yamlDoc struct {
	Kind        string                     `yaml:"kind"` // "flow" or "function"
	Name        string                     `yaml:"name"`
	Implementation string                  `yaml:"implementation,omitempty"`
	RunAlways   bool                       `yaml:"run_always,omitempty"`
	Inputs      []yamlPort                 `yaml:"inputs,omitempty"`
	Outputs     []yamlPort                 `yaml:"outputs,omitempty"`
	InitialValues map[string]json.RawMessage `yaml:"initial_values,omitempty"`
	Process     []yamlProcessRef           `yaml:"process,omitempty"`
	Connections []yamlConnection           `yaml:"connections,omitempty"`
}

// Deserialize decodes data into a loader.FunctionDoc or loader.FlowDoc
// depending on the document's "kind" field.
func (Deserializer) Deserialize(localName string, data []byte) (loader.Doc, error) {
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	name := doc.Name
	if name == "" {
		name = localName
	}

	switch doc.Kind {
	case "function":
		fn := &flow.Function{
			Name:           flow.Name(name),
			Implementation: doc.Implementation,
			RunAlways:      doc.RunAlways,
		}
		for _, p := range doc.Inputs {
			port := &flow.Port{
				Name:      flow.Name(p.Name),
				Type:      flow.DataType(p.Type),
				Direction: flow.Input,
				Depth:     p.Depth,
			}
			if v, ok := doc.InitialValues[p.Name]; ok {
				port.Initializer = v
			} else if p.Default != nil {
				port.Initializer = p.Default
			}
			fn.Inputs = append(fn.Inputs, port)
		}
		for _, p := range doc.Outputs {
			fn.Outputs = append(fn.Outputs, &flow.Port{
				Name:      flow.Name(p.Name),
				Type:      flow.DataType(p.Type),
				Direction: flow.Output,
			})
		}
		return &loader.FunctionDoc{Function: fn}, nil

	case "flow", "":
		fd := &loader.FlowDoc{Name: flow.Name(name)}
		for _, p := range doc.Inputs {
			port := &flow.Port{
				Name:      flow.Name(p.Name),
				Type:      flow.DataType(p.Type),
				Direction: flow.Input,
				Depth:     p.Depth,
			}
			if p.Default != nil {
				port.Initializer = p.Default
			}
			fd.Inputs = append(fd.Inputs, port)
		}
		for _, p := range doc.Outputs {
			fd.Outputs = append(fd.Outputs, &flow.Port{
				Name:      flow.Name(p.Name),
				Type:      flow.DataType(p.Type),
				Direction: flow.Output,
			})
		}
		for _, pr := range doc.Process {
			fd.Process = append(fd.Process, loader.ProcessRef{Alias: pr.Alias, Source: pr.Source})
		}
		for _, c := range doc.Connections {
			fd.Connections = append(fd.Connections, &flow.Connection{
				Name: flow.Name(c.Name),
				From: flow.Route(c.From),
				To:   flow.Route(c.To),
			})
		}
		return fd, nil

	default:
		return nil, fmt.Errorf("unknown document kind %q", doc.Kind)
	}
}
