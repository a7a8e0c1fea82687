package loader

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/flowlattice/flowlattice/pkg/flow"
)

// DefaultFilename is tried when a URL names a directory rather than a file.
const DefaultFilename = "root"

// Loader loads a tree of flow definitions rooted at a URL.
type Loader struct {
	Provider      Provider
	Deserializers []Deserializer
	Extensions    []string // searched, in order, when a URL has no extension
}

// New creates a Loader with the given Provider and Deserializers. The
// deserializers are tried in order via Accepts.
func New(provider Provider, deserializers ...Deserializer) *Loader {
	exts := make([]string, 0, len(deserializers))
	return &Loader{Provider: provider, Deserializers: deserializers, Extensions: exts}
}

// Load resolves url, fetches and decodes it (recursing into every child
// reference for a Flow), and validates the resulting tree.
func (l *Loader) Load(ctx context.Context, url string) (flow.Node, error) {
	node, err := l.loadURL(ctx, url, "", nil)
	if err != nil {
		return nil, err
	}
	if err := validateNode(node); err != nil {
		return nil, err
	}
	return node, nil
}

func (l *Loader) loadURL(ctx context.Context, url string, alias string, ancestry []string) (flow.Node, error) {
	resolved, _, err := l.Provider.ResolveURL(ctx, url, DefaultFilename, l.Extensions)
	if err != nil {
		return nil, flow.Wrap(flow.KindNotFound, flow.Route(alias), "resolving "+url, err)
	}
	for _, a := range ancestry {
		if a == resolved {
			return nil, flow.New(flow.KindDefinitionCycle, flow.Route(alias),
				fmt.Sprintf("cycle loading %s: %s", resolved, strings.Join(append(ancestry, resolved), " -> ")))
		}
	}
	ancestry = append(append([]string{}, ancestry...), resolved)

	data, err := l.Provider.GetContents(ctx, resolved)
	if err != nil {
		return nil, flow.Wrap(flow.KindNotFound, flow.Route(alias), "fetching "+resolved, err)
	}

	d := l.pick(resolved)
	if d == nil {
		return nil, flow.New(flow.KindParseError, flow.Route(alias), "no deserializer accepts "+resolved)
	}
	doc, err := d.Deserialize(alias, data)
	if err != nil {
		return nil, flow.Wrap(flow.KindParseError, flow.Route(alias), "parsing "+resolved, err)
	}

	switch v := doc.(type) {
	case *FunctionDoc:
		if v.Function.Name == "" {
			v.Function.Name = flow.Name(alias)
		}
		return v.Function, nil
	case *FlowDoc:
		fl := &flow.Flow{
			Name:        v.Name,
			Inputs:      v.Inputs,
			Outputs:     v.Outputs,
			Connections: v.Connections,
		}
		if fl.Name == "" {
			fl.Name = flow.Name(alias)
		}
		base := path.Dir(resolved)
		for _, ref := range v.Process {
			childURL := ref.Source
			if !strings.Contains(childURL, "://") && !path.IsAbs(childURL) {
				childURL = path.Join(base, childURL)
			}
			child, err := l.loadURL(ctx, childURL, ref.Alias, ancestry)
			if err != nil {
				return nil, err
			}
			switch c := child.(type) {
			case *flow.Function:
				fl.Functions = append(fl.Functions, c)
			case *flow.Flow:
				fl.Flows = append(fl.Flows, c)
			}
		}
		return fl, nil
	default:
		return nil, flow.New(flow.KindParseError, flow.Route(alias), "deserializer returned unknown doc type")
	}
}

func (l *Loader) pick(resolvedURL string) Deserializer {
	for _, d := range l.Deserializers {
		if d.Accepts(resolvedURL) {
			return d
		}
	}
	return nil
}

func validateNode(n flow.Node) error {
	switch v := n.(type) {
	case *flow.Function:
		return v.Validate()
	case *flow.Flow:
		return v.Validate()
	default:
		return fmt.Errorf("unknown node type %T", n)
	}
}
