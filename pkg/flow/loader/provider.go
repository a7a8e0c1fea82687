// Package loader loads a tree of flow definitions from a root URL via a
// pluggable Provider and Deserializer, producing a validated in-memory
// flow.Node (flow.Flow or flow.Function), per spec §4.1.
//
// The Provider and Deserializer interfaces are the boundary the core
// consumes; flowlattice treats concrete schemes (file://, http://, lib://)
// and concrete authoring syntaxes as external collaborators. Reference
// implementations live in sibling packages (provider/fileprovider,
// loader/yamlfmt) so the compiler can be exercised end-to-end without
// pulling a particular transport or codec into the core.
package loader

import (
	"context"
)

// Provider resolves a URL to its final form (appending a default filename
// or mapping a lib:// reference to a concrete location) and fetches its
// bytes. Schemes observed in practice: file://, http(s)://, lib://.
type Provider interface {
	// ResolveURL returns the fully resolved URL for url, given the default
	// filename to try if url names a directory, and the set of extensions
	// to search for if url has none. libRef is non-empty when resolution
	// passed through a lib:// mapping.
	ResolveURL(ctx context.Context, url string, defaultFilename string, extensions []string) (resolvedURL string, libRef string, err error)

	// GetContents fetches the bytes at a resolved URL.
	GetContents(ctx context.Context, url string) ([]byte, error)
}

// Deserializer decodes bytes fetched from a URL into a Doc: either a
// *FunctionDoc wrapping a finished flow.Function, or a *FlowDoc describing a
// flow whose process references the loader still has to resolve and
// recurse into. localName is the local alias under which the node will be
// mounted in its parent, used only to seed error messages and names before
// the flattener assigns a real Route.
type Deserializer interface {
	// Accepts reports whether this deserializer handles the given resolved
	// URL (typically by file extension).
	Accepts(resolvedURL string) bool
	Deserialize(localName string, data []byte) (Doc, error)
}
