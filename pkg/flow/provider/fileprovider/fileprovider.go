// Package fileprovider is the reference loader.Provider implementation for
// file:// (and bare filesystem path) URLs. Content providers are an
// external-collaborator boundary per spec §1/§6; flowlattice ships this
// one reference implementation, built on os/path/filepath only, so the
// compiler can be exercised end-to-end without pulling a transport library
// into the core for the single-scheme case.
package fileprovider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider resolves and fetches file:// URLs and bare paths; relative paths
// are taken relative to the process working directory.
type Provider struct{}

// New returns a file Provider.
func New() *Provider { return &Provider{} }

func stripScheme(url string) string {
	return strings.TrimPrefix(url, "file://")
}

// ResolveURL finds the file named by url. If url names a directory, it
// tries defaultFilename with each extension in turn; if url is not an
// existing file, it tries url with each extension appended in turn.
func (Provider) ResolveURL(_ context.Context, url string, defaultFilename string, extensions []string) (string, string, error) {
	p := stripScheme(url)

	if info, err := os.Stat(p); err == nil && info.IsDir() {
		for _, ext := range extensions {
			candidate := filepath.Join(p, defaultFilename+ext)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, "", nil
			}
		}
		return "", "", fmt.Errorf("directory %s has no %s.* file", p, defaultFilename)
	}

	if _, err := os.Stat(p); err == nil {
		return p, "", nil
	}

	for _, ext := range extensions {
		candidate := p + ext
		if _, err := os.Stat(candidate); err == nil {
			return candidate, "", nil
		}
	}

	return "", "", fmt.Errorf("not found: %s", p)
}

// GetContents reads the resolved file's bytes.
func (Provider) GetContents(_ context.Context, url string) ([]byte, error) {
	return os.ReadFile(stripScheme(url))
}
