// Command flowc compiles a flow definition tree into a manifest. It is a
// thin CLI wrapper: argument parsing is stdlib flag only, since
// CLI-surface parsing is explicitly out of core scope (spec §1) — the
// justified exception to "use a pack library for this concern" is that
// there is no concern here to delegate, just a handful of flags crossing
// into the core via loader.Load and compiler.Compile.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/flowlattice/flowlattice/pkg/flow"
	"github.com/flowlattice/flowlattice/pkg/flow/compiler"
	"github.com/flowlattice/flowlattice/pkg/flow/library"
	cachelib "github.com/flowlattice/flowlattice/pkg/flow/library/cache"
	libcontext "github.com/flowlattice/flowlattice/pkg/flow/library/context"
	"github.com/flowlattice/flowlattice/pkg/flow/loader"
	"github.com/flowlattice/flowlattice/pkg/flow/loader/yamlfmt"
	"github.com/flowlattice/flowlattice/pkg/flow/manifest"
	"github.com/flowlattice/flowlattice/pkg/flow/provider/fileprovider"
)

type libFlags []string

func (l *libFlags) String() string     { return strings.Join(*l, ",") }
func (l *libFlags) Set(v string) error { *l = append(*l, v); return nil }

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	_ = godotenv.Load() // best-effort; a missing .env file is ignored

	fs := flag.NewFlagSet("flowc", flag.ContinueOnError)
	out := fs.String("o", ".", "output directory for the compiled manifest")
	strict := fs.Bool("strict", false, "escalate unreachable functions to a hard error")
	var libs libFlags
	fs.Var(&libs, "lib", "library manifest URL to load (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: flowc <input_url> [-o dir] [--lib url]...")
		return 2
	}
	inputURL := fs.Arg(0)
	// flag stops at the first positional argument; parse the flags after it.
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return 2
	}

	ctx := context.Background()
	provider := fileprovider.New()
	l := loader.New(provider, yamlfmt.New())
	l.Extensions = []string{".flow.yaml", ".yaml", ".yml"}

	root, err := l.Load(ctx, inputURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load:", err)
		if isIOError(err) {
			return 2
		}
		return 1
	}

	catalog := library.New().WithControl().WithContext(&libcontext.Context{}).WithCache(cachelib.NewMemoryStore())

	res, err := compiler.Compile(root, compiler.Options{Strict: *strict, Catalog: catalog})
	if err != nil {
		fmt.Fprintln(os.Stderr, "compile:", err)
		return 1
	}

	var libRefs []flow.LibraryRef
	for _, u := range libs {
		lm, err := loadLibraryManifest(ctx, provider, u)
		if err != nil {
			fmt.Fprintln(os.Stderr, "library:", err)
			return 2
		}
		libRefs = append(libRefs, flow.LibraryRef{Name: lm.Name, Version: lm.Version, URL: u})
	}

	meta := flow.Metadata{Name: string(rootName(root))}
	m, err := manifest.FromCompiled(res, meta, libRefs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "manifest:", err)
		return 1
	}
	if err := m.Validate(catalog); err != nil {
		fmt.Fprintln(os.Stderr, "manifest validate:", err)
		return 1
	}

	data, err := manifest.Encode(m)
	if err != nil {
		fmt.Fprintln(os.Stderr, "encode:", err)
		return 1
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "mkdir:", err)
		return 2
	}
	outPath := filepath.Join(*out, "manifest.json")
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "write:", err)
		return 2
	}

	fmt.Println("wrote", outPath)
	return 0
}

func rootName(n flow.Node) flow.Name {
	switch v := n.(type) {
	case *flow.Function:
		return v.Name
	case *flow.Flow:
		return v.Name
	default:
		return ""
	}
}

func loadLibraryManifest(ctx context.Context, p *fileprovider.Provider, url string) (*manifest.LibraryManifest, error) {
	resolved, _, err := p.ResolveURL(ctx, url, "library", []string{".json"})
	if err != nil {
		return nil, err
	}
	data, err := p.GetContents(ctx, resolved)
	if err != nil {
		return nil, err
	}
	if err := manifest.ValidateLibraryManifestSchema(data); err != nil {
		return nil, err
	}
	return manifest.DecodeLibraryManifest(data)
}

func isIOError(err error) bool {
	fe, ok := err.(*flow.Error)
	return ok && fe.Kind == flow.KindNotFound
}
