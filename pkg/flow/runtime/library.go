package runtime

import "github.com/flowlattice/flowlattice/pkg/flow/manifest"

// Library resolves an implementation locator (e.g. "lib://math/add" or a
// manifest-embedded native key) to a runnable Implementation. It satisfies
// manifest.ImplementationResolver so the same catalog validates a manifest
// at load time and drives dispatch at run time.
type Library interface {
	manifest.ImplementationResolver
	Lookup(locator string) (Implementation, bool)
}
