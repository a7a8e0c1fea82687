package cache

import (
	"context"
	"fmt"

	"github.com/flowlattice/flowlattice/pkg/flow/runtime"
)

// Functions exposes Store as the two flow Implementations a graph can
// wire against: "lib://cache/get" and "lib://cache/set".
type Functions struct {
	Store Store
}

// Get returns an Implementation taking a string key and producing its
// cached value, or no output if the key is absent.
func (f *Functions) Get() runtime.Implementation {
	return runtime.ImplementationFunc(func(_ context.Context, inputs []any) (any, runtime.RunAgain, error) {
		key, ok := inputs[0].(string)
		if !ok {
			return nil, runtime.Continue, fmt.Errorf("cache get: key must be a string")
		}
		raw, found, err := f.Store.Get(key)
		if err != nil {
			return nil, runtime.Continue, err
		}
		if !found {
			return nil, runtime.Continue, nil
		}
		return string(raw), runtime.Continue, nil
	})
}

// Set returns an Implementation taking {key, value} and persisting value
// under key, producing the value back out so Set can sit mid-chain.
func (f *Functions) Set() runtime.Implementation {
	return runtime.ImplementationFunc(func(_ context.Context, inputs []any) (any, runtime.RunAgain, error) {
		key, ok := inputs[0].(string)
		if !ok {
			return nil, runtime.Continue, fmt.Errorf("cache set: key must be a string")
		}
		value := fmt.Sprint(inputs[1])
		if err := f.Store.Set(key, []byte(value)); err != nil {
			return nil, runtime.Continue, err
		}
		return inputs[1], runtime.Continue, nil
	})
}
