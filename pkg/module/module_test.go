package module_test

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/arthur-debert/modreg/pkg/errors"
	"github.com/arthur-debert/modreg/pkg/logging"
	"github.com/arthur-debert/modreg/pkg/module"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noop returns a factory that only counts its invocations.
func noop(calls *int) module.Factory {
	return func(module.Resolver, module.Exports, *module.Descriptor, ...module.Exports) (module.Exports, error) {
		*calls++
		return nil, nil
	}
}

func TestLibraryUseIsQuietByDefault(t *testing.T) {
	// nothing in this package calls logging.SetupLogger
	assert.Equal(t, logging.DefaultLevel, zerolog.GlobalLevel())
	assert.Equal(t, zerolog.WarnLevel, logging.DefaultLevel)
}

func TestEndToEndScenario(t *testing.T) {
	l := module.NewLoader()

	_, err := l.DefineValue("HMY", module.Exports{"version": "4.0"})
	require.NoError(t, err)

	_, err = l.DefineNamed("tool", []string{"HMY"}, func(r module.Resolver, exports module.Exports, mod *module.Descriptor, deps ...module.Exports) (module.Exports, error) {
		hmy, err := r.Require("HMY", nil)
		require.NoError(t, err)
		require.Len(t, deps, 1)
		assert.Equal(t, hmy, deps[0])
		assert.Equal(t, "tool", mod.ID)

		exports["add"] = func(x, y float64) float64 { return x + y }
		return nil, nil
	})
	require.NoError(t, err)

	_, err = l.DefineAnonymous([]string{"tool"}, func(r module.Resolver, exports module.Exports, mod *module.Descriptor, deps ...module.Exports) (module.Exports, error) {
		add := deps[0]["add"].(func(float64, float64) float64)
		assert.Equal(t, 9.0, add(8, 1))

		mod.ID = "plus"

		exports["half"] = func(x float64) float64 { return x / 2 }

		double := func(x float64) float64 { return add(x, x) }
		triple := func(x float64) float64 { return add(double(x), x) }
		return module.Exports{"double": double, "triple": triple}, nil
	})
	require.NoError(t, err)

	plus, err := l.Require("plus", nil)
	require.NoError(t, err)

	assert.Equal(t, 16.0, plus["double"].(func(float64) float64)(8))
	assert.Equal(t, 24.0, plus["triple"].(func(float64) float64)(8))
	assert.Equal(t, 4.0, plus["half"].(func(float64) float64)(8))

	calls := 0
	_, err = l.DefineNamedFactory("test", func(r module.Resolver, exports module.Exports, mod *module.Descriptor, deps ...module.Exports) (module.Exports, error) {
		assert.Empty(t, deps)
		all, err := r.RequireAll([]string{"HMY", "plus"}, func(module.Exports) { calls++ })
		if err != nil {
			return nil, err
		}
		exports["loaded"] = all.IDs()
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	test, err := l.Require("test", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"HMY", "plus"}, test["loaded"])

	var ids []string
	for _, rec := range l.Records() {
		ids = append(ids, rec.ID)
	}
	assert.Equal(t, []string{"HMY", "tool", "plus", "test"}, ids)
}

func TestUniqueness(t *testing.T) {
	l := module.NewLoader()

	first, err := l.DefineValue("X", module.Exports{"n": 1})
	require.NoError(t, err)

	t.Run("value twice", func(t *testing.T) {
		_, err := l.DefineValue("X", module.Exports{"n": 2})
		assert.True(t, errors.IsErrorCode(err, errors.ErrModuleExists), "got %v", err)
		assert.Equal(t, "X", errors.GetErrorDetails(err)["id"])
	})

	t.Run("factory with taken id", func(t *testing.T) {
		calls := 0
		_, err := l.DefineNamedFactory("X", noop(&calls))
		assert.True(t, errors.IsErrorCode(err, errors.ErrModuleExists), "got %v", err)
		assert.Equal(t, 1, calls, "factory runs before the commit check")
	})

	t.Run("anonymous module claiming taken id", func(t *testing.T) {
		_, err := l.DefineFactory(func(_ module.Resolver, _ module.Exports, mod *module.Descriptor, _ ...module.Exports) (module.Exports, error) {
			mod.ID = "X"
			return nil, nil
		})
		assert.True(t, errors.IsErrorCode(err, errors.ErrModuleExists), "got %v", err)
	})

	got, err := l.Require("X", nil)
	require.NoError(t, err)
	assert.Equal(t, first, got)
	assert.Equal(t, module.Exports{"n": 1}, got)
	assert.Equal(t, 1, l.Len())
}

func TestDependencyGating(t *testing.T) {
	l := module.NewLoader()
	_, err := l.DefineValue("a", module.Exports{})
	require.NoError(t, err)

	tests := []struct {
		name    string
		deps    []string
		missing string
	}{
		{"single missing", []string{"nope"}, "nope"},
		{"missing after present", []string{"a", "b"}, "b"},
		{"first missing wins", []string{"c", "a", "d"}, "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			_, err := l.DefineNamed("gated", tt.deps, noop(&calls))

			assert.True(t, errors.IsErrorCode(err, errors.ErrDependencyNotLoaded), "got %v", err)
			assert.Equal(t, tt.missing, errors.GetErrorDetails(err)["id"])
			assert.Contains(t, err.Error(), tt.missing)
			assert.Equal(t, 0, calls)
			assert.False(t, l.Has("gated"))
			assert.Equal(t, 1, l.Len())
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		calls := 0
		_, err := l.DefineAnonymous([]string{"missing"}, noop(&calls))
		assert.True(t, errors.IsErrorCode(err, errors.ErrDependencyNotLoaded))
		assert.Equal(t, 0, calls)
	})
}

func TestDeduplication(t *testing.T) {
	l := module.NewLoader()
	a, err := l.DefineValue("a", module.Exports{"name": "a"})
	require.NoError(t, err)
	b, err := l.DefineValue("b", module.Exports{"name": "b"})
	require.NoError(t, err)

	var got []module.Exports
	_, err = l.DefineNamed("c", []string{"a", "a", "b", "a"}, func(_ module.Resolver, _ module.Exports, _ *module.Descriptor, deps ...module.Exports) (module.Exports, error) {
		got = deps
		return nil, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []module.Exports{a, b}, got)

	recs := l.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"a", "b"}, recs[2].Deps)
}

func TestDescriptorDepsDoNotLeakIntoRecord(t *testing.T) {
	l := module.NewLoader()
	_, err := l.DefineValue("A", module.Exports{})
	require.NoError(t, err)

	var kept *module.Descriptor
	_, err = l.DefineNamed("B", []string{"A"}, func(_ module.Resolver, _ module.Exports, mod *module.Descriptor, _ ...module.Exports) (module.Exports, error) {
		assert.Equal(t, []string{"A"}, mod.Deps)
		mod.Deps = append(mod.Deps, "ghost")
		kept = mod
		return nil, nil
	})
	require.NoError(t, err)

	recs := l.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"A"}, recs[1].Deps)

	kept.Deps[0] = "mutated"
	kept.Deps = []string{"other"}
	assert.Equal(t, []string{"A"}, l.Records()[1].Deps)
	assert.False(t, l.Has("ghost"))
	assert.Equal(t, []string{"A", "B"}, l.IDs())
}

func TestExportMerge(t *testing.T) {
	l := module.NewLoader()

	exports, err := l.DefineNamedFactory("merged", func(_ module.Resolver, exports module.Exports, _ *module.Descriptor, _ ...module.Exports) (module.Exports, error) {
		exports["kept"] = "exports"
		exports["shared"] = "exports"
		return module.Exports{"shared": "returned", "added": "returned"}, nil
	})
	require.NoError(t, err)

	want := module.Exports{"kept": "exports", "shared": "returned", "added": "returned"}
	assert.Equal(t, want, exports)

	got, err := l.Require("merged", nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExportsAreShared(t *testing.T) {
	l := module.NewLoader()

	var captured module.Exports
	built, err := l.DefineNamedFactory("shared", func(_ module.Resolver, exports module.Exports, _ *module.Descriptor, _ ...module.Exports) (module.Exports, error) {
		captured = exports
		return nil, nil
	})
	require.NoError(t, err)

	captured["late"] = true

	got, err := l.Require("shared", nil)
	require.NoError(t, err)
	assert.Equal(t, true, got["late"])
	assert.Equal(t, true, built["late"])
}

func TestRawValueRegistration(t *testing.T) {
	l := module.NewLoader()

	_, err := l.DefineValue("X", module.Exports{"version": "4.0"})
	require.NoError(t, err)

	got, err := l.Require("X", nil)
	require.NoError(t, err)
	assert.Equal(t, module.Exports{"version": "4.0"}, got)

	recs := l.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, []string{}, recs[0].Deps)

	t.Run("nil value becomes empty exports", func(t *testing.T) {
		got, err := l.DefineValue("empty", nil)
		require.NoError(t, err)
		assert.Equal(t, module.Exports{}, got)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := l.DefineValue("", module.Exports{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestAnonymousModulesAreNotStored(t *testing.T) {
	l := module.NewLoader()

	exports, err := l.DefineFactory(func(_ module.Resolver, exports module.Exports, _ *module.Descriptor, deps ...module.Exports) (module.Exports, error) {
		assert.Nil(t, deps)
		exports["x"] = 1
		return nil, nil
	})
	require.NoError(t, err)

	assert.Equal(t, module.Exports{"x": 1}, exports)
	assert.Equal(t, 0, l.Len())
}

func TestFactoryError(t *testing.T) {
	l := module.NewLoader()
	cause := stderrors.New("boom")

	_, err := l.DefineNamedFactory("broken", func(module.Resolver, module.Exports, *module.Descriptor, ...module.Exports) (module.Exports, error) {
		return module.Exports{"x": 1}, cause
	})

	assert.True(t, errors.IsErrorCode(err, errors.ErrFactoryFailed), "got %v", err)
	assert.ErrorIs(t, err, cause)
	assert.False(t, l.Has("broken"))

	_, err = l.DefineFactory(func(module.Resolver, module.Exports, *module.Descriptor, ...module.Exports) (module.Exports, error) {
		return nil, cause
	})
	assert.Contains(t, err.Error(), "<anonymous>")
}

func TestRequire(t *testing.T) {
	l := module.NewLoader()
	a, err := l.DefineValue("A", module.Exports{"name": "A"})
	require.NoError(t, err)
	b, err := l.DefineValue("B", module.Exports{"name": "B"})
	require.NoError(t, err)

	t.Run("single with callback", func(t *testing.T) {
		var seen module.Exports
		got, err := l.Require("A", func(e module.Exports) { seen = e })
		require.NoError(t, err)
		assert.Equal(t, a, got)
		assert.Equal(t, a, seen)
	})

	t.Run("missing", func(t *testing.T) {
		called := false
		_, err := l.Require("Z", func(module.Exports) { called = true })
		assert.True(t, errors.IsErrorCode(err, errors.ErrModuleNotBuilt), "got %v", err)
		assert.Contains(t, err.Error(), "Z")
		assert.False(t, called)
	})

	t.Run("batch", func(t *testing.T) {
		var seen []module.Exports
		bundle, err := l.RequireAll([]string{"A", "B"}, func(e module.Exports) { seen = append(seen, e) })
		require.NoError(t, err)

		assert.Equal(t, []string{"A", "B"}, bundle.IDs())
		assert.Equal(t, map[string]module.Exports{"A": a, "B": b}, bundle.Map())
		assert.Equal(t, []module.Exports{a, b}, seen)

		got, ok := bundle.Get("B")
		assert.True(t, ok)
		assert.Equal(t, b, got)
		_, ok = bundle.Get("Z")
		assert.False(t, ok)
	})

	t.Run("batch keeps first order on repeats", func(t *testing.T) {
		calls := 0
		bundle, err := l.RequireAll([]string{"B", "A", "B"}, func(module.Exports) { calls++ })
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "A"}, bundle.IDs())
		assert.Equal(t, 2, bundle.Len())
		assert.Equal(t, 3, calls)
	})

	t.Run("batch with missing id fails whole call", func(t *testing.T) {
		bundle, err := l.RequireAll([]string{"A", "Z", "B"}, nil)
		assert.Nil(t, bundle)
		assert.True(t, errors.IsErrorCode(err, errors.ErrModuleNotBuilt))
		assert.Equal(t, "Z", errors.GetErrorDetails(err)["id"])
	})

	t.Run("empty batch", func(t *testing.T) {
		bundle, err := l.RequireAll(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, bundle.Len())
	})
}

func TestInvalidInput(t *testing.T) {
	l := module.NewLoader()

	_, err := l.DefineNamed("", nil, noop(new(int)))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = l.DefineNamed("x", nil, nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = l.DefineNamedFactory("", noop(new(int)))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = l.DefineFactory(nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestConcurrentDefineSameID(t *testing.T) {
	l := module.NewLoader()
	const goroutines = 16

	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures int

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := l.DefineValue("once", module.Exports{"n": n})
			if err != nil {
				mu.Lock()
				failures++
				mu.Unlock()
				assert.True(t, errors.IsErrorCode(err, errors.ErrModuleExists))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, goroutines-1, failures)
	assert.Equal(t, 1, l.Len())
}
