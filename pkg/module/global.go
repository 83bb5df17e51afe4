package module

import "sync"

var (
	defaultLoader     *Loader
	defaultLoaderOnce sync.Once
)

// Default returns the process-wide Loader, creating it on first use.
func Default() *Loader {
	defaultLoaderOnce.Do(func() {
		defaultLoader = NewLoader()
	})
	return defaultLoader
}

// Define calls Define on the process-wide Loader.
func Define(args ...any) (any, error) {
	return Default().Define(args...)
}

// DefineNamed calls DefineNamed on the process-wide Loader.
func DefineNamed(id string, deps []string, factory Factory) (Exports, error) {
	return Default().DefineNamed(id, deps, factory)
}

// DefineAnonymous calls DefineAnonymous on the process-wide Loader.
func DefineAnonymous(deps []string, factory Factory) (Exports, error) {
	return Default().DefineAnonymous(deps, factory)
}

// DefineNamedFactory calls DefineNamedFactory on the process-wide Loader.
func DefineNamedFactory(id string, factory Factory) (Exports, error) {
	return Default().DefineNamedFactory(id, factory)
}

// DefineFactory calls DefineFactory on the process-wide Loader.
func DefineFactory(factory Factory) (Exports, error) {
	return Default().DefineFactory(factory)
}

// DefineValue calls DefineValue on the process-wide Loader.
func DefineValue(id string, value Exports) (Exports, error) {
	return Default().DefineValue(id, value)
}

// Require calls Require on the process-wide Loader.
func Require(id string, cb Callback) (Exports, error) {
	return Default().Require(id, cb)
}

// RequireAll calls RequireAll on the process-wide Loader.
func RequireAll(ids []string, cb Callback) (*Bundle, error) {
	return Default().RequireAll(ids, cb)
}

// Has reports whether the process-wide Loader has a module named id.
func Has(id string) bool {
	return Default().Has(id)
}

// Records returns the process-wide Loader's records in registration order.
func Records() []Record {
	return Default().Records()
}
