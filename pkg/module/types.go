package module

// Exports is the public surface of a module. Dependents receive the same map
// the module was built with, so writes after construction are visible to them.
type Exports map[string]any

// Record is the registry's stored unit.
type Record struct {
	ID      string
	Deps    []string
	Exports Exports
}

// Factory builds a module's exports.
//
// It receives a resolver for further lookups, the fresh exports map of the
// module being built, the module's descriptor and, when the module declares
// dependencies, one Exports per validated dependency id in order.
type Factory func(r Resolver, exports Exports, mod *Descriptor, deps ...Exports) (Exports, error)

// Descriptor is a module under construction. A factory may set ID to name
// an otherwise anonymous module; the ID read after the factory returns is
// the one that gets registered. Deps is a private copy of the validated
// dependency ids; editing it does not change what gets registered.
type Descriptor struct {
	ID      string
	Deps    []string
	HasDeps bool
	Factory Factory
}

// Callback is invoked with a module's exports after a successful lookup.
type Callback func(Exports)

// Resolver looks up already-built modules by id.
type Resolver interface {
	Require(id string, cb Callback) (Exports, error)
	RequireAll(ids []string, cb Callback) (*Bundle, error)
}

// Bundle is the result of a batch lookup: exports keyed by id, in the order
// the ids were first requested.
type Bundle struct {
	ids  []string
	byID map[string]Exports
}

func newBundle() *Bundle {
	return &Bundle{byID: make(map[string]Exports)}
}

func (b *Bundle) put(id string, exports Exports) {
	if _, seen := b.byID[id]; !seen {
		b.ids = append(b.ids, id)
	}
	b.byID[id] = exports
}

// IDs returns the resolved ids in request order.
func (b *Bundle) IDs() []string {
	out := make([]string, len(b.ids))
	copy(out, b.ids)
	return out
}

// Get returns the exports resolved for id.
func (b *Bundle) Get(id string) (Exports, bool) {
	exports, ok := b.byID[id]
	return exports, ok
}

// Len returns the number of distinct ids in the bundle.
func (b *Bundle) Len() int {
	return len(b.ids)
}

// Map returns the bundle as a plain map.
func (b *Bundle) Map() map[string]Exports {
	out := make(map[string]Exports, len(b.byID))
	for id, exports := range b.byID {
		out[id] = exports
	}
	return out
}
