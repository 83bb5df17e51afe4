package module

import (
	"github.com/arthur-debert/modreg/pkg/registry"
)

// Loader owns a module registry and implements defining and resolving
// modules against it. The zero value is not usable; call NewLoader.
type Loader struct {
	records registry.Registry[*Record]
}

// NewLoader returns a Loader with an empty registry.
func NewLoader() *Loader {
	return &Loader{records: registry.New[*Record]()}
}

// Has reports whether a module with the given id has been registered.
func (l *Loader) Has(id string) bool {
	return l.records.Has(id)
}

// Len returns the number of registered modules.
func (l *Loader) Len() int {
	return l.records.Count()
}

// IDs returns the ids of all registered modules, sorted.
func (l *Loader) IDs() []string {
	return l.records.List()
}

// Records returns copies of all records in registration order. Because a
// dependency must be registered before its dependents, this order is also a
// valid build order.
func (l *Loader) Records() []Record {
	entries := l.records.Entries()
	out := make([]Record, 0, len(entries))
	for _, rec := range entries {
		deps := make([]string, len(rec.Deps))
		copy(deps, rec.Deps)
		out = append(out, Record{ID: rec.ID, Deps: deps, Exports: rec.Exports})
	}
	return out
}
