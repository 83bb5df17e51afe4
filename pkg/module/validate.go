package module

import (
	"github.com/arthur-debert/modreg/pkg/errors"
)

// validateDeps deduplicates ids, keeping the first occurrence, and checks
// every id is already registered. A single missing id fails the whole list.
func (l *Loader) validateDeps(ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	deps := make([]string, 0, len(ids))

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		if !l.records.Has(id) {
			return nil, errors.Newf(errors.ErrDependencyNotLoaded, "dependency not fully loaded: %s", id).
				WithDetail("id", id)
		}
		seen[id] = struct{}{}
		deps = append(deps, id)
	}

	return deps, nil
}
