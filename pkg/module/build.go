package module

import (
	"github.com/arthur-debert/modreg/pkg/errors"
	"github.com/arthur-debert/modreg/pkg/logging"
)

// build runs the descriptor's factory and, if the module ends up with an id,
// commits it with the validated deps. The factory sees its own copy of deps
// in mod.Deps, so nothing it does to the descriptor reaches the record.
func (l *Loader) build(mod *Descriptor, validated []string) (Exports, error) {
	logger := logging.GetLogger("module")

	exports := Exports{}
	mod.Deps = cloneIDs(validated)

	var deps []Exports
	if mod.HasDeps {
		deps = make([]Exports, 0, len(validated))
		for _, id := range validated {
			rec, err := l.records.Get(id)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrInternal, "validated dependency vanished: %s", id)
			}
			deps = append(deps, rec.Exports)
		}
	}

	returned, err := mod.Factory(l, exports, mod, deps...)
	if err != nil {
		name := mod.ID
		if name == "" {
			name = "<anonymous>"
		}
		return nil, errors.Wrapf(err, errors.ErrFactoryFailed, "factory failed for module %s", name).
			WithDetail("id", mod.ID)
	}

	for key, value := range returned {
		exports[key] = value
	}

	if mod.ID == "" {
		logger.Debug().Strs("deps", validated).Msg("Built anonymous module")
		return exports, nil
	}

	return l.commit(mod.ID, validated, exports)
}

// commit inserts a new record. The duplicate check and the insert happen
// under one registry lock.
func (l *Loader) commit(id string, deps []string, exports Exports) (Exports, error) {
	rec := &Record{ID: id, Deps: cloneIDs(deps), Exports: exports}
	if err := l.records.Register(id, rec); err != nil {
		if errors.IsErrorCode(err, errors.ErrAlreadyExists) {
			return nil, errors.Newf(errors.ErrModuleExists, "module already exists: %s", id).
				WithDetail("id", id)
		}
		return nil, err
	}

	logger := logging.GetLogger("module")
	logger.Debug().Str("id", id).Strs("deps", rec.Deps).Int("exports", len(exports)).Msg("Registered module")
	return exports, nil
}

// cloneIDs copies ids into a new slice; nil becomes empty.
func cloneIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
