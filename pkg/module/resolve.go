package module

import (
	"github.com/arthur-debert/modreg/pkg/errors"
	"github.com/arthur-debert/modreg/pkg/logging"
)

// Require returns the exports of a registered module. When cb is non-nil it
// is called with those exports before Require returns.
func (l *Loader) Require(id string, cb Callback) (Exports, error) {
	rec, err := l.records.Get(id)
	if err != nil {
		return nil, errors.Newf(errors.ErrModuleNotBuilt, "module not yet built: %s", id).
			WithDetail("id", id)
	}

	logger := logging.GetLogger("module")
	logger.Trace().Str("id", id).Msg("Resolved module")

	if cb != nil {
		cb(rec.Exports)
	}
	return rec.Exports, nil
}

// RequireAll resolves each id in order, calling cb once per id. The first
// missing module fails the whole call.
func (l *Loader) RequireAll(ids []string, cb Callback) (*Bundle, error) {
	bundle := newBundle()
	for _, id := range ids {
		exports, err := l.Require(id, cb)
		if err != nil {
			return nil, err
		}
		bundle.put(id, exports)
	}
	return bundle, nil
}
