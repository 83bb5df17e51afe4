// Package manifest reads declarative module manifests and applies them to a
// module.Loader.
//
// A manifest is a TOML or YAML file holding an ordered list of modules under
// the "module" key. Each entry has an id, optional deps and a static exports
// table:
//
//	[[module]]
//	id = "tool"
//	deps = ["HMY"]
//	[module.exports]
//	name = "tool"
//
// Entries without deps are registered as raw values. Entries with deps are
// defined through a factory, so every dependency must already be registered,
// either earlier in the same manifest or by a manifest applied before it.
package manifest

import (
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/modreg/pkg/errors"
	"github.com/arthur-debert/modreg/pkg/logging"
	"github.com/arthur-debert/modreg/pkg/module"
)

// Entry is one module declared in a manifest
type Entry struct {
	ID      string                 `koanf:"id"`
	Deps    []string               `koanf:"deps"`
	Exports map[string]interface{} `koanf:"exports"`
}

// Manifest is a parsed manifest file
type Manifest struct {
	Path    string
	Entries []Entry
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	}
	return nil, errors.Newf(errors.ErrManifestLoad, "unsupported manifest extension: %s", path).
		WithDetail("path", path)
}

// Load parses the manifest at path. The parser is picked from the extension.
func Load(path string) (*Manifest, error) {
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestLoad, "failed to load manifest %s", path).
			WithDetail("path", path)
	}

	var entries []Entry
	if err := k.Unmarshal("module", &entries); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestInvalid, "failed to decode modules in %s", path).
			WithDetail("path", path)
	}

	for i, e := range entries {
		if strings.TrimSpace(e.ID) == "" {
			return nil, errors.Newf(errors.ErrManifestInvalid, "%s: module %d has no id", path, i).
				WithDetail("path", path).
				WithDetail("entry", i)
		}
	}

	return &Manifest{Path: path, Entries: entries}, nil
}

// Apply defines every entry on l in file order and returns how many modules
// were registered. It stops at the first failure; modules registered before
// it stay registered.
func (m *Manifest) Apply(l *module.Loader) (int, error) {
	logger := logging.GetLogger("manifest")
	done := logging.LogOperationStart(logger, "apply "+m.Path)
	defer done()

	for i, e := range m.Entries {
		var err error
		if len(e.Deps) == 0 {
			_, err = l.DefineValue(e.ID, copyExports(e.Exports))
		} else {
			_, err = l.DefineNamed(e.ID, e.Deps, staticFactory(e.Exports))
		}
		if err != nil {
			code := errors.GetErrorCode(err)
			if code == errors.ErrUnknown {
				code = errors.ErrManifestInvalid
			}
			return i, errors.Wrapf(err, code, "%s: module %d (%s)", m.Path, i, e.ID).
				WithDetail("path", m.Path).
				WithDetail("entry", i).
				WithDetail("id", e.ID)
		}
		logger.Debug().Str("id", e.ID).Strs("deps", e.Deps).Msg("Applied manifest entry")
	}

	return len(m.Entries), nil
}

// ApplyFiles loads and applies each manifest in order.
func ApplyFiles(l *module.Loader, paths []string) (int, error) {
	total := 0
	for _, path := range paths {
		m, err := Load(path)
		if err != nil {
			return total, err
		}
		n, err := m.Apply(l)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func staticFactory(exports map[string]interface{}) module.Factory {
	return func(_ module.Resolver, _ module.Exports, _ *module.Descriptor, _ ...module.Exports) (module.Exports, error) {
		return copyExports(exports), nil
	}
}

func copyExports(src map[string]interface{}) module.Exports {
	out := make(module.Exports, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
