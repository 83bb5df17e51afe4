package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/modreg/pkg/errors"
)

// EnvPrefix is the prefix of environment variables read into the configuration
const EnvPrefix = "MODREG_"

// Supported output formats
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("not implemented")
}

// Config holds the settings used by the modreg command
type Config struct {
	Manifests []string `koanf:"manifests"`
	Format    string   `koanf:"format"`
	Color     bool     `koanf:"color"`
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/modreg/config.toml
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "modreg", "config.toml")
}

// Load builds the configuration from, in increasing precedence: embedded
// defaults, the config file, MODREG_* environment variables and overrides.
//
// An empty path means DefaultConfigPath, which may be absent. An explicit
// path must exist. Overrides use the same keys as the config file and are
// meant for command-line flags.
func Load(path string, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
				WithDetail("path", path)
		}
	} else if explicit {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s is not readable", path).
			WithDetail("path", path)
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	switch c.Format {
	case FormatYAML, FormatTOML:
	default:
		return errors.Newf(errors.ErrConfigValid, "unsupported format %q (want %s or %s)", c.Format, FormatYAML, FormatTOML).
			WithDetail("format", c.Format)
	}

	manifests := c.Manifests[:0]
	for _, m := range c.Manifests {
		if m = strings.TrimSpace(m); m != "" {
			manifests = append(manifests, m)
		}
	}
	c.Manifests = manifests
	return nil
}
