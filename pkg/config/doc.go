// Package config handles configuration management for modreg.
// It layers embedded TOML defaults, an optional TOML config file,
// MODREG_* environment variables and command-line overrides.
package config
