package cli

import (
	_ "embed"
	"strings"
)

const (
	MsgRootShort       = "Inspect a registry of modules and their dependencies"
	MsgListShort       = "List registered modules in registration order"
	MsgShowShort       = "Print the exports of one or more modules"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagManifest = "Manifest file to apply (repeatable, applied in order)"
	MsgFlagConfig   = "Config file (default $XDG_CONFIG_HOME/modreg/config.toml)"
	MsgFlagFormat   = "Output format for show: yaml or toml"
	MsgFlagNoColor  = "Disable colored output"

	MsgNoModules        = "No modules registered."
	MsgVersionFormat    = "modreg version %s\n  commit: %s\n  built:  %s\n"
	MsgErrNoCommand     = "no command specified"
	MsgErrLoadConfig    = "failed to load configuration: %w"
	MsgErrApplyManifest = "failed to apply manifests: %w"
)

var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"

	//go:embed msgs/show-example.txt
	msgShowExampleRaw string
	MsgShowExample    = strings.TrimRight(msgShowExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
