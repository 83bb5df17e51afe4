// Package cli builds the modreg command tree.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/modreg/internal/version"
	"github.com/arthur-debert/modreg/pkg/config"
	"github.com/arthur-debert/modreg/pkg/logging"
	"github.com/arthur-debert/modreg/pkg/manifest"
	"github.com/arthur-debert/modreg/pkg/module"
	"github.com/arthur-debert/modreg/pkg/output"
)

// session is the state shared by the commands of one invocation
type session struct {
	loader *module.Loader
	cfg    *config.Config

	verbosity int
	manifests []string
	cfgPath   string
	format    string
	noColor   bool
}

// NewRootCmd creates the root command, bound to the process-wide loader
func NewRootCmd() *cobra.Command {
	return newRootCmd(module.Default())
}

// prepare loads configuration and applies the configured manifests once.
func (s *session) prepare(cmd *cobra.Command) error {
	if s.cfg != nil {
		return nil
	}

	overrides := map[string]interface{}{}
	if cmd.Flags().Changed("manifest") {
		overrides["manifests"] = s.manifests
	}
	if cmd.Flags().Changed("format") {
		overrides["format"] = s.format
	}
	if s.noColor {
		overrides["color"] = false
	}

	cfg, err := config.Load(s.cfgPath, overrides)
	if err != nil {
		return fmt.Errorf(MsgErrLoadConfig, err)
	}
	s.cfg = cfg

	if _, err := manifest.ApplyFiles(s.loader, cfg.Manifests); err != nil {
		return fmt.Errorf(MsgErrApplyManifest, err)
	}
	return nil
}

func newRootCmd(loader *module.Loader) *cobra.Command {
	initTemplateFormatting()

	s := &session{loader: loader}

	rootCmd := &cobra.Command{
		Use:     "modreg",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(s.verbosity)
			logging.LogCommand(cmd.Name(), args)

			// flags of a completion request are parsed only once the
			// target command is known; its completion function prepares
			if cmd.Name() == cobra.ShellCompRequestCmd {
				return nil
			}
			return s.prepare(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&s.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringArrayVarP(&s.manifests, "manifest", "m", nil, MsgFlagManifest)
	rootCmd.PersistentFlags().StringVar(&s.cfgPath, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&s.format, "format", config.FormatYAML, MsgFlagFormat)
	rootCmd.PersistentFlags().BoolVar(&s.noColor, "no-color", false, MsgFlagNoColor)

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// version and completion never touch the registry
	loggingOnly := func(cmd *cobra.Command, args []string) {
		logging.SetupLogger(s.verbosity)
		logging.LogCommand(cmd.Name(), args)
	}

	rootCmd.AddCommand(newListCmd(s))
	rootCmd.AddCommand(newShowCmd(s))
	rootCmd.AddCommand(newVersionCmd(loggingOnly))
	rootCmd.AddCommand(newCompletionCmd(loggingOnly))

	return rootCmd
}

func newListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records := s.loader.Records()
			if len(records) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), MsgNoModules)
				return err
			}
			return output.RenderTable(cmd.OutOrStdout(), records, s.cfg.Color && stdoutIsTerminal())
		},
	}
}

func newShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "show ID...",
		Short:   MsgShowShort,
		Example: MsgShowExample,
		Args:    cobra.MinimumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if err := s.prepare(cmd); err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return completeIDs(s.loader.IDs(), args, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := s.loader.RequireAll(args, nil)
			if err != nil {
				return err
			}
			return output.EncodeBundle(cmd.OutOrStdout(), bundle, s.cfg.Format)
		},
	}
}

// completeIDs returns the ids starting with toComplete that are not
// already among args.
func completeIDs(ids, args []string, toComplete string) []string {
	seen := make(map[string]bool, len(args))
	for _, a := range args {
		seen[a] = true
	}
	var out []string
	for _, id := range ids {
		if !seen[id] && strings.HasPrefix(id, toComplete) {
			out = append(out, id)
		}
	}
	return out
}

func newVersionCmd(preRun func(*cobra.Command, []string)) *cobra.Command {
	return &cobra.Command{
		Use:              "version",
		Short:            MsgVersionShort,
		Args:             cobra.NoArgs,
		PersistentPreRun: preRun,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd(preRun func(*cobra.Command, []string)) *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		PersistentPreRun:      preRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
