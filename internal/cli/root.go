package cli

import (
	"fmt"
	"os"

	"github.com/monolink-labs/monolink/internal/branding"
	"github.com/monolink-labs/monolink/internal/config"
	"github.com/monolink-labs/monolink/internal/logging"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// Persistent flag values, merged into opts by PersistentPreRunE.
var (
	flagRoot     string
	flagLinkMode string
	flagDryRun   bool
	flagRelink   bool
	flagVerbose  bool
	flagQuiet    bool
	flagIgnore   []string
)

// opts and ws are assembled once before any command runs; commands treat
// them as read-only.
var (
	opts config.Options
	ws   *config.Workspace
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` manages a monorepo whose source packages live outside the
repository tree: it injects them in via filesystem links, derives the internal
dependency graph by static import scanning, orders builds, and keeps the shared
build configuration consistent.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// version and the config subcommands work outside any monorepo.
		if cmd.Name() == "version" || (cmd.Parent() != nil && cmd.Parent().Name() == "config") {
			return nil
		}

		config.Load()

		root := flagRoot
		if root == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			root = cwd
		}

		var err error
		ws, err = config.LoadWorkspace(root)
		if err != nil {
			return err
		}

		logger := logging.New(os.Stderr, flagVerbose, flagQuiet)
		opts, err = config.BuildOptions(root, ws, flagLinkMode, flagDryRun, flagRelink, false, flagIgnore, logger)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "Monorepo root directory (defaults to the working directory)")
	rootCmd.PersistentFlags().StringVar(&flagLinkMode, "link-mode", "", "Link mode: hard, sym, or copy")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Log intended actions without touching the filesystem")
	rootCmd.PersistentFlags().BoolVar(&flagRelink, "relink", false, "Delete and relink destination files that diverged from their source")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only report errors")
	rootCmd.PersistentFlags().StringArrayVar(&flagIgnore, "ignore", nil, "Directory name to ignore while scanning and linking (repeatable)")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", branding.CLIName(), err)
		return err
	}
	return nil
}
