package cli

import (
	"fmt"

	"github.com/monolink-labs/monolink/internal/linker"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(injectCmd)
}

var injectCmd = &cobra.Command{
	Use:   "inject [source-dir...]",
	Short: "Link external package sources into the monorepo",
	Long: `Link each external package's source tree into its repo-local destination
and register it in the shared build configuration: .gitignore, the tsconfig
path-alias table, the host package.json, and the link manifest.

Without arguments, every package declared in monolink.json is injected.

Example:
  monolink inject ../external/foo
  monolink inject --link-mode copy --relink`,
	RunE: func(cmd *cobra.Command, args []string) error {
		descs, err := resolveTargets(args)
		if err != nil {
			return err
		}

		for _, d := range descs {
			fmt.Printf("Injecting %s -> %s...\n", d.Name, d.Destination)

			broken, err := linker.Inject(d, opts)
			if err != nil {
				// Partial linking state is unsafe to leave silently:
				// the first failure aborts the whole invocation.
				return fmt.Errorf("injecting %s: %w", d.Name, err)
			}
			for _, b := range broken {
				fmt.Printf("  warning: broken link %s\n", b.Destination)
			}
		}

		fmt.Printf("Injected %d package(s).\n", len(descs))
		return nil
	},
}
