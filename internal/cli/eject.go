package cli

import (
	"fmt"

	"github.com/monolink-labs/monolink/internal/linker"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(ejectCmd)
}

var ejectCmd = &cobra.Command{
	Use:   "eject [source-dir...]",
	Short: "Remove injected packages and restore prior configuration",
	Long: `Verify that no destination file diverged from its source, then remove the
linked destination tree, the path alias, and the manifest entry, restoring
the host dependency field recorded at inject time.

Eject is all-or-nothing per package: any unsynced edit aborts it before the
first mutation.

Example:
  monolink eject ../external/foo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		descs, err := resolveTargets(args)
		if err != nil {
			return err
		}

		for _, d := range descs {
			fmt.Printf("Ejecting %s...\n", d.Name)

			if err := linker.Eject(d, opts); err != nil {
				return fmt.Errorf("ejecting %s: %w", d.Name, err)
			}
		}

		fmt.Printf("Ejected %d package(s).\n", len(descs))
		return nil
	},
}
