package cli

import (
	"fmt"
	"strings"

	"github.com/monolink-labs/monolink/internal/buildgraph"
	"github.com/monolink-labs/monolink/internal/workspace"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(depsCmd)
}

var depsCmd = &cobra.Command{
	Use:   "deps [source-dir...]",
	Short: "List scanned dependencies and the build order",
	Long: `Scan each package's source tree and print its internal dependencies with
their classified versions, its external dependencies, and the resulting
topological build order.

Example:
  monolink deps`,
	RunE: func(cmd *cobra.Command, args []string) error {
		descs, err := resolveTargets(args)
		if err != nil {
			return err
		}
		if err := scanAll(descs); err != nil {
			return err
		}

		host, err := workspace.LoadHostManifest(opts.Root)
		if err != nil {
			return err
		}
		aliases, err := workspace.LoadAliases(opts.Root)
		if err != nil {
			return err
		}
		aliasNames := make(map[string]bool, len(aliases))
		for name := range aliases {
			aliasNames[name] = true
		}
		root := buildgraph.RootDeclarations{
			Dependencies:     host.Dependencies,
			PeerDependencies: host.PeerDependencies,
			AliasNames:       aliasNames,
		}

		byName := buildgraph.ByName(descs)
		for _, d := range descs {
			fmt.Printf("%s\n", d.Name)

			classified := buildgraph.Classify(d, byName, root, opts.PeerInternalOnly)
			for _, dep := range classified {
				line := "  internal  " + dep.Name
				if dep.Version != "" {
					line += " " + dep.Version
				}
				if dep.Peer {
					line += " (peer)"
				}
				fmt.Println(line)
			}
			for _, name := range d.ExternalDeps {
				fmt.Printf("  external  %s\n", name)
			}
			if len(d.Assets) > 0 {
				fmt.Printf("  assets    %d file(s)\n", len(d.Assets))
			}
			for _, entry := range binEntries(d) {
				fmt.Printf("  bin       %s\n", entry)
			}
		}

		order, err := buildgraph.TopoOrder(descs)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(order))
		for _, d := range order {
			names = append(names, d.Name)
		}
		fmt.Printf("\nBuild order: %s\n", strings.Join(names, " -> "))
		return nil
	},
}
