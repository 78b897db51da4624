package cli

import (
	"fmt"

	"github.com/monolink-labs/monolink/internal/branding"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		v := buildVersion
		if v == "" {
			v = "dev"
		}
		fmt.Printf("%s %s\n", branding.CLIName(), v)
		if buildCommit != "" {
			fmt.Printf("commit: %s\n", buildCommit)
		}
		if buildDate != "" {
			fmt.Printf("built:  %s\n", buildDate)
		}
		fmt.Printf("source: https://github.com/%s\n", branding.GitHubRepo())
	},
}
