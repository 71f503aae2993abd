package polisearch

import (
	"fmt"
	"runtime"

	"github.com/polisearch/polisearch/pkg/server/handlers"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("polisearch %s\n", handlers.Version)
		fmt.Printf("  commit:     %s\n", handlers.GitCommit)
		fmt.Printf("  built:      %s\n", handlers.BuildTime)
		fmt.Printf("  go version: %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
