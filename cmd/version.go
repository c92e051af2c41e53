package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "imapstatus %s compiled with %s on %s/%s\n", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		if global.verbose {
			fmt.Fprintf(out, "commit: %s\nbuilt on: %s\nbuilt by: %s\n", appCommit, appDate, appBuiltBy)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
