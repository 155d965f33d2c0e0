package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the cspin release version, overridable at build time with
// -ldflags "-X github.com/cspin-io/cspin/internal/cmd.Version=...".
var Version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:     "version",
	GroupID: GroupSetup,
	Short:   "Print the cspin version",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("cspin " + Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
