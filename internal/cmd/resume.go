package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cspin-io/cspin/internal/launcher"
)

var resumeCmd = &cobra.Command{
	Use:     "resume <name>",
	GroupID: GroupSessions,
	Short:   "Resume a named Claude session",
	Long: `Resume the Claude session tracked by an alias.

Equivalent to running 'cspin <name>'. The session resumes at its
current id even if compaction has rotated the id since it was named.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resumeAlias(args[0])
	},
}

func init() {
	rootCmd.AddCommand(resumeCmd)
}

func resumeAlias(name string) error {
	s, cfg := openStore()
	return launcher.New(s, cfg).Resume(name)
}
