// Package cmd provides CLI commands for the cspin tool.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cspin-io/cspin/internal/config"
	"github.com/cspin-io/cspin/internal/store"
)

var rootCmd = &cobra.Command{
	Use:     "cspin [alias]",
	Short:   "Stable names for Claude Code sessions",
	Version: Version,
	Long: `cspin attaches a stable name to a Claude Code session whose
underlying session id rotates on compaction or /clear.

Hooks installed in Claude's settings keep each alias pointed at the
session's current id, archiving superseded ids as the session evolves.

Run with no arguments to list aliases; run with an alias name to
resume that session.`,
	Args: cobra.ArbitraryArgs,
	RunE: runRoot,
}

// Command group IDs - used by subcommands to organize help output
const (
	GroupSessions = "sessions"
	GroupSetup    = "setup"
)

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupSessions, Title: "Sessions:"},
		&cobra.Group{ID: GroupSetup, Title: "Setup:"},
	)
	rootCmd.SetHelpCommandGroupID(GroupSetup)
	rootCmd.SetCompletionCommandGroupID(GroupSetup)
}

// runRoot handles bare invocations: no args lists aliases, one arg
// resumes that alias.
func runRoot(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return runList(cmd, args)
	case 1:
		return resumeAlias(args[0])
	default:
		return fmt.Errorf("unknown command %q\n\nRun 'cspin --help' for usage", args[0])
	}
}

// Execute runs the root command and returns an exit code.
// The caller (main) should call os.Exit with this code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// openStore resolves the store directory and loads config alongside it.
func openStore() (*store.Store, config.Config) {
	dir := config.Dir()
	return store.New(dir), config.Load(dir)
}
