package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cspin-io/cspin/internal/launcher"
	"github.com/cspin-io/cspin/internal/style"
)

var newCmd = &cobra.Command{
	Use:     "new [name] [-- claude-args...]",
	GroupID: GroupSessions,
	Short:   "Start a new named Claude session",
	Long: `Start a new Claude session under a stable alias.

The alias is bound to the session id the moment Claude fires its first
lifecycle hook. Arguments after -- are passed to claude unchanged.

Examples:
  cspin new debug-api
  cspin new                       # generates a name
  cspin new fix-ci -- --model opus`,
	Args: cobra.ArbitraryArgs,
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	s, cfg := openStore()
	l := launcher.New(s, cfg)

	var name string
	var extra []string
	if lenBeforeDash := cmd.ArgsLenAtDash(); lenBeforeDash >= 0 {
		if lenBeforeDash > 1 {
			return fmt.Errorf("expected at most one alias name before --")
		}
		if lenBeforeDash == 1 {
			name = args[0]
		}
		extra = args[lenBeforeDash:]
	} else {
		if len(args) > 1 {
			return fmt.Errorf("expected at most one alias name (use -- before claude arguments)")
		}
		if len(args) == 1 {
			name = args[0]
		}
	}

	if name == "" {
		name = launcher.GenerateName(func(candidate string) bool {
			rec, err := s.ReadAlias(candidate)
			return err != nil || rec != nil
		})
		fmt.Printf("%s starting session %s\n", style.Success.Render("✓"), style.Bold.Render(name))
	}

	dir, err := os.Getwd()
	if err != nil {
		dir = ""
	}

	return l.StartNew(name, dir, extra)
}
