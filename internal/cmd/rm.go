package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cspin-io/cspin/internal/style"
)

var rmForce bool

var rmCmd = &cobra.Command{
	Use:     "rm <name>",
	GroupID: GroupSessions,
	Short:   "Remove an alias and its history",
	Long: `Remove an alias, its archived identifiers, its tracking entry, and
any liveness records that reference it.

The underlying Claude session and its transcript are untouched; only
cspin's bookkeeping is deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

func init() {
	rmCmd.Flags().BoolVarP(&rmForce, "force", "f", false, "skip confirmation")
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	name := args[0]
	s, _ := openStore()

	rec, err := s.ReadAlias(name)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("no alias named %q", name)
	}

	archives := len(s.ArchiveSlots(name))
	if !rmForce {
		fmt.Printf("Remove alias %s (%d archived id(s))? [y/N] ", style.Bold.Render(name), archives)
		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(response)) != "y" {
			fmt.Println(style.Dim.Render("Canceled"))
			return nil
		}
	}

	if rec.Identifier != "" {
		_ = s.DeleteTracking(rec.Identifier)
	}
	s.DeleteArchives(name)
	if err := s.DeleteAlias(name); err != nil {
		return err
	}

	// Liveness records are otherwise never reaped; clean up the ones
	// that pointed at this alias.
	if pids, err := s.LivenessPIDs(); err == nil {
		for _, pid := range pids {
			alias, _, err := s.ReadLiveness(pid)
			if err == nil && alias == name {
				_ = s.DeleteLiveness(pid)
			}
		}
	}

	fmt.Printf("%s Removed %s\n", style.Success.Render("✓"), name)
	return nil
}
