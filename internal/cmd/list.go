package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cspin-io/cspin/internal/events"
	"github.com/cspin-io/cspin/internal/style"
)

var listVerbose bool

var listCmd = &cobra.Command{
	Use:     "list",
	GroupID: GroupSessions,
	Short:   "List tracked session aliases",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listVerbose, "verbose", "v", false, "show full ids and last activity")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	s, _ := openStore()

	names, err := s.ListAliases()
	if err != nil {
		return fmt.Errorf("listing aliases: %w", err)
	}
	if len(names) == 0 {
		fmt.Println(style.Dim.Render("No sessions yet. Start one with 'cspin new <name>'."))
		return nil
	}

	// Full ids when piped so the output stays scriptable.
	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	columns := []style.Column{
		{Name: "ALIAS", Width: 20},
		{Name: "SESSION", Width: sessionColWidth(interactive)},
		{Name: "DIRECTORY", Width: 32},
		{Name: "MIGRATIONS", Width: 10},
	}
	if listVerbose {
		columns = append(columns, style.Column{Name: "LAST EVENT", Width: 26})
	}

	tbl := style.NewTable(columns...).SetIndent("")
	log := events.NewLog(s.EventsPath())

	for _, name := range names {
		rec, err := s.ReadAlias(name)
		if err != nil || rec == nil {
			continue
		}

		id := rec.Identifier
		if interactive && !listVerbose {
			id = shortID(id)
		}

		row := []string{
			name,
			id,
			rec.Dir,
			fmt.Sprintf("%d", len(s.ArchiveSlots(name))),
		}
		if listVerbose {
			row = append(row, lastEventSummary(log, name))
		}
		tbl.AddRow(row...)
	}

	fmt.Print(tbl.Render())
	return nil
}

func sessionColWidth(interactive bool) int {
	if interactive {
		return 10
	}
	return 36
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func lastEventSummary(log *events.Log, alias string) string {
	ev, err := log.LastForAlias(alias)
	if err != nil || ev == nil {
		return "-"
	}
	return fmt.Sprintf("%s %s", ev.Type, ev.TS)
}
