package cmd

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cspin-io/cspin/internal/engine"
	"github.com/cspin-io/cspin/internal/events"
	"github.com/cspin-io/cspin/internal/proc"
)

// maxHookStdinBytes caps stdin reads. Hook payloads are small JSON
// objects; 1 MB is generous headroom against unbounded allocation.
const maxHookStdinBytes = 1 << 20

var hookCmd = &cobra.Command{
	Use:    "hook",
	Hidden: true,
	Short:  "Handle a Claude Code lifecycle hook (called by Claude, not users)",
	Args:   cobra.NoArgs,
	Run:    runHook,
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

// runHook processes one lifecycle event. It must never fail: a non-zero
// exit or stderr noise here would surface inside the user's Claude
// session. Malformed input is silently dropped.
func runHook(cmd *cobra.Command, args []string) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, maxHookStdinBytes))
	if err != nil {
		return
	}

	var ev engine.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return
	}

	s, cfg := openStore()
	resolver := proc.NewResolver(proc.PS{}, cfg.ProcessNames)
	log := events.NewLog(s.EventsPath())

	engine.New(s, resolver, log, cfg.PendingTTL).Handle(os.Getpid(), ev)
}
