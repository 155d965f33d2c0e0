// Package launcher starts and resumes Claude Code sessions on behalf of
// an alias.
//
// The launcher's only protocol duty is the pending-registration marker:
// it writes one keyed by its own pid before handing control to claude, so
// the first hook event fired inside the new session can find the marker
// in its process lineage and bind the alias to whichever session
// identifier the host runtime assigned.
package launcher

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/cspin-io/cspin/internal/config"
	"github.com/cspin-io/cspin/internal/store"
)

// Launcher starts claude processes against a store.
type Launcher struct {
	Store  *store.Store
	Config config.Config

	// Exec runs the host command. Defaults to replacing the current
	// process image so the marker pid stays in the session's lineage.
	Exec func(command string, args []string) error
}

// New creates a launcher with the default exec behavior.
func New(s *store.Store, cfg config.Config) *Launcher {
	return &Launcher{Store: s, Config: cfg, Exec: execReplace}
}

// StartNew validates the alias name, refuses names that already exist,
// drops a pending marker keyed by this process's pid, and launches
// claude. The marker is consumed by the first hook event of the new
// session; if launch fails the marker is removed again.
func (l *Launcher) StartNew(alias, dir string, extraArgs []string) error {
	if err := store.ValidateAliasName(alias); err != nil {
		return err
	}
	existing, err := l.Store.ReadAlias(alias)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("alias %q already exists (use 'cspin %s' to resume it)", alias, alias)
	}

	pid := os.Getpid()
	if err := l.Store.WritePending(pid, alias, dir); err != nil {
		return fmt.Errorf("writing pending marker: %w", err)
	}

	if err := l.Exec(l.Config.ClaudeCommand, extraArgs); err != nil {
		_ = l.Store.DeletePending(pid)
		return fmt.Errorf("launching %s: %w", l.Config.ClaudeCommand, err)
	}
	return nil
}

// Resume launches claude against the alias's current identifier. The
// tracking entry is written up front so the session is live-tracked from
// its first event.
func (l *Launcher) Resume(alias string) error {
	rec, err := l.Store.ReadAlias(alias)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("no alias named %q (run 'cspin list' to see what exists)", alias)
	}
	if rec.Identifier == "" {
		return fmt.Errorf("alias %q has no session identifier recorded", alias)
	}

	if err := l.Store.WriteTracking(rec.Identifier, alias); err != nil {
		return fmt.Errorf("writing tracking entry: %w", err)
	}

	if err := l.Exec(l.Config.ClaudeCommand, []string{"--resume", rec.Identifier}); err != nil {
		return fmt.Errorf("resuming %s: %w", l.Config.ClaudeCommand, err)
	}
	return nil
}

// runChild runs the host command as a child with inherited stdio and
// waits for it.
func runChild(path string, args []string) error {
	cmd := exec.Command(path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
