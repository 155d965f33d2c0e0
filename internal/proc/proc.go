// Package proc resolves process ancestry for hook invocations.
//
// Hook handlers run as short-lived children of whatever wrapper shell the
// host runtime spawns per invocation. The process id that is actually
// stable across a session's lifetime belongs to the long-lived host
// process a few hops up the tree. This package walks parent links to find
// it, and to find launcher pids that left pending-registration markers.
package proc

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// AncestryLookup exposes per-process parent and command-name queries.
// The real implementation shells out to ps; tests inject a fake tree.
type AncestryLookup interface {
	// ParentOf returns the parent pid of pid.
	ParentOf(pid int) (int, error)

	// CommandNameOf returns the base command name of pid.
	CommandNameOf(pid int) (string, error)
}

// PS is the AncestryLookup backed by the ps command. One process per
// query keeps this portable across Linux and macOS, and hook handling
// performs at most a handful of queries per event.
type PS struct{}

// ParentOf returns the parent pid via `ps -o ppid= -p <pid>`.
func (PS) ParentOf(pid int) (int, error) {
	out, err := exec.Command("ps", "-o", "ppid=", "-p", strconv.Itoa(pid)).Output()
	if err != nil {
		return 0, fmt.Errorf("querying parent of %d: %w", pid, err)
	}
	ppid, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("parsing ppid of %d: %w", pid, err)
	}
	return ppid, nil
}

// CommandNameOf returns the command name via `ps -o comm= -p <pid>`.
// Some platforms report a full path; only the base name is returned.
func (PS) CommandNameOf(pid int) (string, error) {
	out, err := exec.Command("ps", "-o", "comm=", "-p", strconv.Itoa(pid)).Output()
	if err != nil {
		return "", fmt.Errorf("querying command of %d: %w", pid, err)
	}
	name := strings.TrimSpace(string(out))
	if name == "" {
		return "", fmt.Errorf("process %d has no command name", pid)
	}
	return filepath.Base(name), nil
}
