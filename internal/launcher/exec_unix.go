//go:build !windows

package launcher

import (
	"os"
	"os/exec"
	"syscall"
)

// execReplace swaps this process for the host command, which keeps the
// launcher's pid in the new session's ancestry. If exec fails the
// command runs as a child with inherited stdio, which preserves the
// lineage property one hop deeper.
func execReplace(command string, args []string) error {
	path, err := exec.LookPath(command)
	if err != nil {
		return err
	}

	argv := append([]string{command}, args...)
	if err := syscall.Exec(path, argv, os.Environ()); err == nil {
		return nil
	}

	return runChild(path, args)
}
