//go:build windows

package launcher

import (
	"os/exec"
)

// execReplace runs the host command as a child process. Windows has no
// exec-replacement; the launcher pid stays one hop above the host in the
// process tree, which the ancestry walk handles the same way.
func execReplace(command string, args []string) error {
	path, err := exec.LookPath(command)
	if err != nil {
		return err
	}
	return runChild(path, args)
}
