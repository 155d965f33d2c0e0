// cspin is the CLI for naming and tracking Claude Code sessions.
package main

import (
	"os"

	"github.com/cspin-io/cspin/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
