// Package config provides store location and settings loading for cspin.
//
// Settings come from three layers, most specific wins:
// built-in defaults, $CSPIN_DIR/config.toml, then environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvDir overrides the store directory when set.
const EnvDir = "CSPIN_DIR"

// EnvClaudeCommand overrides the command launched for new/resumed sessions.
const EnvClaudeCommand = "CSPIN_CLAUDE_COMMAND"

// EnvProcessNames overrides the host process name list (comma-separated).
const EnvProcessNames = "CSPIN_PROCESS_NAMES"

// DefaultPendingTTL is how long a pending-registration marker stays valid.
const DefaultPendingTTL = 120 * time.Second

// defaultProcessNames are command names recognized as the long-lived host
// process during ancestry walks. Claude Code runs as "claude" or under
// node; NixOS wraps the binary as ".claude-unwrapped".
var defaultProcessNames = []string{"claude", "node", ".claude-unwrapped"}

// Config holds resolved cspin settings.
type Config struct {
	// ClaudeCommand is the executable launched by `cspin new` and
	// `cspin resume`.
	ClaudeCommand string `toml:"claude_command"`

	// ProcessNames are command names treated as the stable host process
	// when resolving process ancestry.
	ProcessNames []string `toml:"process_names"`

	// PendingTTL is the staleness threshold for pending markers.
	// Stored in config.toml as a duration string ("120s", "2m").
	PendingTTL time.Duration `toml:"-"`

	// PendingTTLRaw is the on-disk form of PendingTTL.
	PendingTTLRaw string `toml:"pending_ttl"`
}

// Dir returns the store directory: $CSPIN_DIR if set, otherwise ~/.cspin.
func Dir() string {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cspin"
	}
	return filepath.Join(home, ".cspin")
}

// Load reads config.toml from the given store directory and applies
// environment overrides. Missing or unreadable config files fall back to
// defaults; a malformed file is treated the same way rather than failing
// the caller.
func Load(dir string) Config {
	cfg := Config{
		ClaudeCommand: "claude",
		ProcessNames:  append([]string(nil), defaultProcessNames...),
		PendingTTL:    DefaultPendingTTL,
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	if err == nil {
		var fileCfg Config
		if err := toml.Unmarshal(data, &fileCfg); err == nil {
			if fileCfg.ClaudeCommand != "" {
				cfg.ClaudeCommand = fileCfg.ClaudeCommand
			}
			if len(fileCfg.ProcessNames) > 0 {
				cfg.ProcessNames = fileCfg.ProcessNames
			}
			if fileCfg.PendingTTLRaw != "" {
				if d, err := time.ParseDuration(fileCfg.PendingTTLRaw); err == nil && d > 0 {
					cfg.PendingTTL = d
				}
			}
		}
	}

	if cmd := os.Getenv(EnvClaudeCommand); cmd != "" {
		cfg.ClaudeCommand = cmd
	}
	if names := os.Getenv(EnvProcessNames); names != "" {
		cfg.ProcessNames = splitNames(names)
	}

	return cfg
}

// splitNames parses a comma-separated name list, dropping empty entries.
func splitNames(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}
