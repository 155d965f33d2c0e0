// Package claude manages cspin's hook registration in Claude Code's
// settings.json.
package claude

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// hookEvents are the lifecycle points cspin listens on. SessionStart
// covers start-after-reset, Stop covers turn completion, PreCompact fires
// before a compaction snapshot.
var hookEvents = []string{"SessionStart", "Stop", "PreCompact"}

// DefaultSettingsPath returns ~/.claude/settings.json.
func DefaultSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

// InstallHooks registers hookCommand under each lifecycle event in the
// settings file, creating the file if needed. Unrelated settings keys and
// existing hooks are preserved; re-installing is a no-op.
func InstallHooks(settingsPath, hookCommand string) error {
	settings, err := readSettings(settingsPath)
	if err != nil {
		return err
	}

	hooks, _ := settings["hooks"].(map[string]interface{})
	if hooks == nil {
		hooks = make(map[string]interface{})
	}

	for _, event := range hookEvents {
		entries, _ := hooks[event].([]interface{})
		if hasCommand(entries, hookCommand) {
			continue
		}
		entries = append(entries, map[string]interface{}{
			"hooks": []interface{}{
				map[string]interface{}{
					"type":    "command",
					"command": hookCommand,
				},
			},
		})
		hooks[event] = entries
	}
	settings["hooks"] = hooks

	return writeSettings(settingsPath, settings)
}

// UninstallHooks removes every registration of hookCommand. Events left
// without entries are dropped; an empty hooks map is dropped too.
func UninstallHooks(settingsPath, hookCommand string) error {
	settings, err := readSettings(settingsPath)
	if err != nil {
		return err
	}

	hooks, _ := settings["hooks"].(map[string]interface{})
	if hooks == nil {
		return nil
	}

	for event, raw := range hooks {
		entries, _ := raw.([]interface{})
		var kept []interface{}
		for _, entry := range entries {
			if !entryInvokes(entry, hookCommand) {
				kept = append(kept, entry)
			}
		}
		if len(kept) == 0 {
			delete(hooks, event)
		} else {
			hooks[event] = kept
		}
	}
	if len(hooks) == 0 {
		delete(settings, "hooks")
	}

	return writeSettings(settingsPath, settings)
}

// Installed reports whether hookCommand is registered for every
// lifecycle event cspin needs.
func Installed(settingsPath, hookCommand string) bool {
	settings, err := readSettings(settingsPath)
	if err != nil {
		return false
	}
	hooks, _ := settings["hooks"].(map[string]interface{})
	for _, event := range hookEvents {
		entries, _ := hooks[event].([]interface{})
		if !hasCommand(entries, hookCommand) {
			return false
		}
	}
	return true
}

func readSettings(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]interface{}), nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	settings := make(map[string]interface{})
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return settings, nil
}

func writeSettings(path string, settings map[string]interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// hasCommand reports whether any entry in a hook event's list invokes
// the given command.
func hasCommand(entries []interface{}, command string) bool {
	for _, entry := range entries {
		if entryInvokes(entry, command) {
			return true
		}
	}
	return false
}

// entryInvokes checks one matcher entry's nested hook list for command.
func entryInvokes(entry interface{}, command string) bool {
	m, ok := entry.(map[string]interface{})
	if !ok {
		return false
	}
	nested, _ := m["hooks"].([]interface{})
	for _, h := range nested {
		hm, ok := h.(map[string]interface{})
		if !ok {
			continue
		}
		if hm["command"] == command {
			return true
		}
	}
	return false
}
