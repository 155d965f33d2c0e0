package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cspin-io/cspin/internal/claude"
	"github.com/cspin-io/cspin/internal/style"
)

var installSettingsPath string

var installCmd = &cobra.Command{
	Use:     "install",
	GroupID: GroupSetup,
	Short:   "Register cspin's hooks in Claude's settings",
	Long: `Register cspin's lifecycle hooks (SessionStart, Stop, PreCompact)
in Claude Code's settings.json.

Existing settings and hooks from other tools are preserved. Running
install twice is harmless.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

var uninstallCmd = &cobra.Command{
	Use:     "uninstall",
	GroupID: GroupSetup,
	Short:   "Remove cspin's hooks from Claude's settings",
	Args:    cobra.NoArgs,
	RunE:    runUninstall,
}

func init() {
	installCmd.Flags().StringVar(&installSettingsPath, "settings", "", "path to settings.json (default ~/.claude/settings.json)")
	uninstallCmd.Flags().StringVar(&installSettingsPath, "settings", "", "path to settings.json (default ~/.claude/settings.json)")
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
}

func resolveSettingsPath() (string, error) {
	if installSettingsPath != "" {
		return installSettingsPath, nil
	}
	return claude.DefaultSettingsPath()
}

// hookCommand returns the shell command Claude should invoke for each
// lifecycle event: this binary's absolute path plus the hook subcommand.
func hookCommand() string {
	exe, err := os.Executable()
	if err != nil {
		exe = "cspin"
	}
	return exe + " hook"
}

func runInstall(cmd *cobra.Command, args []string) error {
	path, err := resolveSettingsPath()
	if err != nil {
		return err
	}

	command := hookCommand()
	if claude.Installed(path, command) {
		fmt.Printf("%s Hooks already installed in %s\n", style.Success.Render("✓"), path)
		return nil
	}

	if err := claude.InstallHooks(path, command); err != nil {
		return fmt.Errorf("installing hooks: %w", err)
	}

	fmt.Printf("%s Installed hooks in %s\n", style.Success.Render("✓"), path)
	fmt.Println(style.Dim.Render("New and resumed sessions will now be tracked across compaction."))
	return nil
}

func runUninstall(cmd *cobra.Command, args []string) error {
	path, err := resolveSettingsPath()
	if err != nil {
		return err
	}

	if err := claude.UninstallHooks(path, hookCommand()); err != nil {
		return fmt.Errorf("removing hooks: %w", err)
	}

	fmt.Printf("%s Removed hooks from %s\n", style.Success.Render("✓"), path)
	return nil
}
