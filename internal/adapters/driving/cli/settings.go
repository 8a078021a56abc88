package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change where content is fetched from and how updates behave.

Settings are stored in config.toml in the data directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting. Run 'architips settings keys' for the list of
recognised keys.

Examples:
  architips settings set update.source github
  architips settings set update.read_timeout_ms 10000`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List recognised setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Content")
	cmd.Printf("  URL: %s\n", settings.Content.URL)
	cmd.Printf("  Version URL: %s\n", settings.Content.VersionURL)
	if settings.Content.BundledPath != "" {
		cmd.Printf("  Bundled: %s\n", settings.Content.BundledPath)
	} else {
		cmd.Printf("  Bundled: (embedded)\n")
	}
	cmd.Printf("  Max size: %d bytes\n", settings.Content.MaxBytes)
	cmd.Println()

	cmd.Println("Updates")
	cmd.Printf("  Source: %s\n", settings.Update.Source.Description())
	if settings.Update.InstalledVersion != "" {
		cmd.Printf("  Installed version: %s\n", settings.Update.InstalledVersion)
	} else {
		cmd.Printf("  Installed version: (not set)\n")
	}
	cmd.Printf("  Connect timeout: %s\n", settings.Update.ConnectTimeout)
	cmd.Printf("  Read timeout: %s\n", settings.Update.ReadTimeout)
	cmd.Printf("  Check interval: %s\n", settings.Update.CheckInterval)
	cmd.Println()

	cmd.Println("GitHub")
	cmd.Printf("  Repository: %s/%s@%s\n", settings.GitHub.Owner, settings.GitHub.Repo, settings.GitHub.Ref)
	cmd.Printf("  Content path: %s\n", settings.GitHub.Path)
	cmd.Printf("  Version path: %s\n", settings.GitHub.VersionPath)
	if settings.GitHub.Token != "" {
		cmd.Printf("  Token: %s\n", maskAPIKey(settings.GitHub.Token))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	cmd.Println()

	sched := settingsService.SchedulerConfig()
	cmd.Println("Scheduler")
	cmd.Printf("  Enabled: %t\n", sched.Enabled)
	cmd.Printf("  Tick: %s\n", sched.Tick)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s updated.\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
