package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"pomodoro/internal/settings"
	"pomodoro/internal/storage"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show focus statistics",
	Long: `Show focus statistics.

--export writes settings and statistics to a YAML backup ("-" for stdout).
--import restores such a backup, replacing the stored files. Quit a running
timer first or it will overwrite the restored data on its next save.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var statsFlags struct {
	exportPath string
	importPath string
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the settings file and its values",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	statsCmd.Flags().StringVar(&statsFlags.exportPath, "export", "", "write a backup to `file`")
	statsCmd.Flags().StringVar(&statsFlags.importPath, "import", "", "restore a backup from `file`")
	statsCmd.MarkFlagsMutuallyExclusive("export", "import")
	rootCmd.AddCommand(statsCmd, configCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	switch {
	case statsFlags.exportPath != "":
		return exportBackup(cmd, store, statsFlags.exportPath)
	case statsFlags.importPath != "":
		return importBackup(cmd, store, statsFlags.importPath)
	}

	stats, err := store.LoadStats()
	if err != nil {
		return err
	}
	printStats(cmd.OutOrStdout(), stats, time.Now())
	return nil
}

func exportBackup(cmd *cobra.Command, store *storage.Store, path string) error {
	if path == "-" {
		return store.Export(cmd.OutOrStdout(), time.Now())
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := store.Export(file, time.Now()); err != nil {
		return errors.Join(err, file.Close())
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", path)
	return nil
}

func importBackup(cmd *cobra.Command, store *storage.Store, path string) error {
	input := cmd.InOrStdin()
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		input = file
	}
	if err := store.Import(input); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restored settings and statistics into %s\n", store.Dir())
	return nil
}

func printStats(out io.Writer, stats storage.Stats, now time.Time) {
	fmt.Fprintf(out, "Points:         %d\n", stats.Points)
	fmt.Fprintf(out, "Sessions:       %d\n", stats.TotalSessions)
	fmt.Fprintf(out, "Today:          %d\n", stats.TodaysSessions(now))
	fmt.Fprintf(out, "Per day:        %.2f\n", stats.AverageSessionsPerDay(now))
	fmt.Fprintf(out, "Focus time:     %.2f h\n", stats.TotalWorkHours())
	fmt.Fprintf(out, "Streak:         %d\n", stats.Streak)
	if !stats.LastSessionDate.IsZero() {
		fmt.Fprintf(out, "Last session:   %s\n", stats.LastSessionDate.Format("2006-01-02"))
	}
	for _, achievement := range stats.UnlockedAchievements() {
		fmt.Fprintf(out, "Achievement:    %s, %s\n", achievement.Title, achievement.Description)
	}
}

func runConfig(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	current, err := store.LoadSettings()
	if err != nil {
		return err
	}
	printSettings(cmd.OutOrStdout(), store.SettingsPath(), applyOverrides(current).Sanitize())
	return nil
}

func printSettings(out io.Writer, path string, current settings.Settings) {
	fmt.Fprintf(out, "File:                    %s\n", path)
	fmt.Fprintf(out, "Work session:            %d min\n", current.WorkMinutes)
	fmt.Fprintf(out, "Short break:             %d min\n", current.ShortBreakMinutes)
	fmt.Fprintf(out, "Long break:              %d min\n", current.LongBreakMinutes)
	fmt.Fprintf(out, "Long break after:        %d sessions\n", current.SessionsUntilLongBreak)
	fmt.Fprintf(out, "Notifications:           %t\n", current.NotificationsEnabled)
	fmt.Fprintf(out, "Sound:                   %t\n", current.SoundEnabled)
	fmt.Fprintf(out, "Auto-start breaks:       %t\n", current.AutoStartBreaks)
	fmt.Fprintf(out, "Auto-start work:         %t\n", current.AutoStartWork)
	if current.MQTTBroker == "" {
		fmt.Fprintf(out, "MQTT:                    off\n")
		return
	}
	fmt.Fprintf(out, "MQTT:                    %s %s\n", current.MQTTBroker, current.MQTTTopic)
}
