package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timeflow/internal/config"
	"github.com/javiermolinar/timeflow/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var edit bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Configuration management.

If no config file exists, creates one with default values.
Otherwise, displays the current config. With --edit, prompts for
each value and saves the result.

Example:
  timeflow config --edit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConfig(cmd.InOrStdin(), cmd.OutOrStdout(), edit)
		},
	}

	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "Edit values interactively")
	return cmd
}

func (a *App) runConfig(in io.Reader, out io.Writer, edit bool) error {
	fmt.Fprintf(out, "Config file: %s\n\n", a.configPath)

	cfg, err := config.LoadFrom(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(a.configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(a.configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", a.configPath)
	}

	printConfig(out, cfg)
	if !edit {
		return nil
	}

	fmt.Fprintln(out)
	reader := bufio.NewReader(in)

	cfg.Planner.SleepTitle = promptValue(reader, out, "Sleep title", cfg.Planner.SleepTitle)
	cfg.Planner.SleepStart = promptValue(reader, out, "Sleep start", cfg.Planner.SleepStart)
	cfg.Planner.SleepDuration = promptInt(reader, out, "Sleep duration (minutes)", cfg.Planner.SleepDuration)
	cfg.Timeline.StartHour = promptInt(reader, out, "Timeline start hour", cfg.Timeline.StartHour)
	cfg.Timeline.EndHour = promptInt(reader, out, "Timeline end hour", cfg.Timeline.EndHour)
	cfg.Export.DBPath = promptValue(reader, out, "Export database path", cfg.Export.DBPath)
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(a.configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[planner]")
	fmt.Fprintf(w, "  seed_sleep       = %t\n", cfg.Planner.SeedSleep)
	if cfg.Planner.SeedSleep {
		fmt.Fprintf(w, "  sleep_title      = %s\n", cfg.Planner.SleepTitle)
		fmt.Fprintf(w, "  sleep_start      = %s\n", cfg.Planner.SleepStart)
		fmt.Fprintf(w, "  sleep_duration   = %d\n", cfg.Planner.SleepDuration)
	}
	fmt.Fprintln(w, "\n[autoschedule]")
	fmt.Fprintf(w, "  windows          = %s\n", formatWindows(cfg.AutoSchedule.Windows))
	fmt.Fprintf(w, "  fallback_windows = %s\n", formatWindows(cfg.AutoSchedule.FallbackWindows))
	fmt.Fprintln(w, "\n[timeline]")
	fmt.Fprintf(w, "  start_hour       = %d\n", cfg.Timeline.StartHour)
	fmt.Fprintf(w, "  end_hour         = %d\n", cfg.Timeline.EndHour)
	fmt.Fprintln(w, "\n[export]")
	fmt.Fprintf(w, "  db_path          = %s\n", cfg.Export.DBPath)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme            = %s\n", cfg.UI.Theme)
}

func formatWindows(ws []config.WindowConfig) string {
	parts := make([]string, 0, len(ws))
	for _, w := range ws {
		parts = append(parts, fmt.Sprintf("%s+%s", w.Start, FormatDuration(w.Duration)))
	}
	return strings.Join(parts, ", ")
}

func promptValue(reader *bufio.Reader, w io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(w, "  %s: ", label)
	} else {
		fmt.Fprintf(w, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, w io.Writer, label string, current int) int {
	for {
		value := promptValue(reader, w, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(w, "  Invalid number %q\n", value)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}

func promptTheme(reader *bufio.Reader, w io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, w, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(w, "  Invalid theme %q. Available: %s\n", value, options)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}
