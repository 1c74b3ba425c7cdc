package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timeflow/internal/cmdline"
	"github.com/javiermolinar/timeflow/internal/dateutil"
	"github.com/javiermolinar/timeflow/internal/planner"
)

func (a *App) showCmd() *cobra.Command {
	var (
		date    string
		all     bool
		days    bool
		verbose bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the day's time blocks",
		Long: `Display a freshly seeded day: the sleep block plus anything the
auto-scheduler placed. Use --all to list every task instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			s, err := a.newSession()
			if err != nil {
				return err
			}
			if date != "" {
				if _, err := cmdline.Execute(s, "date "+date); err != nil {
					return err
				}
			}
			printSession(cmd.OutOrStdout(), s, viewFor(all, days), verbose)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to show (YYYY-MM-DD, today, tomorrow, +N, ...)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "List every task instead of the day")
	cmd.Flags().BoolVar(&days, "days", false, "Show every scheduled day")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full task titles")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func (a *App) runCmd() *cobra.Command {
	var (
		export bool
		quiet  bool
		all    bool
		days   bool
	)

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Replay a file of command lines",
		Long: `Apply every line of a script to a fresh session, then print the day.
Blank lines and lines starting with # are skipped. The first failing
line stops the run.

Example:
  timeflow run today.tf --export`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := replay(s, args[0], out, quiet); err != nil {
				return err
			}

			fmt.Fprintln(out)
			printSession(out, s, viewFor(all, days), false)

			if export {
				id, err := a.exportSession(cmd.Context(), s)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\nExported snapshot %d to %s\n", id, a.config.Export.DBPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&export, "export", false, "Write the final session to the export database")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not echo each command")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "List every task instead of the day")
	cmd.Flags().BoolVar(&days, "days", false, "Print every scheduled day")
	return cmd
}

// replay runs a script file against s.
func replay(s *planner.Store, path string, out io.Writer, quiet bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer func() { _ = f.Close() }()

	echo := out
	if quiet {
		echo = nil
	}
	if _, err := cmdline.RunScript(s, f, echo); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

type sessionView int

const (
	viewDay sessionView = iota
	viewAgenda
	viewDays
)

func viewFor(all, days bool) sessionView {
	switch {
	case all:
		return viewAgenda
	case days:
		return viewDays
	default:
		return viewDay
	}
}

func printSession(w io.Writer, s *planner.Store, view sessionView, verbose bool) {
	switch view {
	case viewAgenda:
		PrintAgenda(w, s.Agenda())
	case viewDays:
		printDays(w, s, verbose)
	default:
		PrintDay(w, s.Today(), PrintOpts{CurrentSlot: currentSlotFor(s), Verbose: verbose})
	}
}

// printDays prints every scheduled day, oldest first.
func printDays(w io.Writer, s *planner.Store, verbose bool) {
	today := todayOf(s)
	for i, day := range s.Days() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		opts := PrintOpts{Verbose: verbose}
		if day.Date == today {
			opts.CurrentSlot = s.CurrentSlot()
		}
		PrintDay(w, day, opts)
	}
}

func todayOf(s *planner.Store) string {
	return dateutil.Today(s.Now())
}
