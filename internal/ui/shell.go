package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timeflow/internal/cmdline"
	"github.com/javiermolinar/timeflow/internal/planner"
)

func (a *App) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Plan the day from a line prompt",
		Long: `Read command lines from stdin and apply them to one in-memory session.

Besides planner commands, the shell understands:
  show    print the active day
  days    print every scheduled day
  list    print every task
  now     print the current task
  help    list commands
  quit    leave the shell

Example:
  timeflow shell
  > add "Write report" 60 --at 09:00
  > auto
  > show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.newSession()
			if err != nil {
				return err
			}
			in := cmd.InOrStdin()
			prompt := in == os.Stdin && isInteractive()
			return runShell(s, in, cmd.OutOrStdout(), prompt)
		},
	}
}

// runShell reads lines until EOF or quit. Command errors are printed and
// the loop continues.
func runShell(s *planner.Store, in io.Reader, out io.Writer, prompt bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprintf(out, "%s> ", s.CurrentDate())
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "", "#":
			continue
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(out, cmdline.Usage)
			fmt.Fprintln(out, "show | days | list | now | help | quit")
			continue
		case "show":
			PrintDay(out, s.Today(), PrintOpts{CurrentSlot: currentSlotFor(s)})
			continue
		case "days":
			printDays(out, s, false)
			continue
		case "list":
			PrintAgenda(out, s.Agenda())
			continue
		case "now":
			PrintCurrent(out, s)
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		msg, err := cmdline.Execute(s, line)
		if err != nil {
			fmt.Fprintf(out, "%s %v\n", formatWarning("error:"), err)
			continue
		}
		fmt.Fprintln(out, msg)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// currentSlotFor returns the wall clock slot when the active day is today.
func currentSlotFor(s *planner.Store) string {
	if s.CurrentDate() != todayOf(s) {
		return ""
	}
	return s.CurrentSlot()
}
