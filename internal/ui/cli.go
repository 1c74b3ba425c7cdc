// Package ui implements the timeflow command line.
package ui

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timeflow/internal/config"
	"github.com/javiermolinar/timeflow/internal/debuglog"
	"github.com/javiermolinar/timeflow/internal/planner"
	"github.com/javiermolinar/timeflow/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config     *config.Config
	configPath string
	root       *cobra.Command
	debug      bool // Enable debug logging
	log        *debuglog.Logger
	now        func() time.Time
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{
		config:     cfg,
		configPath: config.DefaultConfigPath(),
		log:        debuglog.Disabled(),
		now:        time.Now,
	}

	a.root = &cobra.Command{
		Use:   "timeflow",
		Short: "A daily task planner for the terminal",
		Long: `Timeflow plans a single day around fixed commitments.

Add flexible tasks, pin non-negotiables like sleep or the gym,
and let the auto-scheduler drop unscheduled work into the afternoon.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.openLog()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := a.newSession()
			if err != nil {
				return err
			}
			return tui.Run(s, tui.Options{
				Theme:     a.config.UI.Theme,
				StartHour: a.config.Timeline.StartHour,
				EndHour:   a.config.Timeline.EndHour,
				Log:       a.log,
			})
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (writes "+debuglog.DefaultPath+")")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.shellCmd())
	a.root.AddCommand(a.runCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.exportCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "timeflow %s (commit: %s)\n", Version, Commit)
		},
	}
}

func (a *App) openLog() error {
	if !a.debug || a.log.Enabled() {
		return nil
	}
	l, err := debuglog.Open(debuglog.DefaultPath)
	if err != nil {
		return err
	}
	a.log = l
	return nil
}

// newSession creates a seeded, in-memory planner.
func (a *App) newSession() (*planner.Store, error) {
	s := planner.New(
		planner.WithClock(a.now),
		planner.WithPolicy(a.config.Policy()),
		planner.WithSleep(a.config.Sleep()),
		planner.WithLogger(a.log),
	)
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("starting planner: %w", err)
	}
	return s, nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	err := a.root.Execute()
	if err != nil {
		a.log.Error("execute", err)
	}
	return err
}

// Close flushes the debug log.
func (a *App) Close() error {
	return a.log.Close()
}
