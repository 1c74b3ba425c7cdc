package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/timeflow/internal/db"
	"github.com/javiermolinar/timeflow/internal/planner"
)

func (a *App) exportCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "export [script]",
		Short: "Write a session snapshot to SQLite",
		Long: `Export the session to the database configured in [export] db_path.

With a script argument the script is replayed first. With --list the
existing snapshots are printed instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				return a.listSnapshots(cmd.Context(), out)
			}

			s, err := a.newSession()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if err := replay(s, args[0], nil, true); err != nil {
					return err
				}
			}

			id, err := a.exportSession(cmd.Context(), s)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Exported snapshot %d to %s\n", id, a.config.Export.DBPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List exported snapshots")
	return cmd
}

func (a *App) openDB() (*db.SQLite, error) {
	path := a.config.Export.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	return db.New(path)
}

// exportSession writes the store's collections as a new snapshot.
func (a *App) exportSession(ctx context.Context, s *planner.Store) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	repo, err := a.openDB()
	if err != nil {
		return 0, err
	}
	defer func() { _ = repo.Close() }()

	st := s.State()
	snap := &db.Snapshot{
		CurrentDate:    st.CurrentDate,
		ExportedAt:     s.Now(),
		Tasks:          st.Tasks,
		NonNegotiables: st.NonNegotiables,
	}
	if err := repo.Export(ctx, snap); err != nil {
		return 0, fmt.Errorf("exporting snapshot: %w", err)
	}
	a.log.Log("EXPORT", map[string]any{"snapshot": snap.ID, "entries": len(st.Tasks) + len(st.NonNegotiables)})
	return snap.ID, nil
}

func (a *App) listSnapshots(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	repo, err := a.openDB()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	snaps, err := repo.Snapshots(ctx)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Fprintln(out, "No snapshots exported yet.")
		return nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(formatHeader("ID"), formatHeader("Day"), formatHeader("Exported"))
	for _, snap := range snaps {
		tbl.AddRow(strconv.FormatInt(snap.ID, 10), snap.CurrentDate, snap.ExportedAt.Format("2006-01-02 15:04"))
	}
	tbl.RightAlign(0)
	fmt.Fprintln(out, tbl)
	return nil
}
