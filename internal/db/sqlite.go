// Package db exports planner snapshots to SQLite.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/timeflow/internal/task"
)

// ErrSnapshotNotFound is returned when a snapshot id does not exist.
var ErrSnapshotNotFound = errors.New("snapshot not found")

const (
	kindTask          = "task"
	kindNonNegotiable = "non_negotiable"
)

// Snapshot is one exported copy of the planner collections.
type Snapshot struct {
	ID             int64
	CurrentDate    string
	ExportedAt     time.Time
	Tasks          []task.Task
	NonNegotiables []task.Task
}

// SQLite writes snapshots to a SQLite database.
type SQLite struct {
	db *sql.DB
}

// New opens the database at path and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Export writes the snapshot in a single transaction and sets its ID.
func (s *SQLite) Export(ctx context.Context, snap *Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (active_date, exported_at) VALUES (?, ?)`,
		snap.CurrentDate,
		snap.ExportedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}

	query := `
		INSERT INTO entries (
			snapshot_id, position, id, kind, title, description, duration, due_date,
			scheduled_day, scheduled_start, scheduled_end, completed, priority, category
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	pos := 0
	for _, group := range []struct {
		kind  string
		tasks []task.Task
	}{
		{kindNonNegotiable, snap.NonNegotiables},
		{kindTask, snap.Tasks},
	} {
		for _, t := range group.tasks {
			var day, start, end sql.NullString
			if t.Scheduled != nil {
				day = sql.NullString{String: t.Scheduled.Day, Valid: true}
				start = sql.NullString{String: t.Scheduled.Start, Valid: true}
				end = sql.NullString{String: t.End(), Valid: true}
			}
			var due sql.NullString
			if !t.DueDate.IsZero() {
				due = sql.NullString{String: t.DueDate.Format(time.RFC3339), Valid: true}
			}

			_, err := stmt.ExecContext(ctx,
				id, pos, t.ID, group.kind, t.Title, t.Description, t.Duration, due,
				day, start, end, t.Completed, string(t.Priority), t.Category,
			)
			if err != nil {
				return fmt.Errorf("inserting entry %q: %w", t.ID, err)
			}
			pos++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	snap.ID = id
	return nil
}

// Snapshots lists exported snapshots, newest first, without their entries.
func (s *SQLite) Snapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, active_date, exported_at FROM snapshots ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Snapshot
	for rows.Next() {
		var (
			snap       Snapshot
			exportedAt string
		)
		if err := rows.Scan(&snap.ID, &snap.CurrentDate, &exportedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snap.ExportedAt, err = parseDate(exportedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing exported at: %w", err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return out, nil
}

// Load reads a snapshot with its entries in export order.
func (s *SQLite) Load(ctx context.Context, id int64) (*Snapshot, error) {
	var (
		snap       = Snapshot{ID: id}
		exportedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT active_date, exported_at FROM snapshots WHERE id = ?`, id,
	).Scan(&snap.CurrentDate, &exportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	if snap.ExportedAt, err = parseDate(exportedAt); err != nil {
		return nil, fmt.Errorf("parsing exported at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, title, description, duration, due_date,
		       scheduled_day, scheduled_start, completed, priority, category
		FROM entries
		WHERE snapshot_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			t          task.Task
			kind       string
			priority   string
			due        sql.NullString
			day, start sql.NullString
		)
		if err := rows.Scan(
			&t.ID, &kind, &t.Title, &t.Description, &t.Duration, &due,
			&day, &start, &t.Completed, &priority, &t.Category,
		); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		t.Priority = task.Priority(priority)
		if due.Valid {
			if t.DueDate, err = parseDate(due.String); err != nil {
				return nil, fmt.Errorf("parsing due date of %q: %w", t.ID, err)
			}
		}
		if day.Valid && start.Valid {
			t.Scheduled = &task.Slot{Day: day.String, Start: start.String}
		}

		if kind == kindNonNegotiable {
			t.IsNonNegotiable = true
			snap.NonNegotiables = append(snap.NonNegotiables, t)
		} else {
			snap.Tasks = append(snap.Tasks, t)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	return &snap, nil
}

// Latest loads the most recent snapshot.
func (s *SQLite) Latest(ctx context.Context) (*Snapshot, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest snapshot: %w", err)
	}
	return s.Load(ctx, id)
}

// parseDate parses a timestamp in the formats SQLite might return.
func parseDate(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}
