// Package debuglog writes structured debug events as JSON lines.
package debuglog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// DefaultPath is the fixed path for debug logs
const DefaultPath = "timeflow-debug.log"

// Logger appends one JSON object per event. A nil or disabled Logger
// discards everything.
type Logger struct {
	mu      sync.Mutex
	w       io.Writer
	closer  io.Closer
	enabled bool
	seq     int
	now     func() time.Time
}

// Disabled returns a logger that writes nothing.
func Disabled() *Logger {
	return &Logger{}
}

// New returns a logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{w: w, enabled: true, now: time.Now}
}

// Open creates (or truncates) the log file at path.
func Open(path string) (*Logger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating debug log: %w", err)
	}
	l := New(f)
	l.closer = f
	l.Log("DEBUG_START", map[string]any{
		"log_file": path,
		"time":     l.now().Format(time.RFC3339),
	})
	return l, nil
}

// Enabled reports whether events are written.
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}

// Log writes a structured log entry.
func (l *Logger) Log(event string, data map[string]any) {
	if !l.Enabled() {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	entry := map[string]any{
		"seq":   l.seq,
		"ts":    l.now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, _ := json.Marshal(entry)
	_, _ = fmt.Fprintf(l.w, "%s\n", b)
}

// Error logs an error.
func (l *Logger) Error(context string, err error) {
	if err == nil {
		return
	}
	l.Log("ERROR", map[string]any{
		"context": context,
		"error":   err.Error(),
	})
}

// Close writes the end marker and closes the underlying file, if any.
func (l *Logger) Close() error {
	if !l.Enabled() {
		return nil
	}
	l.Log("DEBUG_END", map[string]any{
		"time": l.now().Format(time.RFC3339),
	})
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = false
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
