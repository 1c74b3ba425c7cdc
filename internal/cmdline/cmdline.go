// Package cmdline parses planner command lines and runs them against a store.
package cmdline

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/javiermolinar/timeflow/internal/dateutil"
	"github.com/javiermolinar/timeflow/internal/planner"
	"github.com/javiermolinar/timeflow/internal/task"
)

// Errors returned while parsing.
var (
	ErrEmptyLine      = errors.New("empty command line")
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

// Action is a parsed command line ready to run.
type Action interface {
	// Run applies the action and returns a short confirmation.
	Run(s *planner.Store) (string, error)
}

// Usage lists the accepted command lines.
const Usage = `add "title" [duration] [--priority p] [--category c] [--due D] [--desc text] [--at HH:MM] [--day D]
addnn "title" duration --at HH:MM [--day D] [--priority p] [--category c] [--desc text]
update <id> [--title t] [--duration n] [--priority p] [--category c] [--desc d] [--due D]
updatenn <id> [same flags as update]
delete <id> | deletenn <id> | complete <id>
schedule <id> HH:MM [day] | move <id> HH:MM [day]
auto | regen | date <D|today|tomorrow|yesterday|+N|-N|weekday>`

type parser func(args []string) (Action, error)

var parsers = map[string]parser{
	"add":      parseAdd,
	"addnn":    parseAddNonNegotiable,
	"update":   func(args []string) (Action, error) { return parseUpdate("update", args, false) },
	"updatenn": func(args []string) (Action, error) { return parseUpdate("updatenn", args, true) },
	"delete":   idCommand("delete", kindTask, func(id string) planner.Command { return planner.DeleteTask{ID: id} }),
	"deletenn": idCommand("deletenn", kindNonNegotiable, func(id string) planner.Command { return planner.DeleteNonNegotiable{ID: id} }),
	"complete": idCommand("complete", kindTask, func(id string) planner.Command { return planner.CompleteTask{ID: id} }),
	"schedule": func(args []string) (Action, error) { return parsePlace("schedule", args, false) },
	"move":     func(args []string) (Action, error) { return parsePlace("move", args, true) },
	"auto":     noArgs("auto", autoAction{}),
	"regen":    noArgs("regen", regenAction{}),
	"date":     parseDate,
}

// Parse turns a command line into an action.
func Parse(line string) (Action, error) {
	words, err := Tokenize(line)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrEmptyLine
	}
	p, ok := parsers[strings.ToLower(words[0])]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, words[0])
	}
	return p(words[1:])
}

// Execute parses a line and runs it against s.
func Execute(s *planner.Store, line string) (string, error) {
	a, err := Parse(line)
	if err != nil {
		return "", err
	}
	return a.Run(s)
}

// RunScript executes every line of r. Blank lines and lines starting with
// '#' are skipped. It stops at the first failing line and returns the
// number of lines executed.
func RunScript(s *planner.Store, r io.Reader, out io.Writer) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("reading script: %w", err)
	}

	var n int
	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		msg, err := Execute(s, line)
		if err != nil {
			return n, fmt.Errorf("line %d: %w", i+1, err)
		}
		n++
		if out != nil && msg != "" {
			_, _ = fmt.Fprintln(out, msg)
		}
	}
	return n, nil
}

func usageErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUsage}, args...)...)
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(name string, fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usageErr("%s: %v", name, err)
	}
	return nil
}

// ParseMinutes accepts plain minutes ("90") or a Go duration ("1h30m").
func ParseMinutes(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d%time.Minute != 0 {
		return 0, usageErr("duration %q must be minutes or like 1h30m", s)
	}
	return int(d / time.Minute), nil
}

// resolveDay resolves a day expression against the store's active and real days.
func resolveDay(s *planner.Store, expr string) (string, error) {
	if expr == "" {
		return s.CurrentDate(), nil
	}
	day, err := dateutil.ParseRelativeDay(expr, s.CurrentDate(), dateutil.Today(s.Now()))
	if err != nil {
		return "", &task.ValidationError{Field: "day", Err: err}
	}
	return day, nil
}

func resolveDue(s *planner.Store, expr string) (time.Time, error) {
	day, err := resolveDay(s, expr)
	if err != nil {
		return time.Time{}, err
	}
	return dateutil.ParseDay(day)
}

// taskFlags are the optional fields shared by add and update.
type taskFlags struct {
	fs          *pflag.FlagSet
	priority    string
	category    string
	description string
	due         string
}

func newTaskFlags(name string) *taskFlags {
	f := &taskFlags{fs: newFlagSet(name)}
	f.fs.StringVarP(&f.priority, "priority", "p", "", "low, medium or high")
	f.fs.StringVarP(&f.category, "category", "c", "", "free-form category")
	f.fs.StringVarP(&f.description, "desc", "d", "", "description")
	f.fs.StringVar(&f.due, "due", "", "due day")
	return f
}

func (f *taskFlags) parsePriority() (task.Priority, error) {
	if f.priority == "" {
		return "", nil
	}
	p, err := task.ParsePriority(f.priority)
	if err != nil {
		return "", &task.ValidationError{Field: "priority", Err: err}
	}
	return p, nil
}

type addAction struct {
	nonNegotiable bool
	draft         task.Draft
	due           string
	at            string
	day           string
}

func parseAdd(args []string) (Action, error) {
	f := newTaskFlags("add")
	var at, day string
	f.fs.StringVar(&at, "at", "", "start time HH:MM")
	f.fs.StringVar(&day, "day", "", "day for --at")
	if err := parseFlags("add", f.fs, args); err != nil {
		return nil, err
	}

	rest := f.fs.Args()
	if len(rest) < 1 || len(rest) > 2 {
		return nil, usageErr(`add "title" [duration]`)
	}
	duration := task.DefaultDuration
	if len(rest) == 2 {
		d, err := ParseMinutes(rest[1])
		if err != nil {
			return nil, err
		}
		duration = d
	}
	if day != "" && at == "" {
		return nil, usageErr("add: --day requires --at")
	}

	a, err := buildAdd(f, rest[0], duration)
	if err != nil {
		return nil, err
	}
	a.at, a.day = at, day
	return a, nil
}

func parseAddNonNegotiable(args []string) (Action, error) {
	f := newTaskFlags("addnn")
	var at, day string
	f.fs.StringVar(&at, "at", "", "start time HH:MM")
	f.fs.StringVar(&day, "day", "", "day, defaults to the active day")
	if err := parseFlags("addnn", f.fs, args); err != nil {
		return nil, err
	}

	rest := f.fs.Args()
	if len(rest) != 2 || at == "" {
		return nil, usageErr(`addnn "title" duration --at HH:MM`)
	}
	duration, err := ParseMinutes(rest[1])
	if err != nil {
		return nil, err
	}

	a, err := buildAdd(f, rest[0], duration)
	if err != nil {
		return nil, err
	}
	a.nonNegotiable = true
	a.at, a.day = at, day
	return a, nil
}

func buildAdd(f *taskFlags, title string, duration int) (*addAction, error) {
	p, err := f.parsePriority()
	if err != nil {
		return nil, err
	}
	return &addAction{
		draft: task.Draft{
			Title:       title,
			Description: f.description,
			Duration:    duration,
			Priority:    p,
			Category:    f.category,
		},
		due: f.due,
	}, nil
}

func (a *addAction) Run(s *planner.Store) (string, error) {
	d := a.draft
	if a.due != "" {
		due, err := resolveDue(s, a.due)
		if err != nil {
			return "", err
		}
		d.DueDate = due
	} else {
		d.DueDate = s.Now()
	}
	if a.at != "" {
		day, err := resolveDay(s, a.day)
		if err != nil {
			return "", err
		}
		d.Scheduled = &task.Slot{Day: day, Start: a.at}
	}

	if a.nonNegotiable {
		t, err := s.AddNonNegotiable(d)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("added non-negotiable %s %q at %s", t.ID, t.Title, t.Scheduled.Start), nil
	}
	t, err := s.AddTask(d)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("added %s %q (%dm)", t.ID, t.Title, t.Duration), nil
}

type updateAction struct {
	nonNegotiable bool
	id            string
	fs            *pflag.FlagSet
	title         string
	duration      string
	priority      task.Priority
	category      string
	description   string
	due           string
}

func parseUpdate(name string, args []string, nonNegotiable bool) (Action, error) {
	f := newTaskFlags(name)
	a := &updateAction{nonNegotiable: nonNegotiable, fs: f.fs}
	f.fs.StringVarP(&a.title, "title", "t", "", "new title")
	f.fs.StringVar(&a.duration, "duration", "", "new duration")
	if err := parseFlags(name, f.fs, args); err != nil {
		return nil, err
	}

	rest := f.fs.Args()
	if len(rest) != 1 {
		return nil, usageErr("%s <id> [flags]", name)
	}
	if f.fs.NFlag() == 0 {
		return nil, usageErr("%s: nothing to change", name)
	}
	p, err := f.parsePriority()
	if err != nil {
		return nil, err
	}

	a.id = rest[0]
	a.priority = p
	a.category = f.category
	a.description = f.description
	a.due = f.due
	return a, nil
}

func (a *updateAction) Run(s *planner.Store) (string, error) {
	k := kindTask
	if a.nonNegotiable {
		k = kindNonNegotiable
	}
	t, err := s.Task(a.id)
	if errors.Is(err, task.ErrNotFound) || (err == nil && !k.matches(t)) {
		return fmt.Sprintf("no such entry %s", a.id), nil
	}
	if err != nil {
		return "", err
	}

	if a.fs.Changed("title") {
		t.Title = strings.TrimSpace(a.title)
	}
	if a.fs.Changed("duration") {
		d, err := ParseMinutes(a.duration)
		if err != nil {
			return "", err
		}
		t.Duration = d
	}
	if a.fs.Changed("priority") {
		t.Priority = a.priority
	}
	if a.fs.Changed("category") {
		t.Category = a.category
	}
	if a.fs.Changed("desc") {
		t.Description = a.description
	}
	if a.fs.Changed("due") {
		due, err := resolveDue(s, a.due)
		if err != nil {
			return "", err
		}
		t.DueDate = due
	}

	if a.nonNegotiable {
		err = s.UpdateNonNegotiable(t)
	} else {
		err = s.UpdateTask(t)
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("updated %s", t.ID), nil
}

type dispatchAction struct {
	cmd planner.Command
	msg string
}

func (a dispatchAction) Run(s *planner.Store) (string, error) {
	if err := s.Dispatch(a.cmd); err != nil {
		return "", err
	}
	return a.msg, nil
}

// kind restricts which collection an id may refer to.
type kind int

const (
	kindAny kind = iota
	kindTask
	kindNonNegotiable
)

func (k kind) matches(t task.Task) bool {
	switch k {
	case kindTask:
		return !t.IsNonNegotiable
	case kindNonNegotiable:
		return t.IsNonNegotiable
	}
	return true
}

func idCommand(name string, k kind, build func(id string) planner.Command) parser {
	return func(args []string) (Action, error) {
		if len(args) != 1 {
			return nil, usageErr("%s <id>", name)
		}
		return idAction{id: args[0], kind: k, dispatchAction: dispatchAction{
			cmd: build(args[0]),
			msg: fmt.Sprintf("%s %s", pastTense(name), args[0]),
		}}, nil
	}
}

// idAction reports unknown ids without failing.
type idAction struct {
	id   string
	kind kind
	dispatchAction
}

func (a idAction) Run(s *planner.Store) (string, error) {
	t, err := s.Task(a.id)
	if errors.Is(err, task.ErrNotFound) || (err == nil && !a.kind.matches(t)) {
		return fmt.Sprintf("no such entry %s", a.id), nil
	}
	if err != nil {
		return "", err
	}
	return a.dispatchAction.Run(s)
}

func pastTense(name string) string {
	switch name {
	case "delete", "deletenn":
		return "deleted"
	case "complete":
		return "completed"
	case "schedule":
		return "scheduled"
	case "move":
		return "moved"
	}
	return name
}

type placeAction struct {
	name  string
	id    string
	start string
	day   string
	move  bool
}

func parsePlace(name string, args []string, move bool) (Action, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, usageErr("%s <id> HH:MM [day]", name)
	}
	a := placeAction{name: name, id: args[0], start: args[1], move: move}
	if len(args) == 3 {
		a.day = args[2]
	}
	return a, nil
}

func (a placeAction) Run(s *planner.Store) (string, error) {
	day, err := resolveDay(s, a.day)
	if err != nil {
		return "", err
	}
	var cmd planner.Command = planner.ScheduleTask{ID: a.id, Start: a.start, Day: day}
	k := kindTask
	if a.move {
		cmd = planner.MoveTask{ID: a.id, Start: a.start, Day: day}
		k = kindAny
	}
	return idAction{id: a.id, kind: k, dispatchAction: dispatchAction{
		cmd: cmd,
		msg: fmt.Sprintf("%s %s to %s %s", pastTense(a.name), a.id, day, a.start),
	}}.Run(s)
}

func noArgs(name string, a Action) parser {
	return func(args []string) (Action, error) {
		if len(args) != 0 {
			return nil, usageErr("%s takes no arguments", name)
		}
		return a, nil
	}
}

type autoAction struct{}

func (autoAction) Run(s *planner.Store) (string, error) {
	n, err := s.AutoScheduleTasks()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("auto-scheduled %d task(s) on %s", n, s.CurrentDate()), nil
}

type regenAction struct{}

func (regenAction) Run(s *planner.Store) (string, error) {
	if err := s.RegenerateSchedule(); err != nil {
		return "", err
	}
	return "schedule regenerated", nil
}

type dateAction struct {
	expr string
}

func parseDate(args []string) (Action, error) {
	if len(args) != 1 {
		return nil, usageErr("date <D|today|tomorrow|yesterday|+N|-N>")
	}
	return dateAction{expr: args[0]}, nil
}

func (a dateAction) Run(s *planner.Store) (string, error) {
	day, err := resolveDay(s, a.expr)
	if err != nil {
		return "", err
	}
	if err := s.SetCurrentDate(day); err != nil {
		return "", err
	}
	return fmt.Sprintf("viewing %s", day), nil
}
