package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNoteEmpty = errors.New("note text cannot be empty")
)

type DayField string

const (
	DayFieldFocus       DayField = "focus"
	DayFieldReflections DayField = "reflections"
	DayFieldTodo        DayField = "todo"
)

func (f DayField) IsValid() bool {
	switch f {
	case DayFieldFocus, DayFieldReflections, DayFieldTodo:
		return true
	}
	return false
}

type Note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func NewNote(text string) (Note, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Note{}, ErrNoteEmpty
	}
	return Note{ID: uuid.New().String(), Text: trimmed}, nil
}

// DayEntry is the per-date record of the ledger. Habits never touched on
// the date have no key in Progress and count as zero.
type DayEntry struct {
	Date          string         `json:"date"`
	Progress      map[string]int `json:"progress"`
	SkippedHabits []string       `json:"skipped_habits,omitempty"`
	Focus         string         `json:"focus"`
	Reflections   string         `json:"reflections"`
	Todo          string         `json:"todo"`
	Notes         []Note         `json:"notes,omitempty"`
}

func NewDayEntry(date string) DayEntry {
	return DayEntry{
		Date:     date,
		Progress: make(map[string]int),
	}
}

// Normalize repairs entries written by older versions that lacked a
// progress map or carried a mismatched date.
func (e DayEntry) Normalize(date string) DayEntry {
	if e.Progress == nil {
		e.Progress = make(map[string]int)
	}
	e.Date = date
	return e
}

func (e DayEntry) Clone() DayEntry {
	c := e
	c.Progress = make(map[string]int, len(e.Progress))
	for k, v := range e.Progress {
		c.Progress[k] = v
	}
	if e.SkippedHabits != nil {
		c.SkippedHabits = append([]string(nil), e.SkippedHabits...)
	}
	if e.Notes != nil {
		c.Notes = append([]Note(nil), e.Notes...)
	}
	return c
}

func (e DayEntry) ProgressFor(habitID string) int {
	return e.Progress[habitID]
}

func (e DayEntry) IsSkipped(habitID string) bool {
	for _, id := range e.SkippedHabits {
		if id == habitID {
			return true
		}
	}
	return false
}

func (e DayEntry) Field(field DayField) string {
	switch field {
	case DayFieldFocus:
		return e.Focus
	case DayFieldReflections:
		return e.Reflections
	case DayFieldTodo:
		return e.Todo
	}
	return ""
}

func (e *DayEntry) SetField(field DayField, value string) bool {
	switch field {
	case DayFieldFocus:
		e.Focus = value
	case DayFieldReflections:
		e.Reflections = value
	case DayFieldTodo:
		e.Todo = value
	default:
		return false
	}
	return true
}

func (e DayEntry) HasNote(noteID string) bool {
	for _, n := range e.Notes {
		if n.ID == noteID {
			return true
		}
	}
	return false
}

// CompletedHabits lists, in registry order, the habits whose progress on
// the entry's date reaches their target.
func CompletedHabits(entry DayEntry, habits []Habit) []string {
	completed := []string{}
	for _, h := range habits {
		if h.IsCompleteWith(entry.ProgressFor(h.ID)) {
			completed = append(completed, h.ID)
		}
	}
	return completed
}

// ReorderIDs returns current rearranged so that ids listed in order come
// first, in that order, followed by the remaining ids in their previous
// relative order. Unknown and duplicate ids in order are ignored, so the
// result is always a permutation of current.
func ReorderIDs(current, order []string) []string {
	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = true
	}

	placed := make(map[string]bool, len(current))
	result := make([]string, 0, len(current))

	for _, id := range order {
		if known[id] && !placed[id] {
			placed[id] = true
			result = append(result, id)
		}
	}
	for _, id := range current {
		if !placed[id] {
			result = append(result, id)
		}
	}
	return result
}
