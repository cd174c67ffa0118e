package domain

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrHabitTitleEmpty   = errors.New("habit title cannot be empty")
	ErrHabitTitleTooLong = errors.New("habit title is too long (max 100 chars)")
)

const (
	MaxTitleLen = 100
	MinTarget   = 1
)

type HabitState string

const (
	HabitActive   HabitState = "active"
	HabitArchived HabitState = "archived"
)

// Lifecycle is the single source of truth for whether a habit is live.
// EndDate is only meaningful for archived habits and may be empty for
// habits archived before end dates were recorded.
type Lifecycle struct {
	State   HabitState `json:"state"`
	EndDate string     `json:"end_date,omitempty"`
}

type Habit struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Target       int       `json:"target"`
	Lifecycle    Lifecycle `json:"lifecycle"`
	StartDate    string    `json:"start_date,omitempty"`
	SpecificDate string    `json:"specific_date,omitempty"`
}

// ClampTarget coerces any requested target into the valid range.
func ClampTarget(target int) int {
	return max(MinTarget, target)
}

func normalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrHabitTitleEmpty
	}
	if len(trimmed) > MaxTitleLen {
		return "", ErrHabitTitleTooLong
	}
	return trimmed, nil
}

func optionalDate(date string) string {
	if date == "" || !IsValidDate(date) {
		return ""
	}
	return date
}

func NewHabit(title string, target int, specificDate, startDate string) (*Habit, error) {
	cleanTitle, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}

	return &Habit{
		ID:           uuid.New().String(),
		Title:        cleanTitle,
		Target:       ClampTarget(target),
		Lifecycle:    Lifecycle{State: HabitActive},
		SpecificDate: optionalDate(specificDate),
		StartDate:    optionalDate(startDate),
	}, nil
}

func (h *Habit) Update(title string, target int) error {
	cleanTitle, err := normalizeTitle(title)
	if err != nil {
		return err
	}

	h.Title = cleanTitle
	h.Target = ClampTarget(target)
	return nil
}

// Archive freezes the habit's visibility window at endDate.
// An invalid or empty endDate archives without a window.
func (h *Habit) Archive(endDate string) {
	h.Lifecycle = Lifecycle{
		State:   HabitArchived,
		EndDate: optionalDate(endDate),
	}
}

func (h Habit) IsArchived() bool {
	return h.Lifecycle.State == HabitArchived
}

// IsBinary reports whether the habit cycles between done and not done.
func (h Habit) IsBinary() bool {
	return h.Target == 1
}

func (h Habit) IsCompleteWith(progress int) bool {
	return progress >= h.Target
}

// NextProgress applies one tap to the current count.
func (h Habit) NextProgress(current int) int {
	if h.IsBinary() {
		if current >= 1 {
			return 0
		}
		return 1
	}
	return current + 1
}

// UnmarshalJSON accepts both the lifecycle form and the older flat
// archived/endDate form still found in locally persisted registries.
func (h *Habit) UnmarshalJSON(data []byte) error {
	type habitAlias Habit
	var raw struct {
		habitAlias
		Archived      *bool  `json:"archived"`
		LegacyEndDate string `json:"endDate"`
		LegacyStart   string `json:"startDate"`
		LegacySpecial string `json:"specificDate"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*h = Habit(raw.habitAlias)

	if h.Lifecycle.State == "" {
		h.Lifecycle.State = HabitActive
		if raw.Archived != nil && *raw.Archived {
			h.Lifecycle.State = HabitArchived
		}
	}
	if h.Lifecycle.EndDate == "" && h.IsArchived() {
		h.Lifecycle.EndDate = optionalDate(raw.LegacyEndDate)
	}
	if h.StartDate == "" {
		h.StartDate = optionalDate(raw.LegacyStart)
	}
	if h.SpecificDate == "" {
		h.SpecificDate = optionalDate(raw.LegacySpecial)
	}

	h.Target = ClampTarget(h.Target)
	return nil
}

func DefaultHabits() []Habit {
	seed := []struct {
		title  string
		target int
	}{
		{"Wake up before 06:00", 1},
		{"Eat 3 balanced meals", 3},
		{"Walk 7,000 steps", 1},
		{"Meditate 12 minutes", 1},
		{"In bed before 22:00", 1},
	}

	habits := make([]Habit, 0, len(seed))
	for _, s := range seed {
		h, _ := NewHabit(s.title, s.target, "", "")
		habits = append(habits, *h)
	}
	return habits
}
