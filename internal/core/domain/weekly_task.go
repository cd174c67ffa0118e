package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")
)

// WeeklyTask is bound to the week it was created in; WeekStart is never
// recomputed after creation.
type WeeklyTask struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	IsCompleted  bool     `json:"is_completed"`
	IsImportant  bool     `json:"is_important"`
	StarredDates []string `json:"starred_dates,omitempty"`
	WeekStart    string   `json:"week_start"`
}

func NewWeeklyTask(title, date string) (*WeeklyTask, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil, ErrTaskTitleEmpty
	}

	weekStart, err := WeekStart(date)
	if err != nil {
		return nil, err
	}

	return &WeeklyTask{
		ID:        uuid.New().String(),
		Title:     trimmed,
		WeekStart: weekStart,
	}, nil
}

func (t WeeklyTask) Clone() WeeklyTask {
	c := t
	if t.StarredDates != nil {
		c.StarredDates = append([]string(nil), t.StarredDates...)
	}
	return c
}

func (t WeeklyTask) IsStarredOn(date string) bool {
	for _, d := range t.StarredDates {
		if d == date {
			return true
		}
	}
	return false
}

// ToggleStar adds or removes date from the starred set. Dates outside
// the task's week are rejected.
func (t *WeeklyTask) ToggleStar(date string) bool {
	weekStart, err := WeekStart(date)
	if err != nil || weekStart != t.WeekStart {
		return false
	}

	if t.IsStarredOn(date) {
		kept := make([]string, 0, len(t.StarredDates))
		for _, d := range t.StarredDates {
			if d != date {
				kept = append(kept, d)
			}
		}
		if len(kept) == 0 {
			kept = nil
		}
		t.StarredDates = kept
		return true
	}
	t.StarredDates = append(t.StarredDates, date)
	return true
}

// VisibleOn applies the star rule only; callers filter by week first.
// A task without stars shows all week, stars narrow it to those days.
func (t WeeklyTask) VisibleOn(date string) bool {
	if len(t.StarredDates) == 0 {
		return true
	}
	return t.IsStarredOn(date)
}
