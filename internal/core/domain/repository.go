package domain

import (
	"context"
	"errors"
)

var (
	ErrStateSchemaMissing = errors.New("state storage schema is missing")
)

// Keys of the independently persisted collections.
const (
	KeyHabits            = "kanso_habits"
	KeyEntries           = "kanso_entries"
	KeyWeeklyTasks       = "kanso_weekly_tasks"
	KeyWeeklyFocus       = "kanso_weekly_focus"
	KeyWeeklyReflections = "kanso_weekly_reflections"
)

type StateRepository interface {
	// Load decodes the blob stored under key into dest.
	// A missing key is not an error: found is false and dest is untouched.
	Load(ctx context.Context, key string, dest any) (found bool, err error)

	// Save replaces the whole blob stored under key.
	Save(ctx context.Context, key string, value any) error
}
