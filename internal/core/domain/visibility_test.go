package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-rituals/internal/core/domain"
)

func entryOn(date string, progress map[string]int, skipped ...string) domain.DayEntry {
	e := domain.NewDayEntry(date)
	for k, v := range progress {
		e.Progress[k] = v
	}
	e.SkippedHabits = skipped
	return e
}

func TestIsHabitVisible(t *testing.T) {
	active := domain.Habit{ID: "h", Target: 1, Lifecycle: domain.Lifecycle{State: domain.HabitActive}}

	archivedWithEnd := active
	archivedWithEnd.Lifecycle = domain.Lifecycle{State: domain.HabitArchived, EndDate: "2024-03-15"}

	archivedNoEnd := active
	archivedNoEnd.Lifecycle = domain.Lifecycle{State: domain.HabitArchived}

	specific := active
	specific.SpecificDate = "2024-03-15"

	started := active
	started.StartDate = "2024-03-15"

	tests := []struct {
		name  string
		habit domain.Habit
		entry domain.DayEntry
		want  bool
	}{
		{"Active habit is visible", active, entryOn("2024-03-15", nil), true},
		{"Skipped habit is hidden", active, entryOn("2024-03-15", nil, "h"), false},
		{"Skip wins over progress", active, entryOn("2024-03-15", map[string]int{"h": 1}, "h"), false},
		{"Specific date matches", specific, entryOn("2024-03-15", nil), true},
		{"Specific date differs", specific, entryOn("2024-03-16", nil), false},
		{"Before start date", started, entryOn("2024-03-14", nil), false},
		{"On start date", started, entryOn("2024-03-15", nil), true},
		{"Archived: before end date", archivedWithEnd, entryOn("2024-03-10", nil), true},
		{"Archived: on end date", archivedWithEnd, entryOn("2024-03-15", nil), true},
		{"Archived: after end date without progress", archivedWithEnd, entryOn("2024-03-16", nil), false},
		{"Archived: after end date with progress", archivedWithEnd, entryOn("2024-03-16", map[string]int{"h": 1}), true},
		{"Archived without end date and no progress", archivedNoEnd, entryOn("2024-03-10", nil), false},
		{"Archived without end date with progress", archivedNoEnd, entryOn("2024-03-10", map[string]int{"h": 2}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.IsHabitVisible(tt.habit, tt.entry))
		})
	}
}

func TestComputeScore(t *testing.T) {
	t.Run("Mixed targets", func(t *testing.T) {
		habits := []domain.Habit{
			{ID: "a", Target: 1, Lifecycle: domain.Lifecycle{State: domain.HabitActive}},
			{ID: "b", Target: 3, Lifecycle: domain.Lifecycle{State: domain.HabitActive}},
		}
		entry := entryOn("2024-03-15", map[string]int{"a": 1, "b": 3})

		score := domain.ComputeScore(habits, entry)
		assert.Equal(t, 4, score.TotalTarget)
		assert.Equal(t, 4, score.CurrentProgress)
		assert.InDelta(t, 1.0, score.Percentage, 1e-9)
	})

	t.Run("Overshoot is capped", func(t *testing.T) {
		habits := []domain.Habit{
			{ID: "a", Target: 2, Lifecycle: domain.Lifecycle{State: domain.HabitActive}},
			{ID: "b", Target: 2, Lifecycle: domain.Lifecycle{State: domain.HabitActive}},
		}
		entry := entryOn("2024-03-15", map[string]int{"a": 7})

		score := domain.ComputeScore(habits, entry)
		assert.Equal(t, 2, score.CurrentProgress)
		assert.InDelta(t, 0.5, score.Percentage, 1e-9)
	})

	t.Run("Hidden habits excluded", func(t *testing.T) {
		habits := []domain.Habit{
			{ID: "a", Target: 1, Lifecycle: domain.Lifecycle{State: domain.HabitActive}},
			{ID: "b", Target: 5, Lifecycle: domain.Lifecycle{State: domain.HabitActive}},
		}
		entry := entryOn("2024-03-15", map[string]int{"a": 1}, "b")

		score := domain.ComputeScore(habits, entry)
		assert.Equal(t, 1, score.TotalTarget)
		assert.InDelta(t, 1.0, score.Percentage, 1e-9)
	})

	t.Run("No visible habits scores zero", func(t *testing.T) {
		score := domain.ComputeScore(nil, entryOn("2024-03-15", nil))
		assert.Equal(t, domain.Score{}, score)
	})
}

func TestCountCompleted(t *testing.T) {
	visible := []domain.Habit{{ID: "a", Target: 1}, {ID: "b", Target: 2}, {ID: "c", Target: 1}}
	entry := entryOn("2024-03-15", map[string]int{"a": 1, "b": 1, "c": 3})

	assert.Equal(t, domain.DayCounter{Completed: 2, Visible: 3}, domain.CountCompleted(visible, entry))
}

func TestVisibleTasks(t *testing.T) {
	tasks := []domain.WeeklyTask{
		{ID: "plain", WeekStart: "2024-03-11"},
		{ID: "starred-wed", WeekStart: "2024-03-11", StarredDates: []string{"2024-03-13"}},
		{ID: "done-starred", WeekStart: "2024-03-11", IsCompleted: true, StarredDates: []string{"2024-03-13"}},
		{ID: "done-plain", WeekStart: "2024-03-11", IsCompleted: true},
		{ID: "other-week", WeekStart: "2024-03-04"},
	}

	ids := func(ts []domain.WeeklyTask) []string {
		out := []string{}
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}

	t.Run("Starred day shows highlight", func(t *testing.T) {
		view, err := domain.VisibleTasks(tasks, "2024-03-13")
		require.NoError(t, err)

		assert.Equal(t, "2024-03-11", view.WeekStart)
		assert.Equal(t, []string{"plain", "starred-wed", "done-plain"}, ids(view.Tasks))
		assert.Equal(t, []string{"done-starred"}, ids(view.Highlights))
		assert.Equal(t, 2, view.Completed)
		assert.Equal(t, 4, view.Total)
	})

	t.Run("Other day hides starred tasks", func(t *testing.T) {
		view, err := domain.VisibleTasks(tasks, "2024-03-14")
		require.NoError(t, err)

		assert.Equal(t, []string{"plain", "done-plain"}, ids(view.Tasks))
		assert.Empty(t, view.Highlights)
		assert.Equal(t, 4, view.Total)
	})

	t.Run("Sunday belongs to the same week", func(t *testing.T) {
		view, err := domain.VisibleTasks(tasks, "2024-03-17")
		require.NoError(t, err)
		assert.Equal(t, "2024-03-11", view.WeekStart)
		assert.Equal(t, 4, view.Total)
	})

	t.Run("Empty week", func(t *testing.T) {
		view, err := domain.VisibleTasks(tasks, "2024-04-01")
		require.NoError(t, err)
		assert.NotNil(t, view.Tasks)
		assert.Empty(t, view.Tasks)
		assert.Zero(t, view.Total)
	})

	t.Run("Error: Invalid date", func(t *testing.T) {
		_, err := domain.VisibleTasks(tasks, "nope")
		assert.Error(t, err)
	})
}

func TestVisibleHabits_StartAndArchiveWindows(t *testing.T) {
	a := domain.Habit{ID: "a", Target: 1, StartDate: "2024-02-01", Lifecycle: domain.Lifecycle{State: domain.HabitActive}}
	b := domain.Habit{ID: "b", Target: 1, Lifecycle: domain.Lifecycle{State: domain.HabitArchived, EndDate: "2024-03-10"}}
	habits := []domain.Habit{a, b}

	ids := func(date string, progress map[string]int) []string {
		out := []string{}
		for _, h := range domain.VisibleHabits(habits, entryOn(date, progress)) {
			out = append(out, h.ID)
		}
		return out
	}

	assert.NotContains(t, ids("2024-01-31", nil), "a")
	assert.Contains(t, ids("2024-02-01", nil), "a")

	assert.Contains(t, ids("2024-03-05", map[string]int{"b": 1}), "b")
	assert.Contains(t, ids("2024-03-10", nil), "b")
	assert.NotContains(t, ids("2024-03-11", nil), "b")
}
