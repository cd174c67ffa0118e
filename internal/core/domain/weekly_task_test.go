package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-rituals/internal/core/domain"
)

func TestNewWeeklyTask(t *testing.T) {
	t.Run("Success: Bound to the creation week", func(t *testing.T) {
		task, err := domain.NewWeeklyTask(" Plan trip ", "2024-03-17")
		require.NoError(t, err)

		assert.NotEmpty(t, task.ID)
		assert.Equal(t, "Plan trip", task.Title)
		assert.Equal(t, "2024-03-11", task.WeekStart)
		assert.False(t, task.IsCompleted)
		assert.False(t, task.IsImportant)
		assert.Empty(t, task.StarredDates)
	})

	t.Run("Error: Empty title", func(t *testing.T) {
		_, err := domain.NewWeeklyTask("  ", "2024-03-17")
		assert.Equal(t, domain.ErrTaskTitleEmpty, err)
	})

	t.Run("Error: Invalid date", func(t *testing.T) {
		_, err := domain.NewWeeklyTask("Plan", "someday")
		assert.ErrorIs(t, err, domain.ErrInvalidDate)
	})
}

func TestWeeklyTask_ToggleStar(t *testing.T) {
	task, _ := domain.NewWeeklyTask("Plan", "2024-03-11")

	assert.True(t, task.ToggleStar("2024-03-13"))
	assert.True(t, task.IsStarredOn("2024-03-13"))

	assert.True(t, task.ToggleStar("2024-03-14"))
	assert.Equal(t, []string{"2024-03-13", "2024-03-14"}, task.StarredDates)

	assert.True(t, task.ToggleStar("2024-03-13"))
	assert.Equal(t, []string{"2024-03-14"}, task.StarredDates)

	assert.True(t, task.ToggleStar("2024-03-14"))
	assert.Nil(t, task.StarredDates)

	t.Run("Rejects dates outside the week", func(t *testing.T) {
		assert.False(t, task.ToggleStar("2024-03-18"))
		assert.False(t, task.ToggleStar("bad"))
		assert.Nil(t, task.StarredDates)
	})
}

func TestWeeklyTask_VisibleOn(t *testing.T) {
	task := domain.WeeklyTask{WeekStart: "2024-03-11"}
	assert.True(t, task.VisibleOn("2024-03-12"))

	task.StarredDates = []string{"2024-03-13"}
	assert.True(t, task.VisibleOn("2024-03-13"))
	assert.False(t, task.VisibleOn("2024-03-12"))
}
