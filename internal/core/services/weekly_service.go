package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-rituals/internal/core/domain"
)

func (s *TrackingStore) WeeklyTasks() []domain.WeeklyTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneTasks(s.tasks)
}

// AddWeeklyTask binds a new task to the week containing date.
func (s *TrackingStore) AddWeeklyTask(ctx context.Context, title, date string) (domain.WeeklyTask, bool) {
	task, err := domain.NewWeeklyTask(title, date)
	if err != nil {
		return domain.WeeklyTask{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(cloneTasks(s.tasks), *task)
	s.tasks = next
	s.persist(ctx, domain.KeyWeeklyTasks, next)
	s.applied("add_weekly_task")

	return task.Clone(), true
}

func (s *TrackingStore) updateTask(ctx context.Context, op, id string, mutate func(t *domain.WeeklyTask) bool) (domain.WeeklyTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findTask(id)
	if !ok {
		return domain.WeeklyTask{}, false
	}

	next := cloneTasks(s.tasks)
	if !mutate(&next[i]) {
		return domain.WeeklyTask{}, false
	}

	s.tasks = next
	s.persist(ctx, domain.KeyWeeklyTasks, next)
	s.applied(op)

	return next[i].Clone(), true
}

func (s *TrackingStore) ToggleWeeklyTask(ctx context.Context, id string) (domain.WeeklyTask, bool) {
	return s.updateTask(ctx, "toggle_weekly_task", id, func(t *domain.WeeklyTask) bool {
		t.IsCompleted = !t.IsCompleted
		return true
	})
}

func (s *TrackingStore) ToggleWeeklyTaskImportance(ctx context.Context, id string) (domain.WeeklyTask, bool) {
	return s.updateTask(ctx, "toggle_weekly_task_importance", id, func(t *domain.WeeklyTask) bool {
		t.IsImportant = !t.IsImportant
		return true
	})
}

// ToggleWeeklyTaskStar adds or removes date from the task's starred days.
// Dates outside the task's week are ignored.
func (s *TrackingStore) ToggleWeeklyTaskStar(ctx context.Context, id, date string) (domain.WeeklyTask, bool) {
	return s.updateTask(ctx, "toggle_weekly_task_star", id, func(t *domain.WeeklyTask) bool {
		return t.ToggleStar(date)
	})
}

func (s *TrackingStore) RemoveWeeklyTask(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findTask(id)
	if !ok {
		return false
	}

	next := make([]domain.WeeklyTask, 0, len(s.tasks)-1)
	for j, t := range s.tasks {
		if j != i {
			next = append(next, t.Clone())
		}
	}

	s.tasks = next
	s.persist(ctx, domain.KeyWeeklyTasks, next)
	s.applied("remove_weekly_task")
	return true
}

func (s *TrackingStore) UpdateWeeklyFocus(ctx context.Context, date, text string) bool {
	weekStart, err := domain.WeekStart(date)
	if err != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := copyTextMap(s.weeklyFocus)
	next[weekStart] = text

	s.weeklyFocus = next
	s.persist(ctx, domain.KeyWeeklyFocus, next)
	s.applied("update_weekly_focus")
	return true
}

func (s *TrackingStore) UpdateWeeklyReflections(ctx context.Context, date, text string) bool {
	weekStart, err := domain.WeekStart(date)
	if err != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := copyTextMap(s.weeklyReflections)
	next[weekStart] = text

	s.weeklyReflections = next
	s.persist(ctx, domain.KeyWeeklyReflections, next)
	s.applied("update_weekly_reflections")
	return true
}

func (s *TrackingStore) WeeklyFocus(date string) string {
	weekStart, err := domain.WeekStart(date)
	if err != nil {
		return ""
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.weeklyFocus[weekStart]
}

func (s *TrackingStore) WeeklyReflections(date string) string {
	weekStart, err := domain.WeekStart(date)
	if err != nil {
		return ""
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.weeklyReflections[weekStart]
}
