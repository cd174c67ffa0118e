package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-rituals/internal/core/domain"
)

type AddHabitInput struct {
	Title        string
	Target       int
	SpecificDate string
	StartDate    string
}

type RemoveResult string

const (
	RemoveNotFound RemoveResult = "not_found"
	RemoveArchived RemoveResult = "archived"
	RemoveDeleted  RemoveResult = "deleted"
)

type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

func (s *TrackingStore) Habits() []domain.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneHabits(s.habits)
}

func (s *TrackingStore) Habit(id string) (domain.Habit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.findHabit(id)
	if !ok {
		return domain.Habit{}, false
	}
	return s.habits[i], true
}

// AddHabit appends a new active habit. A blank title is ignored and the
// target is coerced to at least one.
func (s *TrackingStore) AddHabit(ctx context.Context, input AddHabitInput) (domain.Habit, bool) {
	habit, err := domain.NewHabit(input.Title, input.Target, input.SpecificDate, input.StartDate)
	if err != nil {
		return domain.Habit{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(cloneHabits(s.habits), *habit)
	s.habits = next
	s.persist(ctx, domain.KeyHabits, next)
	s.applied("add_habit")

	return *habit, true
}

func (s *TrackingStore) UpdateHabit(ctx context.Context, id, title string, target int) (domain.Habit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findHabit(id)
	if !ok {
		return domain.Habit{}, false
	}

	next := cloneHabits(s.habits)
	if err := next[i].Update(title, target); err != nil {
		return domain.Habit{}, false
	}

	s.habits = next
	s.persist(ctx, domain.KeyHabits, next)
	s.applied("update_habit")

	return next[i], true
}

// RemoveHabit archives a habit that has any recorded progress, freezing
// its window at currentDate, and deletes it outright otherwise. Removing
// an archived habit again leaves its window as it was.
func (s *TrackingStore) RemoveHabit(ctx context.Context, id, currentDate string) RemoveResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findHabit(id)
	if !ok {
		return RemoveNotFound
	}
	if s.habits[i].IsArchived() {
		return RemoveArchived
	}

	if s.hasHistory(id) {
		next := cloneHabits(s.habits)
		next[i].Archive(currentDate)

		s.habits = next
		s.persist(ctx, domain.KeyHabits, next)
		s.applied("archive_habit")
		return RemoveArchived
	}

	next := make([]domain.Habit, 0, len(s.habits)-1)
	next = append(next, s.habits[:i]...)
	next = append(next, s.habits[i+1:]...)

	s.habits = next
	s.persist(ctx, domain.KeyHabits, next)
	s.applied("delete_habit")
	return RemoveDeleted
}

func (s *TrackingStore) hasHistory(habitID string) bool {
	for _, e := range s.entries {
		if e.ProgressFor(habitID) > 0 {
			return true
		}
	}
	return false
}

// ReorderHabits applies ids as the new display order. Habits missing from
// ids (for example ones hidden on the date being edited) keep their
// relative order after the listed ones, so no habit is ever dropped.
func (s *TrackingStore) ReorderHabits(ctx context.Context, ids []string) []domain.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]domain.Habit, len(s.habits))
	current := make([]string, 0, len(s.habits))
	for _, h := range s.habits {
		byID[h.ID] = h
		current = append(current, h.ID)
	}

	order := domain.ReorderIDs(current, ids)
	next := make([]domain.Habit, 0, len(order))
	for _, id := range order {
		next = append(next, byID[id])
	}

	s.habits = next
	s.persist(ctx, domain.KeyHabits, next)
	s.applied("reorder_habits")

	return cloneHabits(next)
}

// MoveHabit swaps the habit with its neighbour. Moving past either end is
// a no-op.
func (s *TrackingStore) MoveHabit(ctx context.Context, id string, direction MoveDirection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findHabit(id)
	if !ok {
		return false
	}

	j := i
	switch direction {
	case MoveUp:
		j = i - 1
	case MoveDown:
		j = i + 1
	}
	if j == i || j < 0 || j >= len(s.habits) {
		return false
	}

	next := cloneHabits(s.habits)
	next[i], next[j] = next[j], next[i]

	s.habits = next
	s.persist(ctx, domain.KeyHabits, next)
	s.applied("move_habit")
	return true
}

// SkipHabit hides the habit on date only; the registry is untouched.
func (s *TrackingStore) SkipHabit(ctx context.Context, date, id string) bool {
	if !domain.IsValidDate(date) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findHabit(id); !ok {
		return false
	}

	entry := s.entryOrDefault(date)
	if entry.IsSkipped(id) {
		return true
	}
	entry.SkippedHabits = append(entry.SkippedHabits, id)

	next := s.withEntry(date, entry)
	s.entries = next
	s.persist(ctx, domain.KeyEntries, next)
	s.applied("skip_habit")
	return true
}
