package services

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/comitanigiacomo/kanso-rituals/internal/core/domain"
)

// Observer receives notifications about store activity. Persistence
// failures are reported here instead of being returned to callers.
type Observer interface {
	OperationApplied(op string)
	PersistFailed(key string, err error)
}

type noopObserver struct{}

func (noopObserver) OperationApplied(string) {}
func (noopObserver) PersistFailed(string, error) {}

type Option func(*TrackingStore)

func WithObserver(o Observer) Option {
	return func(s *TrackingStore) {
		if o != nil {
			s.observer = o
		}
	}
}

// TrackingStore owns every collection of the application. Each operation
// builds a new value for the collection it touches, swaps it in and then
// persists it; readers only ever receive copies.
type TrackingStore struct {
	repo     domain.StateRepository
	observer Observer

	mu sync.RWMutex

	habits            []domain.Habit
	entries           map[string]domain.DayEntry
	tasks             []domain.WeeklyTask
	weeklyFocus       map[string]string
	weeklyReflections map[string]string
}

func NewTrackingStore(ctx context.Context, repo domain.StateRepository, seed []domain.Habit, opts ...Option) *TrackingStore {
	s := &TrackingStore{
		repo:     repo,
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.load(ctx, seed)
	return s
}

func (s *TrackingStore) load(ctx context.Context, seed []domain.Habit) {
	if seed == nil {
		seed = domain.DefaultHabits()
	}

	var habits []domain.Habit
	if !s.loadKey(ctx, domain.KeyHabits, &habits) {
		habits = append([]domain.Habit(nil), seed...)
	}

	var entries map[string]domain.DayEntry
	if !s.loadKey(ctx, domain.KeyEntries, &entries) || entries == nil {
		entries = make(map[string]domain.DayEntry)
	}
	for date, e := range entries {
		entries[date] = e.Normalize(date)
	}

	var tasks []domain.WeeklyTask
	if !s.loadKey(ctx, domain.KeyWeeklyTasks, &tasks) || tasks == nil {
		tasks = []domain.WeeklyTask{}
	}

	var focus map[string]string
	if !s.loadKey(ctx, domain.KeyWeeklyFocus, &focus) || focus == nil {
		focus = make(map[string]string)
	}

	var reflections map[string]string
	if !s.loadKey(ctx, domain.KeyWeeklyReflections, &reflections) || reflections == nil {
		reflections = make(map[string]string)
	}

	if habits == nil {
		habits = []domain.Habit{}
	}

	s.habits = habits
	s.entries = entries
	s.tasks = tasks
	s.weeklyFocus = focus
	s.weeklyReflections = reflections

	s.migrateDailyText(ctx)
}

func (s *TrackingStore) loadKey(ctx context.Context, key string, dest any) bool {
	found, err := s.repo.Load(ctx, key, dest)
	if err != nil {
		log.Printf("[STORE] Failed to load %s, falling back to defaults: %v", key, err)
		return false
	}
	return found
}

// migrateDailyText copies focus/reflections written per day into the
// week-keyed maps when the week has no text yet. Day entries keep their
// copy.
func (s *TrackingStore) migrateDailyText(ctx context.Context) {
	focus := copyTextMap(s.weeklyFocus)
	reflections := copyTextMap(s.weeklyReflections)
	focusChanged, reflectionsChanged := false, false

	for _, date := range sortedKeys(s.entries) {
		entry := s.entries[date]
		weekStart, err := domain.WeekStart(date)
		if err != nil {
			continue
		}
		if entry.Focus != "" && focus[weekStart] == "" {
			focus[weekStart] = entry.Focus
			focusChanged = true
		}
		if entry.Reflections != "" && reflections[weekStart] == "" {
			reflections[weekStart] = entry.Reflections
			reflectionsChanged = true
		}
	}

	if focusChanged {
		s.weeklyFocus = focus
		s.persist(ctx, domain.KeyWeeklyFocus, focus)
	}
	if reflectionsChanged {
		s.weeklyReflections = reflections
		s.persist(ctx, domain.KeyWeeklyReflections, reflections)
	}
}

// persist writes one collection. A failed write leaves the in-memory
// state as it is.
func (s *TrackingStore) persist(ctx context.Context, key string, value any) {
	if err := s.repo.Save(ctx, key, value); err != nil {
		log.Printf("[PERSIST] Failed to save %s: %v", key, err)
		s.observer.PersistFailed(key, err)
	}
}

func (s *TrackingStore) applied(op string) {
	s.observer.OperationApplied(op)
}

type Snapshot struct {
	Habits            []domain.Habit             `json:"habits"`
	Entries           map[string]domain.DayEntry `json:"entries"`
	WeeklyTasks       []domain.WeeklyTask        `json:"weekly_tasks"`
	WeeklyFocus       map[string]string          `json:"weekly_focus"`
	WeeklyReflections map[string]string          `json:"weekly_reflections"`
}

func (s *TrackingStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make(map[string]domain.DayEntry, len(s.entries))
	for date, e := range s.entries {
		entries[date] = e.Clone()
	}

	return Snapshot{
		Habits:            cloneHabits(s.habits),
		Entries:           entries,
		WeeklyTasks:       cloneTasks(s.tasks),
		WeeklyFocus:       copyTextMap(s.weeklyFocus),
		WeeklyReflections: copyTextMap(s.weeklyReflections),
	}
}

func cloneHabits(habits []domain.Habit) []domain.Habit {
	return append(make([]domain.Habit, 0, len(habits)), habits...)
}

func cloneTasks(tasks []domain.WeeklyTask) []domain.WeeklyTask {
	out := make([]domain.WeeklyTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Clone())
	}
	return out
}

func copyTextMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// withEntry returns a copy of the ledger with date replaced by entry.
func (s *TrackingStore) withEntry(date string, entry domain.DayEntry) map[string]domain.DayEntry {
	next := make(map[string]domain.DayEntry, len(s.entries)+1)
	for k, v := range s.entries {
		next[k] = v
	}
	next[date] = entry
	return next
}

func (s *TrackingStore) findHabit(id string) (int, bool) {
	for i, h := range s.habits {
		if h.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *TrackingStore) findTask(id string) (int, bool) {
	for i, t := range s.tasks {
		if t.ID == id {
			return i, true
		}
	}
	return -1, false
}

func sortedKeys(entries map[string]domain.DayEntry) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
