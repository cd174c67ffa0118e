package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-rituals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-rituals/internal/core/services"
)

type MockStateRepo struct {
	mu        sync.Mutex
	data      map[string][]byte
	saves     map[string]int
	SaveErr   error
	LoadErr   error
	FailLoads map[string]bool
}

func NewMockStateRepo() *MockStateRepo {
	return &MockStateRepo{
		data:      make(map[string][]byte),
		saves:     make(map[string]int),
		FailLoads: make(map[string]bool),
	}
}

func (m *MockStateRepo) Load(ctx context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LoadErr != nil || m.FailLoads[key] {
		return false, errors.New("load failed")
	}
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *MockStateRepo) Save(ctx context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves[key]++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *MockStateRepo) Put(t *testing.T, key string, value any) {
	raw, err := json.Marshal(value)
	require.NoError(t, err)
	m.data[key] = raw
}

func (m *MockStateRepo) PutRaw(key, raw string) {
	m.data[key] = []byte(raw)
}

func (m *MockStateRepo) Saves(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[key]
}

func (m *MockStateRepo) Decode(t *testing.T, key string, dest any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	require.True(t, ok, "nothing stored under %s", key)
	require.NoError(t, json.Unmarshal(raw, dest))
}

type recordingObserver struct {
	mu       sync.Mutex
	ops      []string
	failures []string
}

func (o *recordingObserver) OperationApplied(op string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, op)
}

func (o *recordingObserver) PersistFailed(key string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures = append(o.failures, key)
}

func seedHabits() []domain.Habit {
	return []domain.Habit{
		{ID: "walk", Title: "Walk", Target: 1, Lifecycle: domain.Lifecycle{State: domain.HabitActive}},
		{ID: "meals", Title: "Meals", Target: 3, Lifecycle: domain.Lifecycle{State: domain.HabitActive}},
		{ID: "read", Title: "Read", Target: 1, Lifecycle: domain.Lifecycle{State: domain.HabitActive}},
	}
}

func newTestStore(t *testing.T) (*services.TrackingStore, *MockStateRepo) {
	t.Helper()
	repo := NewMockStateRepo()
	return services.NewTrackingStore(context.Background(), repo, seedHabits()), repo
}

func TestNewTrackingStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Empty storage uses seed", func(t *testing.T) {
		store, repo := newTestStore(t)

		assert.Len(t, store.Habits(), 3)
		assert.Empty(t, store.WeeklyTasks())
		assert.Zero(t, repo.Saves(domain.KeyHabits), "seed is not written until the first change")
	})

	t.Run("Success: Nil seed falls back to defaults", func(t *testing.T) {
		store := services.NewTrackingStore(ctx, NewMockStateRepo(), nil)
		assert.Len(t, store.Habits(), len(domain.DefaultHabits()))
	})

	t.Run("Success: Stored habits win over seed", func(t *testing.T) {
		repo := NewMockStateRepo()
		repo.Put(t, domain.KeyHabits, []domain.Habit{{ID: "only", Title: "Only", Target: 1}})

		store := services.NewTrackingStore(ctx, repo, seedHabits())

		habits := store.Habits()
		require.Len(t, habits, 1)
		assert.Equal(t, "only", habits[0].ID)
		assert.Equal(t, domain.HabitActive, habits[0].Lifecycle.State)
	})

	t.Run("Success: Load failure falls back to defaults", func(t *testing.T) {
		repo := NewMockStateRepo()
		repo.Put(t, domain.KeyHabits, []domain.Habit{{ID: "only", Title: "Only", Target: 1}})
		repo.FailLoads[domain.KeyHabits] = true
		repo.PutRaw(domain.KeyEntries, `{not json`)

		store := services.NewTrackingStore(ctx, repo, seedHabits())

		assert.Len(t, store.Habits(), 3)
		assert.False(t, store.HasDayEntry("2024-03-15"))
	})

	t.Run("Success: Legacy entries are normalized", func(t *testing.T) {
		repo := NewMockStateRepo()
		repo.PutRaw(domain.KeyEntries, `{"2024-03-15":{"date":"wrong"}}`)

		store := services.NewTrackingStore(ctx, repo, seedHabits())

		entry := store.GetCreateDayEntry("2024-03-15")
		assert.Equal(t, "2024-03-15", entry.Date)
		assert.NotNil(t, entry.Progress)
	})

	t.Run("Success: Daily focus migrates to its week", func(t *testing.T) {
		repo := NewMockStateRepo()
		repo.Put(t, domain.KeyEntries, map[string]domain.DayEntry{
			"2024-03-12": {Date: "2024-03-12", Focus: "deep work", Reflections: "calm"},
			"2024-03-14": {Date: "2024-03-14", Focus: "later"},
		})
		repo.Put(t, domain.KeyWeeklyReflections, map[string]string{"2024-03-11": "kept"})

		store := services.NewTrackingStore(ctx, repo, seedHabits())

		assert.Equal(t, "deep work", store.WeeklyFocus("2024-03-17"))
		assert.Equal(t, "kept", store.WeeklyReflections("2024-03-13"))
		assert.Equal(t, 1, repo.Saves(domain.KeyWeeklyFocus))
		assert.Zero(t, repo.Saves(domain.KeyWeeklyReflections))

		assert.Equal(t, "deep work", store.GetCreateDayEntry("2024-03-12").Focus)
	})
}

func TestTrackingStore_PersistFailure(t *testing.T) {
	ctx := context.Background()
	repo := NewMockStateRepo()
	repo.SaveErr = errors.New("disk full")
	observer := &recordingObserver{}

	store := services.NewTrackingStore(ctx, repo, seedHabits(), services.WithObserver(observer))

	h, ok := store.AddHabit(ctx, services.AddHabitInput{Title: "Stretch", Target: 1})
	require.True(t, ok, "persistence failure must not surface to the caller")

	_, found := store.Habit(h.ID)
	assert.True(t, found, "in-memory state keeps the change")

	progress, ok := store.IncrementHabit(ctx, "2024-03-15", h.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, progress)

	assert.Equal(t, []string{domain.KeyHabits, domain.KeyEntries}, observer.failures)
	assert.Equal(t, []string{"add_habit", "increment_habit"}, observer.ops)
}

func TestTrackingStore_PersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	repo := NewMockStateRepo()

	store := services.NewTrackingStore(ctx, repo, seedHabits())
	store.AddHabit(ctx, services.AddHabitInput{Title: "Stretch", Target: 2})
	store.IncrementHabit(ctx, "2024-03-15", "meals")
	task, _ := store.AddWeeklyTask(ctx, "Call mom", "2024-03-15")
	store.UpdateWeeklyFocus(ctx, "2024-03-15", "rest")

	reloaded := services.NewTrackingStore(ctx, repo, nil)

	assert.Equal(t, store.Habits(), reloaded.Habits())
	assert.Equal(t, 1, reloaded.GetCreateDayEntry("2024-03-15").ProgressFor("meals"))
	require.Len(t, reloaded.WeeklyTasks(), 1)
	assert.Equal(t, task.ID, reloaded.WeeklyTasks()[0].ID)
	assert.Equal(t, "rest", reloaded.WeeklyFocus("2024-03-11"))
}

func TestTrackingStore_Snapshot(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	store.IncrementHabit(ctx, "2024-03-15", "walk")

	snap := store.Snapshot()
	snap.Habits[0].Title = "mutated"
	snap.Entries["2024-03-15"].Progress["walk"] = 9

	assert.Equal(t, "Walk", store.Habits()[0].Title)
	assert.Equal(t, 1, store.GetCreateDayEntry("2024-03-15").ProgressFor("walk"))
}

func TestTrackingStore_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.IncrementHabit(ctx, "2024-03-15", "meals")
			_ = store.DayView("2024-03-15")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, store.GetCreateDayEntry("2024-03-15").ProgressFor("meals"))
}
