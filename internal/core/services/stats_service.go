package services

import (
	"github.com/comitanigiacomo/kanso-rituals/internal/core/domain"
)

type DayView struct {
	Entry           domain.DayEntry   `json:"entry"`
	VisibleHabits   []domain.Habit    `json:"visible_habits"`
	CompletedHabits []string          `json:"completed_habits"`
	Counter         domain.DayCounter `json:"counter"`
	Score           domain.Score      `json:"score"`
}

type WeekView struct {
	domain.TaskView
	Focus       string `json:"focus"`
	Reflections string `json:"reflections"`
}

func (s *TrackingStore) VisibleHabits(date string) []domain.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.VisibleHabits(s.habits, s.entryOrDefault(date))
}

func (s *TrackingStore) Score(date string) domain.Score {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.ComputeScore(s.habits, s.entryOrDefault(date))
}

// DayView gathers everything a presentation layer renders for one date.
func (s *TrackingStore) DayView(date string) DayView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry := s.entryOrDefault(date)
	visible := domain.VisibleHabits(s.habits, entry)

	return DayView{
		Entry:           entry,
		VisibleHabits:   visible,
		CompletedHabits: domain.CompletedHabits(entry, s.habits),
		Counter:         domain.CountCompleted(visible, entry),
		Score:           domain.ComputeScore(s.habits, entry),
	}
}

func (s *TrackingStore) TasksForDate(date string) (domain.TaskView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.VisibleTasks(s.tasks, date)
}

func (s *TrackingStore) WeekView(date string) (WeekView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks, err := domain.VisibleTasks(s.tasks, date)
	if err != nil {
		return WeekView{}, err
	}

	return WeekView{
		TaskView:    tasks,
		Focus:       s.weeklyFocus[tasks.WeekStart],
		Reflections: s.weeklyReflections[tasks.WeekStart],
	}, nil
}

// WeeklyStats summarises the week containing date. Streaks are computed
// over the whole ledger as of date.
func (s *TrackingStore) WeeklyStats(date string) (*domain.WeeklyStats, error) {
	days, err := domain.WeekDays(date)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &domain.WeeklyStats{
		WeekStart:  days[0],
		WeekEnd:    days[len(days)-1],
		HabitStats: make([]domain.HabitStat, 0, len(s.habits)),
	}

	dayEntries := make([]domain.DayEntry, 0, len(days))
	for _, d := range days {
		dayEntries = append(dayEntries, s.entryOrDefault(d))
	}

	totalScheduled := 0
	totalCompleted := 0

	for _, h := range s.habits {
		hStat := domain.HabitStat{
			HabitID:       h.ID,
			HabitTitle:    h.Title,
			Target:        h.Target,
			Archived:      h.IsArchived(),
			DailyProgress: make([]int, 0, len(days)),
		}

		for _, entry := range dayEntries {
			if !domain.IsHabitVisible(h, entry) {
				hStat.DailyProgress = append(hStat.DailyProgress, -1)
				continue
			}

			val := entry.ProgressFor(h.ID)
			hStat.TotalValue += val
			hStat.DailyProgress = append(hStat.DailyProgress, val)
			hStat.DaysScheduled++

			if h.IsCompleteWith(val) {
				hStat.DaysCompleted++
			}
		}

		if hStat.DaysScheduled == 0 {
			continue
		}

		hStat.CompletionRate = float64(hStat.DaysCompleted) / float64(hStat.DaysScheduled) * 100
		hStat.CurrentStreak, hStat.LongestStreak = domain.CalculateStreaks(s.completedDates(h), date)

		totalScheduled += hStat.DaysScheduled
		totalCompleted += hStat.DaysCompleted
		stats.HabitStats = append(stats.HabitStats, hStat)
	}

	stats.TotalHabits = len(stats.HabitStats)
	if totalScheduled > 0 {
		stats.OverallRate = float64(totalCompleted) / float64(totalScheduled) * 100
	}

	for _, t := range s.tasks {
		if t.WeekStart != stats.WeekStart {
			continue
		}
		stats.TasksTotal++
		if t.IsCompleted {
			stats.TasksCompleted++
		}
	}

	return stats, nil
}

func (s *TrackingStore) completedDates(h domain.Habit) []string {
	var dates []string
	for date, e := range s.entries {
		if h.IsCompleteWith(e.ProgressFor(h.ID)) {
			dates = append(dates, date)
		}
	}
	return dates
}
