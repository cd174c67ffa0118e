package domain

import (
	"sort"
	"time"
)

type WeeklyStats struct {
	WeekStart      string      `json:"week_start"`
	WeekEnd        string      `json:"week_end"`
	TotalHabits    int         `json:"total_habits"`
	OverallRate    float64     `json:"overall_completion_rate"`
	TasksCompleted int         `json:"tasks_completed"`
	TasksTotal     int         `json:"tasks_total"`
	HabitStats     []HabitStat `json:"habits"`
}

type HabitStat struct {
	HabitID        string  `json:"habit_id"`
	HabitTitle     string  `json:"habit_title"`
	Target         int     `json:"target"`
	Archived       bool    `json:"archived"`
	TotalValue     int     `json:"total_value"`
	DaysScheduled  int     `json:"days_scheduled"`
	DaysCompleted  int     `json:"days_completed"`
	CompletionRate float64 `json:"completion_rate"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
	// DailyProgress holds Monday..Sunday counts; -1 marks a day the habit
	// was not visible.
	DailyProgress []int `json:"daily_progress"`
}

// CalculateStreaks returns the current and longest run of consecutive
// completed dates. The current run is alive when its latest date is asOf
// or the day before.
func CalculateStreaks(completedDates []string, asOf string) (int, int) {
	if len(completedDates) == 0 {
		return 0, 0
	}

	unique := make(map[string]bool)
	var sortedDates []time.Time

	for _, d := range completedDates {
		if unique[d] {
			continue
		}
		t, err := ParseDate(d)
		if err != nil {
			continue
		}
		unique[d] = true
		sortedDates = append(sortedDates, t)
	}

	if len(sortedDates) == 0 {
		return 0, 0
	}

	sort.Slice(sortedDates, func(i, j int) bool {
		return sortedDates[i].After(sortedDates[j])
	})

	const day = 24 * time.Hour

	currentStreak := 0
	if ref, err := ParseDate(asOf); err == nil {
		// Completions after asOf are ignored for the current run.
		start := 0
		for start < len(sortedDates) && sortedDates[start].After(ref) {
			start++
		}

		if start < len(sortedDates) && ref.Sub(sortedDates[start]) <= day {
			currentStreak = 1
			for i := start; i < len(sortedDates)-1; i++ {
				if sortedDates[i].Sub(sortedDates[i+1]) == day {
					currentStreak++
				} else {
					break
				}
			}
		}
	}

	longestStreak := 0
	tempStreak := 1

	for i := 0; i < len(sortedDates)-1; i++ {
		if sortedDates[i].Sub(sortedDates[i+1]) == day {
			tempStreak++
		} else {
			if tempStreak > longestStreak {
				longestStreak = tempStreak
			}
			tempStreak = 1
		}
	}
	if tempStreak > longestStreak {
		longestStreak = tempStreak
	}

	return currentStreak, longestStreak
}
