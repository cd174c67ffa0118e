package domain

// IsHabitVisible decides whether h is listed on entry.Date.
func IsHabitVisible(h Habit, entry DayEntry) bool {
	if entry.IsSkipped(h.ID) {
		return false
	}
	if h.SpecificDate != "" && h.SpecificDate != entry.Date {
		return false
	}
	if h.StartDate != "" && entry.Date < h.StartDate {
		return false
	}

	switch h.Lifecycle.State {
	case HabitArchived:
		if h.Lifecycle.EndDate != "" && entry.Date <= h.Lifecycle.EndDate {
			return true
		}
		// Only the queried date's own progress counts, not history elsewhere.
		return entry.ProgressFor(h.ID) > 0
	default:
		return true
	}
}

func VisibleHabits(habits []Habit, entry DayEntry) []Habit {
	visible := make([]Habit, 0, len(habits))
	for _, h := range habits {
		if IsHabitVisible(h, entry) {
			visible = append(visible, h)
		}
	}
	return visible
}

type Score struct {
	TotalTarget     int     `json:"total_target"`
	CurrentProgress int     `json:"current_progress"`
	Percentage      float64 `json:"percentage"`
}

// ComputeScore aggregates the visible habits of entry.Date. Overshoot is
// capped per habit before summing.
func ComputeScore(habits []Habit, entry DayEntry) Score {
	var score Score
	for _, h := range VisibleHabits(habits, entry) {
		score.TotalTarget += h.Target
		score.CurrentProgress += min(entry.ProgressFor(h.ID), h.Target)
	}

	if score.TotalTarget > 0 {
		score.Percentage = float64(score.CurrentProgress) / float64(score.TotalTarget)
	}
	return score
}

type DayCounter struct {
	Completed int `json:"completed"`
	Visible   int `json:"visible"`
}

func CountCompleted(visible []Habit, entry DayEntry) DayCounter {
	counter := DayCounter{Visible: len(visible)}
	for _, h := range visible {
		if h.IsCompleteWith(entry.ProgressFor(h.ID)) {
			counter.Completed++
		}
	}
	return counter
}

type TaskView struct {
	WeekStart string `json:"week_start"`
	// Tasks is the regular list for the date.
	Tasks []WeeklyTask `json:"tasks"`
	// Highlights are completed tasks starred for the date.
	Highlights []WeeklyTask `json:"highlights"`
	Completed  int          `json:"completed"`
	Total      int          `json:"total"`
}

func VisibleTasks(tasks []WeeklyTask, date string) (TaskView, error) {
	weekStart, err := WeekStart(date)
	if err != nil {
		return TaskView{}, err
	}

	view := TaskView{
		WeekStart:  weekStart,
		Tasks:      []WeeklyTask{},
		Highlights: []WeeklyTask{},
	}

	for _, t := range tasks {
		if t.WeekStart != weekStart {
			continue
		}

		view.Total++
		if t.IsCompleted {
			view.Completed++
		}

		if !t.VisibleOn(date) {
			continue
		}

		if t.IsCompleted && t.IsStarredOn(date) {
			view.Highlights = append(view.Highlights, t.Clone())
			continue
		}
		view.Tasks = append(view.Tasks, t.Clone())
	}

	return view, nil
}
