package domain

import (
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidDate = errors.New("invalid date format (must be YYYY-MM-DD)")
)

func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func IsValidDate(date string) bool {
	_, err := ParseDate(date)
	return err == nil
}

// WeekStart returns the Monday of the ISO week containing date.
// Sundays belong to the week that started six days earlier.
func WeekStart(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}

	offset := 1 - int(t.Weekday())
	if t.Weekday() == time.Sunday {
		offset = -6
	}

	return t.AddDate(0, 0, offset).Format(DateLayout), nil
}

func AddDays(date string, days int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(DateLayout), nil
}

// WeekDays lists the seven dates, Monday to Sunday, of the week containing date.
func WeekDays(date string) ([]string, error) {
	start, err := WeekStart(date)
	if err != nil {
		return nil, err
	}

	t, _ := ParseDate(start)
	days := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, t.AddDate(0, 0, i).Format(DateLayout))
	}
	return days, nil
}
