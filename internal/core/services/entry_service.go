package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-rituals/internal/core/domain"
)

// entryOrDefault returns a private copy of the stored entry or a fresh
// default. The default is not added to the ledger. Callers must hold mu.
func (s *TrackingStore) entryOrDefault(date string) domain.DayEntry {
	if e, ok := s.entries[date]; ok {
		return e.Clone().Normalize(date)
	}
	return domain.NewDayEntry(date)
}

// GetCreateDayEntry reads the entry for date. A date that was never
// written yields a blank entry which is not persisted until a write.
func (s *TrackingStore) GetCreateDayEntry(date string) domain.DayEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.entryOrDefault(date)
}

func (s *TrackingStore) HasDayEntry(date string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[date]
	return ok
}

func (s *TrackingStore) writeEntry(ctx context.Context, op string, entry domain.DayEntry) {
	next := s.withEntry(entry.Date, entry)
	s.entries = next
	s.persist(ctx, domain.KeyEntries, next)
	s.applied(op)
}

// IncrementHabit applies one tap: binary habits toggle between 0 and 1,
// counted habits grow by one without an upper bound.
func (s *TrackingStore) IncrementHabit(ctx context.Context, date, habitID string) (int, bool) {
	if !domain.IsValidDate(date) {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findHabit(habitID)
	if !ok {
		return 0, false
	}

	entry := s.entryOrDefault(date)
	progress := s.habits[i].NextProgress(entry.ProgressFor(habitID))
	entry.Progress[habitID] = progress

	s.writeEntry(ctx, "increment_habit", entry)
	return progress, true
}

// SetHabitProgress overwrites the count for one habit on one date.
// Negative values are clamped to zero.
func (s *TrackingStore) SetHabitProgress(ctx context.Context, date, habitID string, value int) bool {
	if !domain.IsValidDate(date) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findHabit(habitID); !ok {
		return false
	}

	entry := s.entryOrDefault(date)
	entry.Progress[habitID] = max(0, value)

	s.writeEntry(ctx, "set_habit_progress", entry)
	return true
}

func (s *TrackingStore) UpdateDayField(ctx context.Context, date string, field domain.DayField, value string) bool {
	if !domain.IsValidDate(date) || !field.IsValid() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.entryOrDefault(date)
	entry.SetField(field, value)

	s.writeEntry(ctx, "update_day_field", entry)
	return true
}

// ResetDay removes the entry for date from the ledger entirely.
func (s *TrackingStore) ResetDay(ctx context.Context, date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[date]; !ok {
		return false
	}

	next := make(map[string]domain.DayEntry, len(s.entries))
	for k, v := range s.entries {
		if k != date {
			next[k] = v
		}
	}

	s.entries = next
	s.persist(ctx, domain.KeyEntries, next)
	s.applied("reset_day")
	return true
}

func (s *TrackingStore) AddNote(ctx context.Context, date, text string) (domain.Note, bool) {
	if !domain.IsValidDate(date) {
		return domain.Note{}, false
	}

	note, err := domain.NewNote(text)
	if err != nil {
		return domain.Note{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.entryOrDefault(date)
	entry.Notes = append(entry.Notes, note)

	s.writeEntry(ctx, "add_note", entry)
	return note, true
}

func (s *TrackingStore) RemoveNote(ctx context.Context, date, noteID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.entries[date]
	if !ok || !stored.HasNote(noteID) {
		return false
	}

	entry := stored.Clone()
	kept := make([]domain.Note, 0, len(entry.Notes))
	for _, n := range entry.Notes {
		if n.ID != noteID {
			kept = append(kept, n)
		}
	}
	entry.Notes = kept

	s.writeEntry(ctx, "remove_note", entry)
	return true
}

// ReorderNotes applies ids as the new note order. The resulting list is
// always a permutation of the existing notes.
func (s *TrackingStore) ReorderNotes(ctx context.Context, date string, ids []string) ([]domain.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.entries[date]
	if !ok {
		return nil, false
	}

	entry := stored.Clone()
	byID := make(map[string]domain.Note, len(entry.Notes))
	current := make([]string, 0, len(entry.Notes))
	for _, n := range entry.Notes {
		byID[n.ID] = n
		current = append(current, n.ID)
	}

	reordered := make([]domain.Note, 0, len(current))
	for _, id := range domain.ReorderIDs(current, ids) {
		reordered = append(reordered, byID[id])
	}
	entry.Notes = reordered

	s.writeEntry(ctx, "reorder_notes", entry)
	return append([]domain.Note(nil), reordered...), true
}
