package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"mood_journal/internal/models"
	"mood_journal/internal/repository"
)

const maxDescriptionLen = 120

type MoodService struct {
	moods repository.MoodRepo
	clock Clock
}

func NewMoodService(moods repository.MoodRepo, clock Clock) *MoodService {
	return &MoodService{moods: moods, clock: clock}
}

// ListForUser returns the user's entries in insertion order. Never nil.
func (s *MoodService) ListForUser(ctx context.Context, id models.Identity) ([]models.MoodEntry, error) {
	entries, err := s.moods.ListByUsername(ctx, id.Username)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.MoodEntry{}
	}
	return entries, nil
}

// AddEntry records a mood for today. The streak continues only if an entry
// exists for exactly the previous calendar day; otherwise it restarts at 1.
func (s *MoodService) AddEntry(ctx context.Context, id models.Identity, description string) (models.MoodEntry, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return models.MoodEntry{}, validationError("description is required")
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return models.MoodEntry{}, validationError(fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
	}

	today, yesterday := calendarDays(s.clock)

	prev, err := s.moods.FindByUsernameAndDate(ctx, id.Username, yesterday)
	if err != nil {
		return models.MoodEntry{}, err
	}

	entry := models.MoodEntry{
		Username:    id.Username,
		Description: description,
		Date:        today,
		Streak:      nextStreak(prev),
	}
	entry.ID, err = s.moods.Append(ctx, entry)
	if err != nil {
		return models.MoodEntry{}, err
	}
	return entry, nil
}

// calendarDays returns today and yesterday in the clock's location, formatted as stored.
func calendarDays(c Clock) (today, yesterday string) {
	now := c.Now()
	return now.Format(models.DateLayout), now.AddDate(0, 0, -1).Format(models.DateLayout)
}

func nextStreak(prev *models.MoodEntry) int {
	if prev == nil {
		return 1
	}
	return prev.Streak + 1
}
