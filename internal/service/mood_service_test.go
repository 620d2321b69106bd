package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mood_journal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memMoods is an in-memory repository.MoodRepo that mirrors the SQL semantics.
type memMoods struct {
	entries   []models.MoodEntry
	findErr   error
	appendErr error
	findCalls []string
}

func (m *memMoods) Append(_ context.Context, e models.MoodEntry) (int, error) {
	if m.appendErr != nil {
		return 0, m.appendErr
	}
	e.ID = len(m.entries) + 1
	m.entries = append(m.entries, e)
	return e.ID, nil
}

func (m *memMoods) ListByUsername(_ context.Context, username string) ([]models.MoodEntry, error) {
	var out []models.MoodEntry
	for _, e := range m.entries {
		if e.Username == username {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memMoods) FindByUsernameAndDate(_ context.Context, username, date string) (*models.MoodEntry, error) {
	m.findCalls = append(m.findCalls, date)
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, e := range m.entries {
		if e.Username == username && e.Date == date {
			return &e, nil
		}
	}
	return nil, nil
}

var alice = models.Identity{UserID: 1, Username: "alice", SessionID: "s"}

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 21, 15, 0, 0, time.Local)
}

func TestMoodService_FirstEntryStartsStreak(t *testing.T) {
	repo := &memMoods{}
	svc := NewMoodService(repo, FixedClock(day(10)))

	e, err := svc.AddEntry(context.Background(), alice, "calm")
	require.NoError(t, err)
	assert.Equal(t, 1, e.Streak)
	assert.Equal(t, "2025/03/10", e.Date)
	assert.Equal(t, "alice", e.Username)
	assert.Equal(t, 1, e.ID)
	assert.Equal(t, []string{"2025/03/09"}, repo.findCalls)
}

func TestMoodService_StreakSequence(t *testing.T) {
	repo := &memMoods{}
	clock := &movableClock{}
	svc := NewMoodService(repo, clock)
	ctx := context.Background()

	steps := []struct {
		day        int
		wantStreak int
	}{
		{day: 1, wantStreak: 1},
		{day: 2, wantStreak: 2},
		// day 3 skipped
		{day: 4, wantStreak: 1},
		{day: 5, wantStreak: 2},
		{day: 6, wantStreak: 3},
	}
	for _, st := range steps {
		clock.now = day(st.day)
		e, err := svc.AddEntry(ctx, alice, "entry")
		require.NoError(t, err)
		assert.Equalf(t, st.wantStreak, e.Streak, "streak on day %d", st.day)
	}
}

func TestMoodService_SameDayEntriesComputeIndependently(t *testing.T) {
	repo := &memMoods{}
	clock := &movableClock{now: day(1)}
	svc := NewMoodService(repo, clock)
	ctx := context.Background()

	_, err := svc.AddEntry(ctx, alice, "morning")
	require.NoError(t, err)

	clock.now = day(2)
	first, err := svc.AddEntry(ctx, alice, "morning")
	require.NoError(t, err)
	second, err := svc.AddEntry(ctx, alice, "evening")
	require.NoError(t, err)

	assert.Equal(t, 2, first.Streak)
	assert.Equal(t, 2, second.Streak, "same-day entries both look back at yesterday")
}

func TestMoodService_StreakIgnoresOtherUsers(t *testing.T) {
	repo := &memMoods{entries: []models.MoodEntry{
		{ID: 1, Username: "bob", Description: "x", Date: "2025/03/09", Streak: 5},
	}}
	svc := NewMoodService(repo, FixedClock(day(10)))

	e, err := svc.AddEntry(context.Background(), alice, "calm")
	require.NoError(t, err)
	assert.Equal(t, 1, e.Streak)
}

func TestMoodService_CrossesMonthBoundary(t *testing.T) {
	repo := &memMoods{entries: []models.MoodEntry{
		{ID: 1, Username: "alice", Description: "x", Date: "2025/02/28", Streak: 3},
	}}
	svc := NewMoodService(repo, FixedClock(time.Date(2025, time.March, 1, 8, 0, 0, 0, time.Local)))

	e, err := svc.AddEntry(context.Background(), alice, "spring")
	require.NoError(t, err)
	assert.Equal(t, 4, e.Streak)
}

func TestMoodService_AddEntryValidation(t *testing.T) {
	for name, desc := range map[string]string{
		"empty":    "",
		"blank":    "   ",
		"too long": strings.Repeat("a", maxDescriptionLen+1),
	} {
		t.Run(name, func(t *testing.T) {
			repo := &memMoods{}
			svc := NewMoodService(repo, FixedClock(day(10)))

			_, err := svc.AddEntry(context.Background(), alice, desc)
			require.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, repo.entries)
		})
	}
}

func TestMoodService_AddEntryRepoErrors(t *testing.T) {
	t.Run("lookup", func(t *testing.T) {
		repo := &memMoods{findErr: errors.New("locked")}
		svc := NewMoodService(repo, FixedClock(day(10)))
		_, err := svc.AddEntry(context.Background(), alice, "x")
		require.Error(t, err)
		assert.Empty(t, repo.entries)
	})
	t.Run("append", func(t *testing.T) {
		repo := &memMoods{appendErr: errors.New("readonly")}
		svc := NewMoodService(repo, FixedClock(day(10)))
		_, err := svc.AddEntry(context.Background(), alice, "x")
		require.Error(t, err)
	})
}

func TestMoodService_ListForUser(t *testing.T) {
	repo := &memMoods{}
	svc := NewMoodService(repo, FixedClock(day(10)))

	empty, err := svc.ListForUser(context.Background(), alice)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	repo.entries = []models.MoodEntry{
		{ID: 1, Username: "alice", Description: "a", Date: "2025/03/09", Streak: 1},
		{ID: 2, Username: "bob", Description: "b", Date: "2025/03/09", Streak: 1},
		{ID: 3, Username: "alice", Description: "c", Date: "2025/03/10", Streak: 2},
	}
	got, err := svc.ListForUser(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Description)
	assert.Equal(t, "c", got[1].Description)
}
