package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mood_journal/internal/models"
)

type MoodSQLite struct {
	db *sql.DB
}

func NewMoodSQLite(db *sql.DB) *MoodSQLite { return &MoodSQLite{db: db} }

var _ MoodRepo = (*MoodSQLite)(nil)

const (
	insertMoodSQL = `INSERT INTO mood_entries (username, description, date, streak) VALUES (?, ?, ?, ?)`

	selectMoodsByUsernameSQL = `SELECT id, username, description, date, streak FROM mood_entries WHERE username = ? ORDER BY id ASC`

	selectMoodByUsernameAndDateSQL = `SELECT id, username, description, date, streak FROM mood_entries WHERE username = ? AND date = ? ORDER BY id ASC LIMIT 1`
)

// Append inserts a new entry and returns its ID.
func (r *MoodSQLite) Append(ctx context.Context, e models.MoodEntry) (int, error) {
	res, err := r.db.ExecContext(ctx, insertMoodSQL, e.Username, e.Description, e.Date, e.Streak)
	if err != nil {
		return 0, fmt.Errorf("insert mood entry for %q: %w", e.Username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for mood entry: %w", err)
	}
	return int(id), nil
}

// ListByUsername returns all entries owned by username in insertion order.
func (r *MoodSQLite) ListByUsername(ctx context.Context, username string) ([]models.MoodEntry, error) {
	rows, err := r.db.QueryContext(ctx, selectMoodsByUsernameSQL, username)
	if err != nil {
		return nil, fmt.Errorf("select mood entries for %q: %w", username, err)
	}
	defer rows.Close()

	out := make([]models.MoodEntry, 0, 16)
	for rows.Next() {
		var e models.MoodEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Description, &e.Date, &e.Streak); err != nil {
			return nil, fmt.Errorf("scan mood entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mood entries: %w", err)
	}
	return out, nil
}

// FindByUsernameAndDate returns the earliest entry for username on date. Returns (nil, nil) if none.
func (r *MoodSQLite) FindByUsernameAndDate(ctx context.Context, username, date string) (*models.MoodEntry, error) {
	var e models.MoodEntry
	err := r.db.QueryRowContext(ctx, selectMoodByUsernameAndDateSQL, username, date).
		Scan(&e.ID, &e.Username, &e.Description, &e.Date, &e.Streak)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select mood entry for %q on %s: %w", username, date, err)
	}
	return &e, nil
}
