package models

// DateLayout is the calendar-date format stored in mood_entries.date.
const DateLayout = "2006/01/02"

// MoodEntry is a single journal record. Entries are append-only.
type MoodEntry struct {
	ID          int    `json:"-"`
	Username    string `json:"-"`
	Description string `json:"description"`
	Date        string `json:"date"`   // YYYY/MM/DD
	Streak      int    `json:"streak"` // >= 1
}
