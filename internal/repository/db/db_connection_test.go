package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestInitDB_CreatesSchema(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	path := filepath.Join(t.TempDir(), "mood.db")
	db, err := InitDB(ctx, path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer func() { _ = db.Close() }()

	for _, table := range []string{"users", "mood_entries", "sessions"} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %q not found: %v", table, err)
		}
	}
}

func TestInitDB_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mood.db")

	first, err := InitDB(ctx, path)
	if err != nil {
		t.Fatalf("first InitDB: %v", err)
	}
	if _, err := first.ExecContext(ctx, `INSERT INTO users (username, password_hash) VALUES ('alice', 'h')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_ = first.Close()

	second, err := InitDB(ctx, path)
	if err != nil {
		t.Fatalf("second InitDB: %v", err)
	}
	defer func() { _ = second.Close() }()

	var n int
	if err := second.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected existing row to survive re-migration, got %d rows", n)
	}
}

func TestInitDB_EnforcesUniqueUsername(t *testing.T) {
	ctx := context.Background()
	db, err := InitDB(ctx, filepath.Join(t.TempDir(), "mood.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer func() { _ = db.Close() }()

	const q = `INSERT INTO users (username, password_hash) VALUES ('bob', 'h')`
	if _, err := db.ExecContext(ctx, q); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := db.ExecContext(ctx, q); err == nil {
		t.Fatalf("expected unique violation on duplicate username")
	}
}
