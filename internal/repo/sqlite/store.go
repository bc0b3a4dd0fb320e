package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store owns the database handle and hands out repositories.
type Store struct {
	DB *sqlx.DB
}

// Open connects to the SQLite database at path (":memory:" works for tests)
// and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() error { return s.DB.Close() }

func migrate(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS flashcard_sets (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		video_url   TEXT NOT NULL DEFAULT '',
		video_title TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS flashcards (
		id            TEXT NOT NULL,
		set_id        TEXT NOT NULL REFERENCES flashcard_sets(id) ON DELETE CASCADE,
		question      TEXT NOT NULL,
		answer        TEXT NOT NULL,
		category      TEXT NOT NULL DEFAULT '',
		difficulty    TEXT NOT NULL DEFAULT 'medium',
		tags          TEXT NOT NULL DEFAULT '[]',
		status        TEXT NOT NULL DEFAULT 'new',
		review_count  INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL DEFAULT '',
		last_reviewed TEXT NOT NULL DEFAULT '',
		position      INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (set_id, id)
	);

	CREATE TABLE IF NOT EXISTS curricula (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		playlist_url  TEXT NOT NULL DEFAULT '',
		creator       TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL DEFAULT '',
		last_accessed TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS chapters (
		id              TEXT PRIMARY KEY,
		curriculum_id   TEXT NOT NULL REFERENCES curricula(id) ON DELETE CASCADE,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		video_url       TEXT NOT NULL DEFAULT '',
		video_id        TEXT NOT NULL DEFAULT '',
		duration        TEXT NOT NULL DEFAULT '',
		notes           TEXT NOT NULL DEFAULT '',
		flashcards_json TEXT NOT NULL DEFAULT '[]',
		completed       INTEGER NOT NULL DEFAULT 0,
		completed_at    TEXT NOT NULL DEFAULT '',
		position        INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS quizzes (
		id             TEXT PRIMARY KEY,
		chapter_title  TEXT NOT NULL DEFAULT '',
		questions_json TEXT NOT NULL,
		created_at     TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS quiz_attempts (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		quiz_id     TEXT NOT NULL,
		percentage  REAL NOT NULL,
		correct     INTEGER NOT NULL,
		total       INTEGER NOT NULL,
		result_json TEXT NOT NULL,
		created_at  TEXT NOT NULL DEFAULT ''
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
