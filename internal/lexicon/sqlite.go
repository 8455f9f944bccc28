package lexicon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "modernc.org/sqlite"

	"letreco/internal/wordlist"
)

const schema = `
CREATE TABLE IF NOT EXISTS words (
	word TEXT PRIMARY KEY
) WITHOUT ROWID;
`

// SQLite is a dictionary stored in a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the lexicon database at dbPath.
func OpenSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating lexicon schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// IsWord implements solver.Oracle. Any database error is returned as is.
func (s *SQLite) IsWord(ctx context.Context, word string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM words WHERE word = ?", word).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Import inserts words, normalized, in one transaction and returns how many
// were new. Words that do not normalize to five letters a-z are skipped.
func (s *SQLite) Import(ctx context.Context, words []string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO words (word) VALUES (?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	added := 0
	for _, w := range words {
		w = wordlist.Normalize(w)
		if !wordlist.IsWord(w) {
			continue
		}
		res, err := stmt.ExecContext(ctx, w)
		if err != nil {
			return 0, fmt.Errorf("inserting %q: %w", w, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	log.Printf("Imported %d new words into lexicon (%d given)", added, len(words))
	return added, nil
}

// Count returns the number of words in the lexicon.
func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM words").Scan(&n)
	return n, err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
