// Command lexicon imports dictionary word lists into a SQLite lexicon for
// use as LEXICON_DB.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"letreco/internal/lexicon"
	"letreco/internal/wordlist"
)

func main() {
	var (
		dbPath = flag.String("db", "data/lexicon.db", "SQLite lexicon database (created if missing)")
		input  = flag.String("input", "", "Word list path or glob, e.g. dicts/**/*.txt")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("Usage: go run ./cmd/lexicon -input=<file or glob> [-db=<file>]")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	added, total, err := run(ctx, *dbPath, *input)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Printf("Added %d words, %s now holds %d", added, *dbPath, total)
}

// run imports every word list matching input into the lexicon at dbPath and
// returns how many words were new and the lexicon size afterwards.
func run(ctx context.Context, dbPath, input string) (added, total int, err error) {
	words, err := wordlist.Load(input)
	if err != nil {
		return 0, 0, err
	}

	db, err := lexicon.OpenSQLite(dbPath)
	if err != nil {
		return 0, 0, err
	}
	defer db.Close()

	if added, err = db.Import(ctx, words); err != nil {
		return 0, 0, err
	}
	if total, err = db.Count(ctx); err != nil {
		return 0, 0, err
	}
	return added, total, nil
}
