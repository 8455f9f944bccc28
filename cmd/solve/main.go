// Command solve runs one offline filtering pass: it replays a script of
// feedback events against a word list and writes the surviving candidates.
//
// Script lines hold "<position> <letter> <classification>", where position
// is 0-4, or "@<cell>" for a 1-25 grid cell. Blank lines and lines starting
// with # are ignored.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"letreco/internal/lexicon"
	"letreco/internal/solver"
	"letreco/internal/wordlist"
)

func main() {
	var (
		wordsPath   = flag.String("words", "data/br-5-letras.txt", "Word list path or glob")
		scriptPath  = flag.String("script", "", "Feedback script (default: stdin)")
		outFile     = flag.String("out", "resultado.txt", "Candidates before the dictionary check")
		outFiltered = flag.String("out-filtered", "resultado_filtered.txt", "Candidates accepted by the dictionary")
		lexiconDB   = flag.String("lexicon-db", "", "SQLite lexicon database")
		lexiconPath = flag.String("lexicon", "", "Dictionary word list path or glob")
	)
	flag.Parse()

	words, err := wordlist.Load(*wordsPath)
	if err != nil {
		log.Fatalf("Failed to load word list: %v", err)
	}

	events, err := readScript(*scriptPath)
	if err != nil {
		log.Fatalf("Failed to parse script: %v", err)
	}

	store := solver.NewStore()
	for _, f := range events {
		if err := store.ApplyFeedback(f); err != nil {
			log.Fatalf("Rejected event %s: %v", f, err)
		}
	}

	oracle, closeOracle, err := openOracle(*lexiconDB, *lexiconPath)
	if err != nil {
		log.Fatalf("Failed to open lexicon: %v", err)
	}
	defer closeOracle()

	ctx := context.Background()
	res, err := solver.Pipeline{}.Run(ctx, words, store)
	if err != nil {
		log.Fatalf("Filtering failed: %v", err)
	}
	for _, s := range res.Stages[:4] {
		log.Printf("%-10s %5d -> %5d%s", s.Stage, s.In, s.Out, fallbackNote(s.FellBack))
	}
	if err := wordlist.Save(*outFile, res.Words); err != nil {
		log.Fatalf("Failed to write %s: %v", *outFile, err)
	}

	if oracle == nil {
		log.Printf("No lexicon given, skipping %s", *outFiltered)
		return
	}
	filtered, err := solver.DictionaryScreen(ctx, res.Words, oracle)
	if err != nil {
		log.Fatalf("Dictionary check failed: %v", err)
	}
	log.Printf("%-10s %5d -> %5d", solver.StageDictionary, len(res.Words), len(filtered))
	if err := wordlist.Save(*outFiltered, filtered); err != nil {
		log.Fatalf("Failed to write %s: %v", *outFiltered, err)
	}
}

func fallbackNote(fellBack bool) string {
	if fellBack {
		return " (emptied, reverted)"
	}
	return ""
}

func openOracle(dbPath, listPath string) (solver.Oracle, func(), error) {
	switch {
	case dbPath != "":
		db, err := lexicon.OpenSQLite(dbPath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	case listPath != "":
		set, err := lexicon.LoadSet(listPath)
		if err != nil {
			return nil, nil, err
		}
		return set, func() {}, nil
	}
	return nil, func() {}, nil
}

// readScript parses the script at path, or stdin when path is empty. The
// file is closed before returning.
func readScript(path string) ([]solver.Feedback, error) {
	if path == "" {
		return parseScript(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	events, err := parseScript(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return events, err
}

// parseScript reads feedback events, one per line.
func parseScript(r io.Reader) ([]solver.Feedback, error) {
	var events []solver.Feedback
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: want 3 fields, got %d", lineNo, len(fields))
		}
		position, err := parsePosition(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		f, err := solver.ParseFeedback(position, wordlist.FoldAccents(fields[1]), fields[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		events = append(events, f)
	}
	return events, scanner.Err()
}

func parsePosition(field string) (int, error) {
	if cell, ok := strings.CutPrefix(field, "@"); ok {
		index, err := strconv.Atoi(cell)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", solver.ErrInvalidCell, field)
		}
		return solver.CellPosition(index)
	}
	position, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", solver.ErrInvalidPosition, field)
	}
	return position, nil
}
