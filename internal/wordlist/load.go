// Package wordlist loads the candidate word list from line-delimited text
// files and keeps it fresh while the service runs.
package wordlist

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"

	"letreco/internal/solver"
)

// WordLength is the only word length kept by the loader.
const WordLength = solver.WordLength

// ErrNoFiles is returned when a pattern matches no file.
var ErrNoFiles = errors.New("no word list files match")

// Load reads every file matching pattern (a path or a doublestar glob such
// as "data/**/*.txt") in lexical order and returns the normalized words,
// de-duplicated, in first-seen order.
func Load(pattern string) ([]string, error) {
	paths, err := Expand(pattern)
	if err != nil {
		return nil, err
	}

	var words []string
	seen := make(map[string]struct{})
	for _, path := range paths {
		fileWords, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		for _, w := range fileWords {
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			words = append(words, w)
		}
	}
	log.Printf("Loaded %d words from %d file(s) matching %s", len(words), len(paths), pattern)
	return words, nil
}

// Expand resolves pattern to the list of files it names.
func Expand(pattern string) ([]string, error) {
	paths, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("bad word list pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, pattern)
	}
	return paths, nil
}

// LoadFile reads and parses a single word list file.
func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	words, enc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	log.Printf("Read %d words from %s (%s)", len(words), filepath.Base(path), enc)
	return words, nil
}

// Parse decodes data, normalizes each line and keeps the valid words in
// order. Duplicates inside one file are dropped. It also returns the
// detected encoding.
func Parse(data []byte) ([]string, string, error) {
	enc := DetectEncoding(data)
	text, err := DecodeToUTF8(data, enc)
	if err != nil {
		return nil, enc, err
	}
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	words := lo.Uniq(lo.FilterMap(lines, func(line string, _ int) (string, bool) {
		w := Normalize(line)
		return w, IsWord(w)
	}))
	return words, enc, nil
}
