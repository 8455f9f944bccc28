// Package lexicon provides dictionary validity oracles for the candidate filter.
package lexicon

import (
	"context"
	"sync"

	"letreco/internal/wordlist"
)

// Set is an in-memory dictionary. It never fails.
type Set struct {
	mu    sync.RWMutex
	words map[string]struct{}
}

// NewSet builds a Set from words, normalizing each one.
func NewSet(words []string) *Set {
	s := &Set{}
	s.Replace(words)
	return s
}

// LoadSet builds a Set from every file matching pattern.
func LoadSet(pattern string) (*Set, error) {
	words, err := wordlist.Load(pattern)
	if err != nil {
		return nil, err
	}
	return NewSet(words), nil
}

// Replace swaps the dictionary contents.
func (s *Set) Replace(words []string) {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[wordlist.Normalize(w)] = struct{}{}
	}
	s.mu.Lock()
	s.words = m
	s.mu.Unlock()
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// IsWord implements solver.Oracle.
func (s *Set) IsWord(_ context.Context, word string) (bool, error) {
	s.mu.RLock()
	_, ok := s.words[word]
	s.mu.RUnlock()
	return ok, nil
}
