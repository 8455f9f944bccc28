package solver

import (
	"slices"

	"github.com/samber/lo"
)

// Pair is a (position, letter) constraint. Whether it locks the letter in
// place or excludes it from that place depends on which Store set holds it.
type Pair struct {
	Position int
	Letter   byte
}

// Store accumulates the constraints of one solving session.
//
// A letter is never in both excluded and required, and a Pair is never in
// both locked and misplaced. ApplyFeedback is the only mutator besides Reset.
// A Store is not safe for concurrent use; callers own one per session.
type Store struct {
	excluded  map[byte]struct{}
	required  map[byte]struct{}
	locked    map[Pair]struct{}
	misplaced map[Pair]struct{}
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		excluded:  make(map[byte]struct{}),
		required:  make(map[byte]struct{}),
		locked:    make(map[Pair]struct{}),
		misplaced: make(map[Pair]struct{}),
	}
}

// ApplyFeedback folds one event into the store, first revoking whatever that
// cell contributed that the new classification contradicts. Invalid events
// are rejected and leave the store unchanged.
func (s *Store) ApplyFeedback(f Feedback) error {
	if err := f.Validate(); err != nil {
		return err
	}
	p := Pair{Position: f.Position, Letter: f.Letter}

	switch f.Classification {
	case Absent:
		delete(s.required, f.Letter)
		delete(s.locked, p)
		delete(s.misplaced, p)
		s.excluded[f.Letter] = struct{}{}
	case PresentWrongPosition:
		// Revoking a lock keeps the letter required.
		delete(s.locked, p)
		delete(s.excluded, f.Letter)
		s.misplaced[p] = struct{}{}
		s.required[f.Letter] = struct{}{}
	case CorrectPosition:
		delete(s.misplaced, p)
		delete(s.excluded, f.Letter)
		s.locked[p] = struct{}{}
		s.required[f.Letter] = struct{}{}
	}
	return nil
}

// Reset empties every constraint set.
func (s *Store) Reset() {
	clear(s.excluded)
	clear(s.required)
	clear(s.locked)
	clear(s.misplaced)
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	c := NewStore()
	for k := range s.excluded {
		c.excluded[k] = struct{}{}
	}
	for k := range s.required {
		c.required[k] = struct{}{}
	}
	for k := range s.locked {
		c.locked[k] = struct{}{}
	}
	for k := range s.misplaced {
		c.misplaced[k] = struct{}{}
	}
	return c
}

// IsEmpty reports whether no feedback has been recorded.
func (s *Store) IsEmpty() bool {
	return len(s.excluded) == 0 && len(s.required) == 0 && len(s.locked) == 0 && len(s.misplaced) == 0
}

func (s *Store) Excluded(letter byte) bool {
	_, ok := s.excluded[letter]
	return ok
}

func (s *Store) Required(letter byte) bool {
	_, ok := s.required[letter]
	return ok
}

func (s *Store) Locked(position int, letter byte) bool {
	_, ok := s.locked[Pair{position, letter}]
	return ok
}

func (s *Store) Misplaced(position int, letter byte) bool {
	_, ok := s.misplaced[Pair{position, letter}]
	return ok
}

// ExcludedLetters returns the excluded letters in ascending order.
func (s *Store) ExcludedLetters() []byte {
	return sortedLetters(s.excluded)
}

// RequiredLetters returns the required letters in ascending order.
func (s *Store) RequiredLetters() []byte {
	return sortedLetters(s.required)
}

// LockedPairs returns the locked pairs ordered by position, then letter.
func (s *Store) LockedPairs() []Pair {
	return sortedPairs(s.locked)
}

// MisplacedPairs returns the position-excluded pairs ordered by position, then letter.
func (s *Store) MisplacedPairs() []Pair {
	return sortedPairs(s.misplaced)
}

func sortedLetters(set map[byte]struct{}) []byte {
	letters := lo.Keys(set)
	slices.Sort(letters)
	return letters
}

func sortedPairs(set map[Pair]struct{}) []Pair {
	pairs := lo.Keys(set)
	slices.SortFunc(pairs, func(a, b Pair) int {
		if a.Position != b.Position {
			return a.Position - b.Position
		}
		return int(a.Letter) - int(b.Letter)
	})
	return pairs
}
