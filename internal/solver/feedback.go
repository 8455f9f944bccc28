package solver

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Feedback is one (position, letter, classification) event from the grid.
type Feedback struct {
	Position       int
	Letter         byte
	Classification Classification
}

// Validate checks the event against the word shape and alphabet.
func (f Feedback) Validate() error {
	if f.Position < 0 || f.Position >= WordLength {
		return fmt.Errorf("%w: %d", ErrInvalidPosition, f.Position)
	}
	if !isLetter(f.Letter) {
		return fmt.Errorf("%w: %q", ErrInvalidLetter, f.Letter)
	}
	if !f.Classification.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidClassification, int(f.Classification))
	}
	return nil
}

func (f Feedback) String() string {
	return fmt.Sprintf("%d:%c:%s", f.Position, f.Letter, f.Classification)
}

// ParseFeedback builds a validated Feedback from loosely typed input.
// The letter is trimmed and lowercased; it must then be exactly one a-z rune.
func ParseFeedback(position int, letter, classification string) (Feedback, error) {
	letter = strings.ToLower(strings.TrimSpace(letter))
	if utf8.RuneCountInString(letter) != 1 || !isLetter(letter[0]) {
		return Feedback{}, fmt.Errorf("%w: %q", ErrInvalidLetter, letter)
	}
	c, err := ParseClassification(classification)
	if err != nil {
		return Feedback{}, err
	}
	f := Feedback{Position: position, Letter: letter[0], Classification: c}
	if err := f.Validate(); err != nil {
		return Feedback{}, err
	}
	return f, nil
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}
