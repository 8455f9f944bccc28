package solver

import (
	"fmt"
	"strings"
)

// Word and grid dimensions.
const (
	WordLength = 5
	MaxGuesses = 5
	GridCells  = WordLength * MaxGuesses
)

// Classification is the feedback given for one letter cell.
type Classification int

const (
	Absent Classification = iota
	PresentWrongPosition
	CorrectPosition
)

var classificationNames = map[Classification]string{
	Absent:               "absent",
	PresentWrongPosition: "present",
	CorrectPosition:      "correct",
}

var classificationAliases = map[string]Classification{
	"absent":  Absent,
	"gray":    Absent,
	"grey":    Absent,
	"x":       Absent,
	"present": PresentWrongPosition,
	"yellow":  PresentWrongPosition,
	"-":       PresentWrongPosition,
	"correct": CorrectPosition,
	"green":   CorrectPosition,
	"ok":      CorrectPosition,
}

func (c Classification) String() string {
	if name, ok := classificationNames[c]; ok {
		return name
	}
	return fmt.Sprintf("classification(%d)", int(c))
}

// Valid reports whether c is one of the three known classifications.
func (c Classification) Valid() bool {
	_, ok := classificationNames[c]
	return ok
}

// ParseClassification maps a UI action name (absent/present/correct and the
// gray/yellow/green, X/-/ok aliases) to a Classification.
func ParseClassification(s string) (Classification, error) {
	c, ok := classificationAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClassification, s)
	}
	return c, nil
}

// MarshalText lets Classification appear as its name in JSON.
func (c Classification) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidClassification, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText accepts any spelling ParseClassification accepts.
func (c *Classification) UnmarshalText(b []byte) error {
	parsed, err := ParseClassification(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
