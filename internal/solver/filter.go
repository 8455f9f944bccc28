package solver

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Stage identifies one step of the candidate filter.
type Stage int

const (
	StageDuplicates Stage = iota + 1
	StageExclusion
	StageLock
	StageRequired
	StageDictionary
)

var stageNames = map[Stage]string{
	StageDuplicates: "duplicates",
	StageExclusion:  "exclusion",
	StageLock:       "lock",
	StageRequired:   "required",
	StageDictionary: "dictionary",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// MarshalText renders the stage by name.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StageReport records how many words entered and left a stage.
type StageReport struct {
	Stage    Stage `json:"stage"`
	In       int   `json:"in"`
	Out      int   `json:"out"`
	FellBack bool  `json:"fellBack"`
}

// Result is the outcome of one pipeline run.
type Result struct {
	Words  []string      `json:"words"`
	Stages []StageReport `json:"stages"`
}

// Conflicting reports whether the lock or required stage emptied the set and
// was reverted to its input. The words are still usable, but the collected
// feedback probably contradicts itself.
func (r Result) Conflicting() bool {
	return lo.SomeBy(r.Stages, func(s StageReport) bool { return s.FellBack })
}

// Pipeline filters a word list against a Store. A nil Oracle accepts every word.
type Pipeline struct {
	Oracle Oracle
}

// Run applies every stage in order to words and returns the survivors in
// their original relative order. An Oracle failure aborts the pass and no
// partial result is returned.
func (p Pipeline) Run(ctx context.Context, words []string, s *Store) (Result, error) {
	res := Result{Stages: make([]StageReport, 0, 5)}

	a := DuplicateLetterScreen(words)
	res.Stages = append(res.Stages, StageReport{Stage: StageDuplicates, In: len(words), Out: len(a)})

	b := ExclusionScreen(a, s)
	res.Stages = append(res.Stages, StageReport{Stage: StageExclusion, In: len(a), Out: len(b)})

	c, fellBack := withFallback(b, LockScreen(b, s))
	res.Stages = append(res.Stages, StageReport{Stage: StageLock, In: len(b), Out: len(c), FellBack: fellBack})

	d, fellBack := withFallback(c, RequiredScreen(c, s))
	res.Stages = append(res.Stages, StageReport{Stage: StageRequired, In: len(c), Out: len(d), FellBack: fellBack})

	e, err := DictionaryScreen(ctx, d, p.Oracle)
	if err != nil {
		return Result{}, err
	}
	res.Stages = append(res.Stages, StageReport{Stage: StageDictionary, In: len(d), Out: len(e)})

	res.Words = e
	return res, nil
}

// withFallback returns in instead of an empty out, treating an emptied set as inconclusive.
func withFallback(in, out []string) ([]string, bool) {
	if len(out) == 0 && len(in) > 0 {
		return in, true
	}
	return out, false
}

// DuplicateLetterScreen keeps non-empty words whose letters are pairwise distinct.
func DuplicateLetterScreen(words []string) []string {
	return lo.Filter(words, func(w string, _ int) bool {
		return w != "" && !HasDuplicateLetters(w)
	})
}

// ExclusionScreen drops words containing any excluded letter.
func ExclusionScreen(words []string, s *Store) []string {
	excluded := string(s.ExcludedLetters())
	if excluded == "" {
		return words
	}
	return lo.Filter(words, func(w string, _ int) bool {
		return !strings.ContainsAny(w, excluded)
	})
}

// LockScreen keeps words carrying every locked letter at its position.
func LockScreen(words []string, s *Store) []string {
	locked := s.LockedPairs()
	return lo.Filter(words, func(w string, _ int) bool {
		return lo.EveryBy(locked, func(p Pair) bool {
			return p.Position < len(w) && w[p.Position] == p.Letter
		})
	})
}

// RequiredScreen keeps words that contain every required letter and do not
// carry a position-excluded letter at that position.
func RequiredScreen(words []string, s *Store) []string {
	required := s.RequiredLetters()
	misplaced := s.MisplacedPairs()
	return lo.Filter(words, func(w string, _ int) bool {
		if !lo.EveryBy(required, func(l byte) bool { return strings.IndexByte(w, l) >= 0 }) {
			return false
		}
		return lo.NoneBy(misplaced, func(p Pair) bool {
			return p.Position < len(w) && w[p.Position] == p.Letter
		})
	})
}

// DictionaryScreen keeps the words oracle recognizes.
func DictionaryScreen(ctx context.Context, words []string, oracle Oracle) ([]string, error) {
	if oracle == nil {
		return words, nil
	}
	kept := make([]string, 0, len(words))
	for _, w := range words {
		ok, err := oracle.IsWord(ctx, w)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrOracle, w, err)
		}
		if ok {
			kept = append(kept, w)
		}
	}
	return kept, nil
}
