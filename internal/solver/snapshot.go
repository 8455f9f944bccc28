package solver

import "github.com/samber/lo"

// PairJSON is the wire form of a Pair.
type PairJSON struct {
	Position int    `json:"position"`
	Letter   string `json:"letter"`
}

// Constraints is a sorted, serializable view of a Store.
type Constraints struct {
	ExcludedLetters []string   `json:"excludedLetters"`
	RequiredLetters []string   `json:"requiredLetters"`
	LockedPairs     []PairJSON `json:"lockedPairs"`
	MisplacedPairs  []PairJSON `json:"excludedPositionPairs"`
}

// Snapshot captures the current constraint sets.
func (s *Store) Snapshot() Constraints {
	return Constraints{
		ExcludedLetters: lettersToStrings(s.ExcludedLetters()),
		RequiredLetters: lettersToStrings(s.RequiredLetters()),
		LockedPairs:     pairsToJSON(s.LockedPairs()),
		MisplacedPairs:  pairsToJSON(s.MisplacedPairs()),
	}
}

func lettersToStrings(letters []byte) []string {
	return lo.Map(letters, func(b byte, _ int) string { return string(b) })
}

func pairsToJSON(pairs []Pair) []PairJSON {
	return lo.Map(pairs, func(p Pair, _ int) PairJSON {
		return PairJSON{Position: p.Position, Letter: string(p.Letter)}
	})
}
