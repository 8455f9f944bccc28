package solver

import "fmt"

// CellPosition converts a 1-based flat index into the 5x5 feedback grid
// (row-major, 1..GridCells) to the 0-based letter position in the word.
// Indexes that are an exact multiple of WordLength land on the last column.
func CellPosition(index int) (int, error) {
	if index < 1 || index > GridCells {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCell, index)
	}
	if index%WordLength == 0 {
		return WordLength - 1, nil
	}
	return index%WordLength - 1, nil
}

// CellRow returns the 0-based guess row of a 1-based flat grid index.
func CellRow(index int) (int, error) {
	if index < 1 || index > GridCells {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCell, index)
	}
	return (index - 1) / WordLength, nil
}

// HasDuplicateLetters reports whether any letter occurs more than once in word.
func HasDuplicateLetters(word string) bool {
	var seen [256]bool
	for i := 0; i < len(word); i++ {
		if seen[word[i]] {
			return true
		}
		seen[word[i]] = true
	}
	return false
}
