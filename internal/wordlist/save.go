package wordlist

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Save writes words to path, one per line, creating parent directories.
func Save(path string, words []string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("Failed to create directory for %s: %v", path, err)
			return err
		}
	}

	data := strings.Join(words, "\n")
	if len(words) > 0 {
		data += "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		log.Printf("Failed to write word list %s: %v", path, err)
		return err
	}
	log.Printf("Saved %d words to %s", len(words), path)
	return nil
}
