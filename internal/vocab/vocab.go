// Package vocab owns dictionary word sets used for WORD classification.
package vocab

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Set is a read-only dictionary of lowercase words. A nil Set contains
// nothing, so classifier lookups degrade gracefully when no dictionary is
// available.
type Set struct {
	words map[string]struct{}
}

// Load reads one word per line from the provided file path. Words are
// lowercased; anything outside plain a-z is dropped, since classifier tokens
// can never match it.
func Load(path string) (*Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	set := &Set{words: make(map[string]struct{})}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if !plainLower(word) {
			continue
		}
		set.words[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(set.words) == 0 {
		return nil, fmt.Errorf("vocab: word list %s is empty", path)
	}
	return set, nil
}

// Contains reports whether the set holds the word. Safe on a nil Set.
func (s *Set) Contains(word string) bool {
	if s == nil {
		return false
	}
	_, ok := s.words[word]
	return ok
}

// Len returns the number of words in the set. Zero for a nil Set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

func plainLower(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}
