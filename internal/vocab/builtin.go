package vocab

import (
	_ "embed"
	"strings"
)

// Fallback dictionary compiled into the binary, used when no word-list file
// is configured. Common English words that show up inside passwords.
//
//go:embed words.txt
var builtinRaw string

var builtin *Set

func init() {
	builtin = &Set{words: make(map[string]struct{})}
	for _, line := range strings.Split(builtinRaw, "\n") {
		word := strings.ToLower(strings.TrimSpace(line))
		if !plainLower(word) {
			continue
		}
		builtin.words[word] = struct{}{}
	}
}

// Builtin returns the compiled-in fallback word set.
func Builtin() *Set {
	return builtin
}
