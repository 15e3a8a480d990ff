// Package slots classifies password character runs and encodes structural templates.
package slots

import "strings"

// Type identifies the slot class of a single character run.
type Type uint8

const (
	Digits Type = iota
	Word
	Frag
	Symbol
)

// NTypes is the number of slot types; tables indexed by Type use this size.
const NTypes = 4

var typeNames = [NTypes]string{"DIGITS", "WORD", "FRAG", "SYMBOL"}

// String returns the template spelling of the slot type.
func (t Type) String() string {
	if int(t) >= len(typeNames) {
		return "FRAG"
	}
	return typeNames[t]
}

// TypeFromString maps a template spelling back to its slot type.
func TypeFromString(s string) (Type, bool) {
	for i, name := range typeNames {
		if s == name {
			return Type(i), true
		}
	}
	return Frag, false
}

// Vocabulary is the read-only dictionary consulted for WORD classification.
// Implementations must treat a nil receiver as an empty dictionary.
type Vocabulary interface {
	Contains(word string) bool
}

var leetMap = map[byte]byte{
	'0': 'o',
	'1': 'l',
	'3': 'e',
	'4': 'a',
	'5': 's',
	'7': 't',
	'@': 'a',
	'$': 's',
	'!': 'i',
}

// normalizeToken lowercases a token and optionally applies leet substitutions.
func normalizeToken(token string, leet bool) string {
	lowered := strings.ToLower(token)
	if !leet {
		return lowered
	}
	b := []byte(lowered)
	changed := false
	for i := range b {
		if sub, ok := leetMap[b[i]]; ok {
			b[i] = sub
			changed = true
		}
	}
	if !changed {
		return lowered
	}
	return string(b)
}
