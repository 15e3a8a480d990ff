package generator

import "passgram/internal/slots"

// Length fallbacks for slots without an embedded length. Minimums mirror the
// shortest token each pool can hold; maximums apply when the pool is empty.
const (
	minWordLen   = 3
	minDigitsLen = 1
	minFragLen   = 3
	minSymbolLen = 1
	maxSymbolLen = 4

	fallbackWordMax   = 12
	fallbackDigitsMax = 4
	fallbackFragMax   = 12
)

// LengthRange estimates the span of candidate lengths a template can
// produce, using each slot's fixed length where present and pool-derived
// bounds elsewhere. Drivers use it to skip templates that cannot reach the
// minimum password length.
func (g *Generator) LengthRange(template string) (minLen, maxLen int) {
	for _, slot := range slots.ParseTemplate(template) {
		if slot.Length > 0 {
			minLen += slot.Length
			maxLen += slot.Length
			continue
		}
		switch slot.Type {
		case slots.Word:
			minLen += minWordLen
			maxLen += g.longestOr(slots.Word, fallbackWordMax)
		case slots.Digits:
			minLen += minDigitsLen
			maxLen += g.longestOr(slots.Digits, fallbackDigitsMax)
		case slots.Frag:
			minLen += minFragLen
			maxLen += g.longestOr(slots.Frag, fallbackFragMax)
		default:
			minLen += minSymbolLen
			maxLen += maxSymbolLen
		}
	}
	return minLen, maxLen
}

func (g *Generator) longestOr(typ slots.Type, fallback int) int {
	if g.longest[typ] > 0 {
		return g.longest[typ]
	}
	return fallback
}
