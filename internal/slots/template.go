package slots

import (
	"strconv"
	"strings"
)

// Separator joins template tokens into a template string.
const Separator = "|"

// Slot is one decoded template position. Length 0 means the slot carries no
// fixed length: FRAG and SYMBOL never embed one, and WORD/DIGITS may appear
// bare in templates written by other classifier settings.
type Slot struct {
	Type   Type
	Length int
}

// Template joins run classifications into the whole-password template string.
func Template(classes []RunClass) string {
	if len(classes) == 0 {
		return ""
	}
	parts := make([]string, len(classes))
	for i, c := range classes {
		parts[i] = c.Template
	}
	return strings.Join(parts, Separator)
}

// TemplateFor classifies a password and returns its template string.
func TemplateFor(password string, opts Options) string {
	return Template(ClassifyPassword(password, opts))
}

// ParseTemplate decodes a template string into ordered slots. Unrecognized
// parts decode as FRAG: stored snapshots may carry templates produced under
// different classifier settings, and decoding must never fail.
func ParseTemplate(template string) []Slot {
	parts := strings.Split(template, Separator)
	decoded := make([]Slot, len(parts))
	for i, part := range parts {
		decoded[i] = parseSlot(part)
	}
	return decoded
}

func parseSlot(part string) Slot {
	switch {
	case part == Symbol.String():
		return Slot{Type: Symbol}
	case part == Frag.String():
		return Slot{Type: Frag}
	case strings.HasPrefix(part, Word.String()):
		return sizedSlot(Word, part[len(Word.String()):])
	case strings.HasPrefix(part, Digits.String()):
		return sizedSlot(Digits, part[len(Digits.String()):])
	}
	return Slot{Type: Frag}
}

// sizedSlot decodes the integer suffix of WORD<N>/DIGITS<N>. A bare type
// name means the length is unknown; a garbled suffix falls open to FRAG.
func sizedSlot(typ Type, suffix string) Slot {
	if suffix == "" {
		return Slot{Type: typ}
	}
	if n, err := strconv.Atoi(suffix); err == nil && n > 0 {
		return Slot{Type: typ, Length: n}
	}
	return Slot{Type: Frag}
}
