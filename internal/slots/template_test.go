package slots

import (
	"reflect"
	"testing"
)

func TestTemplateJoinsRuns(t *testing.T) {
	classes := ClassifyPassword("abc123", Options{})
	if got := Template(classes); got != "FRAG|DIGITS3" {
		t.Fatalf("expected FRAG|DIGITS3, got %q", got)
	}
	if got := TemplateFor("2024!", Options{}); got != "DIGITS4|SYMBOL" {
		t.Fatalf("expected DIGITS4|SYMBOL, got %q", got)
	}
}

func TestParseTemplate(t *testing.T) {
	got := ParseTemplate("WORD4|DIGITS2")
	want := []Slot{{Type: Word, Length: 4}, {Type: Digits, Length: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseTemplate(WORD4|DIGITS2) = %v, want %v", got, want)
	}
}

func TestParseTemplateFailsOpen(t *testing.T) {
	cases := []struct {
		in   string
		want []Slot
	}{
		{"SYMBOL", []Slot{{Type: Symbol}}},
		{"FRAG", []Slot{{Type: Frag}}},
		{"WORD", []Slot{{Type: Word}}},
		{"DIGITS", []Slot{{Type: Digits}}},
		{"WORDx", []Slot{{Type: Frag}}},
		{"WORD0", []Slot{{Type: Frag}}},
		{"DIGITS-2", []Slot{{Type: Frag}}},
		{"SYMBOL2", []Slot{{Type: Frag}}},
		{"BOGUS9", []Slot{{Type: Frag}}},
		{"", []Slot{{Type: Frag}}},
		{"WORD3|junk|DIGITS1", []Slot{{Type: Word, Length: 3}, {Type: Frag}, {Type: Digits, Length: 1}}},
	}
	for _, tc := range cases {
		got := ParseTemplate(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ParseTemplate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTemplateRoundTripSlotTypes(t *testing.T) {
	vocab := testVocab{"password": {}, "summer": {}, "love": {}}
	opts := Options{Leet: true, Vocab: vocab}
	passwords := []string{
		"abc123",
		"Password1!",
		"summer2020",
		"love",
		"!!99xx",
		"a",
		"#@!",
		"x9y8z7",
	}
	for _, pw := range passwords {
		classes := ClassifyPassword(pw, opts)
		decoded := ParseTemplate(Template(classes))
		if len(decoded) != len(classes) {
			t.Fatalf("%q: decoded %d slots, classified %d", pw, len(decoded), len(classes))
		}
		for i := range classes {
			if decoded[i].Type != classes[i].Type {
				t.Fatalf("%q slot %d: decoded %s, classified %s", pw, i, decoded[i].Type, classes[i].Type)
			}
		}
	}
}
