package report

import (
	"strings"
	"testing"

	"passgram/internal/model"
)

func testSnapshot() *model.Snapshot {
	return &model.Snapshot{
		TotalTemplates:  100,
		UniqueTemplates: 5,
		TopTemplates: []model.TemplateEntry{
			{Template: "WORD6|DIGITS2", Count: 40},
			{Template: "FRAG|DIGITS4", Count: 10},
		},
		TopWords: []model.TokenEntry{
			{Token: "summer", Count: 25},
		},
		TopDigits: []model.TokenEntry{
			{Token: "123", Count: 12},
			{Token: "2020", Count: 6},
		},
		Filter: &model.Filter{MinLen: 6},
	}
}

func TestRenderSummaryLines(t *testing.T) {
	var b strings.Builder
	if err := Render(&b, testSnapshot(), 10, 60); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"Model Snapshot",
		"Passwords observed: 100",
		"Unique templates: 5",
		"Corpus min length: 6",
		"Top Templates",
		"WORD6|DIGITS2",
		"Top Words",
		"summer",
		"Top Digits",
		"123",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBarsScaleToMax(t *testing.T) {
	var b strings.Builder
	if err := Render(&b, testSnapshot(), 10, 60); err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines := strings.Split(b.String(), "\n")

	var topLine, lowLine string
	for _, line := range lines {
		if strings.Contains(line, "WORD6|DIGITS2") {
			topLine = line
		}
		if strings.Contains(line, "FRAG|DIGITS4") {
			lowLine = line
		}
	}
	if topLine == "" || lowLine == "" {
		t.Fatalf("template rows missing:\n%s", b.String())
	}
	topBar := strings.Count(topLine, "#")
	lowBar := strings.Count(lowLine, "#")
	if topBar <= lowBar {
		t.Fatalf("top bar %d should exceed low bar %d", topBar, lowBar)
	}
	if lowBar < 1 {
		t.Fatal("non-zero count should show at least one mark")
	}
}

func TestRenderTopBoundsRows(t *testing.T) {
	var b strings.Builder
	if err := Render(&b, testSnapshot(), 1, 60); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := b.String()

	if strings.Contains(out, "FRAG|DIGITS4") {
		t.Fatalf("second template should be cut at top=1:\n%s", out)
	}
	if strings.Contains(out, "2020") {
		t.Fatalf("second digit token should be cut at top=1:\n%s", out)
	}
}

func TestRenderEmptySnapshot(t *testing.T) {
	var b strings.Builder
	if err := Render(&b, &model.Snapshot{}, 10, 60); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(b.String(), "(none)") {
		t.Fatalf("empty sections should render a placeholder:\n%s", b.String())
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Template", "Count"}
	rows := [][]string{
		{"DIGITS4", "120"},
		{"WORD6|DIGITS2", "8"},
	}

	lines := formatTable(headers, rows, map[int]bool{1: true})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Template      Count" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "DIGITS4         120" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "WORD6|DIGITS2     8" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestBarEdgeCases(t *testing.T) {
	if got := bar(0, 10, 20); got != "" {
		t.Fatalf("zero count should have no bar, got %q", got)
	}
	if got := bar(10, 10, 20); len(got) != 20 {
		t.Fatalf("max count should fill the bar, got %d marks", len(got))
	}
	if got := bar(1, 1000, 20); len(got) != 1 {
		t.Fatalf("tiny count should keep one mark, got %d", len(got))
	}
}
