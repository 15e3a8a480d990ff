package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passgram/internal/corpus"
	"passgram/internal/slots"
)

type fakeVocab map[string]struct{}

func (v fakeVocab) Contains(word string) bool {
	_, ok := v[word]
	return ok
}

func scanLines(lines ...string) *corpus.Scanner {
	return corpus.NewScanner(strings.NewReader(strings.Join(lines, "\n")), corpus.Options{})
}

func templateSum(m *Model) int64 {
	var sum int64
	for _, count := range m.templates {
		sum += count
	}
	return sum
}

func TestFitCountsTemplates(t *testing.T) {
	m := New(Options{})
	processed, err := m.Fit(scanLines("abc123", "abc123", "xyz9"), FitOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 3, processed)
	require.EqualValues(t, 3, m.TotalTemplates())
	require.Equal(t, map[string]int64{"FRAG|DIGITS3": 2, "FRAG|DIGITS1": 1}, m.templates)
	require.EqualValues(t, 2, m.TemplateCount("FRAG|DIGITS3"))
	require.EqualValues(t, 1, m.TokenCount(slots.Digits, "9"))
	require.EqualValues(t, 2, m.TokenCount(slots.Frag, "abc"))
}

func TestTemplateSumMatchesTotal(t *testing.T) {
	m := New(Options{})
	lines := []string{"abc123", "qwe!!", "12345678", "hello99", "hello99", "x!y!z!", "summer2020"}
	_, err := m.Fit(scanLines(lines...), FitOptions{})
	require.NoError(t, err)
	require.Equal(t, m.TotalTemplates(), templateSum(m))

	m.Trim(1)
	require.Equal(t, m.TotalTemplates(), templateSum(m))

	_, err = m.Fit(scanLines("more1", "more2"), FitOptions{})
	require.NoError(t, err)
	require.Equal(t, m.TotalTemplates(), templateSum(m))
}

func TestFitAppliesTrimInterval(t *testing.T) {
	m := New(Options{})
	lines := []string{"11a", "22b", "33c", "44d", "55e", "66f"}
	_, err := m.Fit(scanLines(lines...), FitOptions{TrimEvery: 2, TrimTop: 2})
	require.NoError(t, err)
	assert.LessOrEqual(t, m.SlotSize(slots.Digits), 3)
	require.EqualValues(t, 6, m.TotalTemplates())
}

func TestProbabilityBounds(t *testing.T) {
	m := New(Options{})
	_, err := m.Fit(scanLines("abc123", "abc123", "xyz9"), FitOptions{})
	require.NoError(t, err)

	for _, template := range []string{"FRAG|DIGITS3", "FRAG|DIGITS1", "WORD6|SYMBOL", "neverseen"} {
		p := m.TemplateProb(template)
		assert.Greater(t, p, 0.0, "template %q", template)
		assert.LessOrEqual(t, p, 1.0, "template %q", template)
	}
	for _, token := range []string{"123", "9", "00000"} {
		p := m.TokenProb(slots.Digits, token)
		assert.Greater(t, p, 0.0, "token %q", token)
		assert.LessOrEqual(t, p, 1.0, "token %q", token)
	}
	assert.Greater(t, m.TokenProb(slots.Symbol, "!!"), 0.0)
}

func TestProbabilitiesOnEmptyModel(t *testing.T) {
	m := New(Options{})
	assert.Greater(t, m.TemplateProb("anything"), 0.0)
	assert.LessOrEqual(t, m.TemplateProb("anything"), 1.0)
	assert.Greater(t, m.TokenProb(slots.Word, "love"), 0.0)
}

func TestSeenTemplateOutweighsUnseen(t *testing.T) {
	m := New(Options{})
	_, err := m.Fit(scanLines("abc123", "abc123", "xyz9"), FitOptions{})
	require.NoError(t, err)
	assert.Greater(t, m.TemplateProb("FRAG|DIGITS3"), m.TemplateProb("SYMBOL|WORD4"))
	assert.Greater(t, m.TokenProb(slots.Frag, "abc"), m.TokenProb(slots.Frag, "zzz"))
}

func TestScorePrefersFrequentStructure(t *testing.T) {
	m := New(Options{})
	_, err := m.Fit(scanLines("abc123", "abc123", "abc123", "xyz9"), FitOptions{})
	require.NoError(t, err)
	assert.Greater(t, m.Score("abc123"), m.Score("hello!"))
	assert.Greater(t, m.Score("abc123"), m.Score("xyz9"))
}

func TestScoreUsesVocabulary(t *testing.T) {
	vocab := fakeVocab{"summer": {}}
	m := New(Options{Vocab: vocab})
	_, err := m.Fit(scanLines("summer1", "summer1"), FitOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 2, m.TemplateCount("WORD6|DIGITS1"))
	require.EqualValues(t, 2, m.TokenCount(slots.Word, "summer"))
	require.EqualValues(t, 0, m.TokenCount(slots.Frag, "summer"))
}

func TestObserveEmptyPasswordIgnored(t *testing.T) {
	m := New(Options{})
	m.Observe("")
	require.EqualValues(t, 0, m.TotalTemplates())
	require.Equal(t, 0, m.UniqueTemplates())
}

func TestTrimKeepsTopTokens(t *testing.T) {
	m := New(Options{})
	lines := []string{"111", "111", "111", "222", "222", "333"}
	_, err := m.Fit(scanLines(lines...), FitOptions{})
	require.NoError(t, err)
	require.Equal(t, 3, m.SlotSize(slots.Digits))

	m.Trim(2)
	require.Equal(t, 2, m.SlotSize(slots.Digits))
	require.EqualValues(t, 3, m.TokenCount(slots.Digits, "111"))
	require.EqualValues(t, 2, m.TokenCount(slots.Digits, "222"))
	require.EqualValues(t, 0, m.TokenCount(slots.Digits, "333"))
	require.EqualValues(t, 6, m.TotalTemplates())
}

func TestTrimZeroIsNoop(t *testing.T) {
	m := New(Options{})
	m.Observe("12ab")
	m.Trim(0)
	require.Equal(t, 1, m.SlotSize(slots.Digits))
}

func TestTopCounts(t *testing.T) {
	counter := map[string]int64{"a": 5, "b": 3, "c": 1}
	require.Equal(t, map[string]int64{"a": 5, "b": 3}, TopCounts(counter, 2))
	require.Equal(t, counter, TopCounts(counter, 10))
	require.Empty(t, TopCounts(counter, 0))
	// Input must stay intact.
	require.Len(t, counter, 3)
}

func TestTopCountsTieBreak(t *testing.T) {
	counter := map[string]int64{"zz": 2, "aa": 2, "mm": 2}
	require.Equal(t, map[string]int64{"aa": 2, "mm": 2}, TopCounts(counter, 2))
}
