// Package model maintains smoothed frequency statistics over password structure.
package model

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"passgram/internal/corpus"
	"passgram/internal/slots"
)

// Options configure a new model.
type Options struct {
	Alpha  float64          // Laplace smoothing constant; values <= 0 fall back to 1
	Leet   bool             // normalize leet substitutions before vocabulary lookup
	Vocab  slots.Vocabulary // nil trains without WORD classification
	Logger *zap.Logger      // nil gets a no-op logger
}

// Model accumulates template and slot-token counts from streamed corpora and
// turns them into Laplace-smoothed probabilities. NOT safe for concurrent
// use: hosts wanting parallel training give each goroutine its own Model.
type Model struct {
	templates  map[string]int64
	slotCounts [slots.NTypes]map[string]int64
	slotTotals [slots.NTypes]int64
	total      int64
	alpha      float64
	leet       bool
	vocab      slots.Vocabulary
	logger     *zap.Logger
}

// New returns an empty model.
func New(opts Options) *Model {
	alpha := opts.Alpha
	if alpha <= 0 {
		alpha = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		templates: make(map[string]int64),
		alpha:     alpha,
		leet:      opts.Leet,
		vocab:     opts.Vocab,
		logger:    logger,
	}
	for i := range m.slotCounts {
		m.slotCounts[i] = make(map[string]int64)
	}
	return m
}

func (m *Model) classifyOptions() slots.Options {
	return slots.Options{Leet: m.leet, Vocab: m.vocab}
}

// Observe folds one password into the counters.
func (m *Model) Observe(password string) {
	classes := slots.ClassifyPassword(password, m.classifyOptions())
	if len(classes) == 0 {
		return
	}
	m.templates[slots.Template(classes)]++
	m.total++
	for _, c := range classes {
		m.slotCounts[c.Type][c.Token]++
		m.slotTotals[c.Type]++
	}
}

// FitOptions bound a training pass.
type FitOptions struct {
	TrimEvery int64 // observations between trims; 0 disables trimming
	TrimTop   int   // per-slot table cap applied at each trim
	LogEvery  int64 // progress log interval in lines; 0 disables
}

// Fit consumes the scanner to exhaustion, observing every line. Returns the
// number of lines processed. The scanner's own filters decide which lines
// reach the model.
func (m *Model) Fit(scan *corpus.Scanner, opts FitOptions) (int64, error) {
	var processed int64
	for scan.Scan() {
		m.Observe(scan.Text())
		processed++
		if opts.LogEvery > 0 && processed%opts.LogEvery == 0 {
			m.logger.Info("fit progress",
				zap.Int64("lines", processed),
				zap.Int("unique_templates", len(m.templates)))
		}
		if opts.TrimEvery > 0 && opts.TrimTop > 0 && processed%opts.TrimEvery == 0 {
			m.Trim(opts.TrimTop)
		}
	}
	return processed, scan.Err()
}

// TemplateProb returns the Laplace-smoothed template probability. The extra
// +1 in the denominator reserves smoothing mass for templates never seen, so
// the result is strictly positive.
func (m *Model) TemplateProb(template string) float64 {
	v := float64(len(m.templates))
	return (float64(m.templates[template]) + m.alpha) / (float64(m.total) + m.alpha*(v+1))
}

// TokenProb returns the smoothed token probability within one slot type,
// using that slot's own total and vocabulary size.
func (m *Model) TokenProb(typ slots.Type, token string) float64 {
	counter := m.slotCounts[typ]
	v := float64(len(counter))
	return (float64(counter[token]) + m.alpha) / (float64(m.slotTotals[typ]) + m.alpha*(v+1))
}

// Score returns the log probability of a password under the model: template
// probability times each constituent token probability, factored
// independently. Higher is more probable.
func (m *Model) Score(password string) float64 {
	classes := slots.ClassifyPassword(password, m.classifyOptions())
	score := math.Log(m.TemplateProb(slots.Template(classes)))
	for _, c := range classes {
		score += math.Log(m.TokenProb(c.Type, c.Token))
	}
	return score
}

// TotalTemplates returns the number of passwords folded into the model.
func (m *Model) TotalTemplates() int64 {
	return m.total
}

// UniqueTemplates returns the number of distinct templates seen.
func (m *Model) UniqueTemplates() int {
	return len(m.templates)
}

// TemplateCount returns the raw count for one template.
func (m *Model) TemplateCount(template string) int64 {
	return m.templates[template]
}

// TokenCount returns the raw count for one slot token.
func (m *Model) TokenCount(typ slots.Type, token string) int64 {
	return m.slotCounts[typ][token]
}

// SlotSize returns the number of distinct tokens tracked for a slot type.
func (m *Model) SlotSize(typ slots.Type) int {
	return len(m.slotCounts[typ])
}

// Trim caps every slot-token table at its top-n entries. Trimming loses rare
// tokens, never observations: total_templates is untouched.
func (m *Model) Trim(n int) {
	if n <= 0 {
		return
	}
	for typ := range m.slotCounts {
		if len(m.slotCounts[typ]) <= n {
			continue
		}
		kept := TopCounts(m.slotCounts[typ], n)
		var total int64
		for _, count := range kept {
			total += count
		}
		m.slotCounts[typ] = kept
		m.slotTotals[typ] = total
	}
}

type countedKey struct {
	key   string
	count int64
}

// sortedCounts orders a counter by count descending, key ascending on ties.
func sortedCounts(counter map[string]int64) []countedKey {
	entries := make([]countedKey, 0, len(counter))
	for key, count := range counter {
		entries = append(entries, countedKey{key: key, count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	return entries
}

// TopCounts returns a copy of counter capped at its top-n entries by count,
// ties broken by key order. The input map is never mutated.
func TopCounts(counter map[string]int64, n int) map[string]int64 {
	if n < 0 {
		n = 0
	}
	entries := sortedCounts(counter)
	if n < len(entries) {
		entries = entries[:n]
	}
	kept := make(map[string]int64, len(entries))
	for _, e := range entries {
		kept[e.key] = e.count
	}
	return kept
}
