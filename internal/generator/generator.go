// Package generator produces ranked password candidates from model snapshots.
package generator

import (
	"math"
	"math/rand"

	"go.uber.org/zap"

	"passgram/internal/model"
	"passgram/internal/slots"
	"passgram/internal/tokens"
)

// Symbol runs carry little signal; a small fixed set of common marks covers
// most corpora.
var commonSymbols = []string{"!", "@", "#", "$", "%", "&", "!!", "##"}

// Options bound the token pools and seed the sampler.
type Options struct {
	TopWords  int   // WORD pool cap; 0 keeps the whole snapshot list
	TopDigits int   // DIGITS pool cap
	TopFrags  int   // FRAG pool cap
	Seed      int64 // fixes the stochastic sampler sequence
	Logger    *zap.Logger
}

// Generator holds per-slot token pools drawn from a snapshot plus a FRAG
// table. Like the model it derives from, it is single-threaded; give each
// goroutine its own instance.
type Generator struct {
	templates []model.TemplateEntry
	pools     [slots.NTypes][]string
	counts    [slots.NTypes]map[string]int64
	longest   [slots.NTypes]int
	rnd       *rand.Rand
	logger    *zap.Logger
}

// New builds a generator. The FRAG table may be empty: FRAG slots then
// produce empty tokens and callers observe thinner output instead of an
// error.
func New(snap *model.Snapshot, frag tokens.Table, opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Generator{
		templates: snap.TopTemplates,
		rnd:       rand.New(rand.NewSource(opts.Seed)),
		logger:    logger,
	}
	for i := range g.counts {
		g.counts[i] = make(map[string]int64)
	}
	g.fill(slots.Word, tokenTable(snap.TopWords), opts.TopWords)
	g.fill(slots.Digits, tokenTable(snap.TopDigits), opts.TopDigits)
	g.fill(slots.Frag, frag, opts.TopFrags)
	g.pools[slots.Symbol] = commonSymbols
	return g
}

func tokenTable(entries []model.TokenEntry) tokens.Table {
	table := make(tokens.Table, len(entries))
	for i, e := range entries {
		table[i] = tokens.Entry{Token: e.Token, Count: e.Count}
	}
	return table
}

func (g *Generator) fill(typ slots.Type, table tokens.Table, top int) {
	if top > 0 && top < len(table) {
		table = table[:top]
	}
	pool := make([]string, 0, len(table))
	for _, e := range table {
		pool = append(pool, e.Token)
		g.counts[typ][e.Token] = e.Count
		if len(e.Token) > g.longest[typ] {
			g.longest[typ] = len(e.Token)
		}
	}
	g.pools[typ] = pool
}

// Templates returns the snapshot's templates in stored count order.
func (g *Generator) Templates() []model.TemplateEntry {
	return g.templates
}

// PoolSize reports how many tokens a slot type can draw from.
func (g *Generator) PoolSize(typ slots.Type) int {
	return len(g.pools[typ])
}

func (g *Generator) topChoices(typ slots.Type, k int) []string {
	pool := g.pools[typ]
	if k > 0 && k < len(pool) {
		return pool[:k]
	}
	return pool
}

func (g *Generator) countOr1(typ slots.Type, token string) int64 {
	if c, ok := g.counts[typ][token]; ok {
		return c
	}
	return 1
}

// bonus is the incremental generation score for one token: an unsmoothed
// log(count+1). Generation trades the model's smoothed formula for speed;
// the two scores are not comparable and must stay separate.
func (g *Generator) bonus(typ slots.Type, token string) float64 {
	return math.Log(float64(g.countOr1(typ, token)) + 1)
}
