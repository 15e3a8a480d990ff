package generator

import "passgram/internal/slots"

// SampleParams bound one stochastic run.
type SampleParams struct {
	Samples   int // draws attempted for the template
	MinLength int // drawn candidates shorter than this are dropped
}

// weightedPool is a slot's draw distribution: observed counts (minimum 1)
// normalized to sum 1.
type weightedPool struct {
	tokens  []string
	weights []float64
}

func (g *Generator) weighted(typ slots.Type) *weightedPool {
	pool := g.pools[typ]
	wp := &weightedPool{
		tokens:  pool,
		weights: make([]float64, len(pool)),
	}
	total := 0.0
	for i, tok := range pool {
		w := float64(g.countOr1(typ, tok))
		wp.weights[i] = w
		total += w
	}
	for i := range wp.weights {
		wp.weights[i] /= total
	}
	return wp
}

func (g *Generator) draw(wp *weightedPool) string {
	if len(wp.tokens) == 0 {
		return ""
	}
	r := g.rnd.Float64()
	acc := 0.0
	for i, w := range wp.weights {
		acc += w
		if r <= acc {
			return wp.tokens[i]
		}
	}
	// Float rounding can leave r above the accumulated sum.
	return wp.tokens[len(wp.tokens)-1]
}

// Sample draws candidates for one template. WORD, DIGITS and FRAG slots draw
// from count-weighted pools; SYMBOL slots draw uniformly. A slot type with an
// empty pool contributes an empty token for the whole run. Duplicates keep
// their best score, and results come back sorted best first.
func (g *Generator) Sample(template string, p SampleParams) []Candidate {
	decoded := slots.ParseTemplate(template)

	var pools [slots.NTypes]*weightedPool
	for _, slot := range decoded {
		if slot.Type != slots.Symbol && pools[slot.Type] == nil {
			pools[slot.Type] = g.weighted(slot.Type)
		}
	}

	seen := make(map[string]int, p.Samples)
	out := make([]Candidate, 0, p.Samples)
	for i := 0; i < p.Samples; i++ {
		text := ""
		score := 0.0
		for _, slot := range decoded {
			var tok string
			if slot.Type == slots.Symbol {
				tok = commonSymbols[g.rnd.Intn(len(commonSymbols))]
			} else {
				tok = g.draw(pools[slot.Type])
			}
			text += tok
			score += g.bonus(slot.Type, tok)
		}
		if len(text) < p.MinLength {
			continue
		}
		if idx, ok := seen[text]; ok {
			if score > out[idx].Score {
				out[idx].Score = score
			}
			continue
		}
		seen[text] = len(out)
		out = append(out, Candidate{Text: text, Score: score})
	}

	sortByScore(out)
	return out
}
