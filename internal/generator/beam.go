package generator

import (
	"sort"

	"passgram/internal/slots"
)

// BeamParams bound one deterministic expansion.
type BeamParams struct {
	TopKPerSlot int // choices considered per slot; 0 means the whole pool
	BeamSize    int // partials kept between slots; 0 means unbounded
	MinLength   int // completed candidates shorter than this are dropped
	MaxLength   int // partials longer than this are discarded mid-search
	MaxOutput   int // cap on yielded candidates; 0 means all
}

// Candidate is a generated string with its generation score.
type Candidate struct {
	Text  string
	Score float64
}

// Sequence yields candidates in descending score order. It is finite and
// non-restartable: Next only walks forward.
type Sequence struct {
	items []Candidate
	pos   int
}

// Next returns the following candidate, if any.
func (s *Sequence) Next() (Candidate, bool) {
	if s.pos >= len(s.items) {
		return Candidate{}, false
	}
	c := s.items[s.pos]
	s.pos++
	return c, true
}

// Remaining reports how many candidates Next can still yield.
func (s *Sequence) Remaining() int {
	return len(s.items) - s.pos
}

// Beam expands one template slot by slot, keeping the highest-scoring
// partials between slots. If a slot has no tokens the beam empties and the
// search stops with nothing; completed candidates are filtered by MinLength
// and yielded best first.
func (g *Generator) Beam(template string, p BeamParams) *Sequence {
	beam := []Candidate{{Text: "", Score: 0}}
	for _, slot := range slots.ParseTemplate(template) {
		choices := g.topChoices(slot.Type, p.TopKPerSlot)
		next := make([]Candidate, 0, len(beam)*len(choices))
		for _, cand := range beam {
			for _, tok := range choices {
				text := cand.Text + tok
				if p.MaxLength > 0 && len(text) > p.MaxLength {
					continue
				}
				next = append(next, Candidate{Text: text, Score: cand.Score + g.bonus(slot.Type, tok)})
			}
		}
		sortByScore(next)
		if p.BeamSize > 0 && len(next) > p.BeamSize {
			next = next[:p.BeamSize]
		}
		beam = next
		if len(beam) == 0 {
			break
		}
	}

	out := make([]Candidate, 0, len(beam))
	for _, cand := range beam {
		if len(cand.Text) >= p.MinLength {
			out = append(out, cand)
		}
	}
	sortByScore(out)
	if p.MaxOutput > 0 && len(out) > p.MaxOutput {
		out = out[:p.MaxOutput]
	}
	return &Sequence{items: out}
}

// sortByScore orders candidates best first. Stability keeps insertion order
// among equal scores, so repeated runs yield identical sequences.
func sortByScore(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Score > cands[j].Score
	})
}
