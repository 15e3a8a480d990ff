package generator

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// BeamDriveOptions bound a beam run across many templates.
type BeamDriveOptions struct {
	Beam      BeamParams
	Templates int // templates attempted, best first; 0 means all
	MaxTotal  int // global cap on written candidates; 0 means unlimited
}

// SampleDriveOptions bound a stochastic run across many templates.
type SampleDriveOptions struct {
	Sample      SampleParams
	PerTemplate int // candidates kept per template; 0 means all drawn
	Templates   int // templates attempted, best first; 0 means all
}

// GenerateBeam runs beam search over the snapshot's templates in stored
// order and writes one candidate per line. It returns how many lines were
// written.
func (g *Generator) GenerateBeam(w io.Writer, opts BeamDriveOptions) (int, error) {
	written := 0
	for _, template := range g.admissible(opts.Beam.MinLength, opts.Templates) {
		seq := g.Beam(template, opts.Beam)
		emitted := 0
		for {
			cand, ok := seq.Next()
			if !ok {
				break
			}
			if _, err := fmt.Fprintln(w, cand.Text); err != nil {
				return written, fmt.Errorf("write candidate: %w", err)
			}
			written++
			emitted++
			if opts.MaxTotal > 0 && written >= opts.MaxTotal {
				g.logger.Info("beam generation capped",
					zap.Int("candidates", written),
					zap.String("template", template))
				return written, nil
			}
		}
		g.logger.Debug("beam template expanded",
			zap.String("template", template),
			zap.Int("candidates", emitted))
	}
	g.logger.Info("beam generation done", zap.Int("candidates", written))
	return written, nil
}

// GenerateSample draws stochastic candidates over the snapshot's templates
// in stored order and writes one candidate per line. It returns how many
// lines were written.
func (g *Generator) GenerateSample(w io.Writer, opts SampleDriveOptions) (int, error) {
	written := 0
	for _, template := range g.admissible(opts.Sample.MinLength, opts.Templates) {
		cands := g.Sample(template, opts.Sample)
		if opts.PerTemplate > 0 && len(cands) > opts.PerTemplate {
			cands = cands[:opts.PerTemplate]
		}
		for _, cand := range cands {
			if _, err := fmt.Fprintln(w, cand.Text); err != nil {
				return written, fmt.Errorf("write candidate: %w", err)
			}
			written++
		}
		g.logger.Debug("template sampled",
			zap.String("template", template),
			zap.Int("candidates", len(cands)))
	}
	g.logger.Info("stochastic generation done", zap.Int("candidates", written))
	return written, nil
}

// admissible filters templates whose estimated maximum length cannot reach
// minLength, then caps the survivors.
func (g *Generator) admissible(minLength, limit int) []string {
	kept := make([]string, 0, len(g.templates))
	for _, e := range g.templates {
		if _, maxLen := g.LengthRange(e.Template); maxLen < minLength {
			g.logger.Debug("template skipped",
				zap.String("template", e.Template),
				zap.Int("max_len", maxLen))
			continue
		}
		kept = append(kept, e.Template)
		if limit > 0 && len(kept) == limit {
			break
		}
	}
	return kept
}
