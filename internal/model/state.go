package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"passgram/internal/slots"
)

var (
	// ErrStateNotFound reports a missing model state or snapshot file.
	ErrStateNotFound = errors.New("model: state file not found")
	// ErrMalformedState reports a state or snapshot file with the wrong shape.
	ErrMalformedState = errors.New("model: state file is malformed")
)

// stateFormat marks files this package wrote. Files without it are rejected
// rather than decoded into an accidentally empty model.
const stateFormat = "passgram-state-v1"

type stateFile struct {
	Format         string                      `json:"format"`
	TemplateCounts map[string]int64            `json:"template_counts"`
	SlotCounts     map[string]map[string]int64 `json:"slot_counts"`
	TotalTemplates int64                       `json:"total_templates"`
	Alpha          float64                     `json:"alpha"`
	DoLeet         bool                        `json:"do_leet"`
}

// SaveState persists the full counters so training can resume exactly.
func (m *Model) SaveState(path string) error {
	st := stateFile{
		Format:         stateFormat,
		TemplateCounts: m.templates,
		SlotCounts:     make(map[string]map[string]int64, slots.NTypes),
		TotalTemplates: m.total,
		Alpha:          m.alpha,
		DoLeet:         m.leet,
	}
	for i := range m.slotCounts {
		st.SlotCounts[slots.Type(i).String()] = m.slotCounts[i]
	}
	return writeJSONFile(path, st)
}

// LoadState restores a model from a state file. The vocabulary and logger
// are supplied fresh: they are process resources, not persisted state.
func LoadState(path string, vocab slots.Vocabulary, logger *zap.Logger) (*Model, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("load state %s: %w", path, ErrStateNotFound)
		}
		return nil, fmt.Errorf("load state: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only state.
			_ = cerr
		}
	}()

	var st stateFile
	if err := json.NewDecoder(file).Decode(&st); err != nil {
		return nil, fmt.Errorf("load state %s: %w", path, ErrMalformedState)
	}
	if st.Format != stateFormat || st.TemplateCounts == nil || st.SlotCounts == nil {
		return nil, fmt.Errorf("load state %s: %w", path, ErrMalformedState)
	}
	var sum int64
	for _, count := range st.TemplateCounts {
		sum += count
	}
	if sum != st.TotalTemplates {
		return nil, fmt.Errorf("load state %s: template counts disagree with total: %w", path, ErrMalformedState)
	}

	m := New(Options{Alpha: st.Alpha, Leet: st.DoLeet, Vocab: vocab, Logger: logger})
	m.templates = st.TemplateCounts
	m.total = st.TotalTemplates
	for name, counter := range st.SlotCounts {
		typ, ok := slots.TypeFromString(name)
		if !ok {
			return nil, fmt.Errorf("load state %s: unknown slot type %q: %w", path, name, ErrMalformedState)
		}
		for token, count := range counter {
			m.slotCounts[typ][token] = count
			m.slotTotals[typ] += count
		}
	}
	return m, nil
}
