package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"passgram/internal/slots"
)

// TemplateEntry pairs a template with its count.
type TemplateEntry struct {
	Template string `json:"template"`
	Count    int64  `json:"count"`
}

// TokenEntry pairs a slot token with its count.
type TokenEntry struct {
	Token string `json:"token"`
	Count int64  `json:"count"`
}

// Filter records the corpus filter a snapshot was trained under.
type Filter struct {
	MinLen int `json:"min_len"`
}

// Snapshot is the condensed, read-only projection of a trained model that
// candidate generation runs on. Lists are ordered count-descending.
type Snapshot struct {
	TotalTemplates  int64           `json:"total_templates"`
	UniqueTemplates int             `json:"unique_templates"`
	TopTemplates    []TemplateEntry `json:"top_templates"`
	TopWords        []TokenEntry    `json:"top_words"`
	TopDigits       []TokenEntry    `json:"top_digits"`
	Filter          *Filter         `json:"filter,omitempty"`
}

// Snapshot condenses the model into its top-n lists. The filter is optional
// metadata recorded as-is.
func (m *Model) Snapshot(topTemplates, topWords, topDigits int, filter *Filter) *Snapshot {
	snap := &Snapshot{
		TotalTemplates:  m.total,
		UniqueTemplates: len(m.templates),
		TopTemplates:    make([]TemplateEntry, 0, topTemplates),
		TopWords:        make([]TokenEntry, 0, topWords),
		TopDigits:       make([]TokenEntry, 0, topDigits),
		Filter:          filter,
	}
	for _, e := range capEntries(sortedCounts(m.templates), topTemplates) {
		snap.TopTemplates = append(snap.TopTemplates, TemplateEntry{Template: e.key, Count: e.count})
	}
	for _, e := range capEntries(sortedCounts(m.slotCounts[slots.Word]), topWords) {
		snap.TopWords = append(snap.TopWords, TokenEntry{Token: e.key, Count: e.count})
	}
	for _, e := range capEntries(sortedCounts(m.slotCounts[slots.Digits]), topDigits) {
		snap.TopDigits = append(snap.TopDigits, TokenEntry{Token: e.key, Count: e.count})
	}
	return snap
}

func capEntries(entries []countedKey, n int) []countedKey {
	if n < 0 {
		n = 0
	}
	if n < len(entries) {
		return entries[:n]
	}
	return entries
}

// SaveSnapshot writes the snapshot as JSON, atomically.
func SaveSnapshot(path string, snap *Snapshot) error {
	return writeJSONFile(path, snap)
}

// LoadSnapshot reads a snapshot back. A missing file reports
// ErrStateNotFound; a file without the snapshot shape reports
// ErrMalformedState.
func LoadSnapshot(path string) (*Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("load snapshot %s: %w", path, ErrStateNotFound)
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only snapshot.
			_ = cerr
		}
	}()

	var raw struct {
		TotalTemplates  *int64           `json:"total_templates"`
		UniqueTemplates *int             `json:"unique_templates"`
		TopTemplates    *[]TemplateEntry `json:"top_templates"`
		TopWords        []TokenEntry     `json:"top_words"`
		TopDigits       []TokenEntry     `json:"top_digits"`
		Filter          *Filter          `json:"filter"`
	}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, ErrMalformedState)
	}
	if raw.TotalTemplates == nil || raw.UniqueTemplates == nil || raw.TopTemplates == nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, ErrMalformedState)
	}
	snap := &Snapshot{
		TotalTemplates:  *raw.TotalTemplates,
		UniqueTemplates: *raw.UniqueTemplates,
		TopTemplates:    *raw.TopTemplates,
		TopWords:        raw.TopWords,
		TopDigits:       raw.TopDigits,
		Filter:          raw.Filter,
	}
	return snap, nil
}

// writeJSONFile writes v as indented JSON through a temp file and rename.
func writeJSONFile(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	enc := json.NewEncoder(tmpFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
