// Package tokens builds and persists FRAG token frequency tables.
//
// FRAG tokens are too numerous for the frequency model to keep unbounded, so
// the table is produced by its own corpus pass and loaded alongside a
// snapshot at generation time.
package tokens

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"passgram/internal/corpus"
	"passgram/internal/slots"
)

// ErrBadTable reports a token table file with the wrong shape.
var ErrBadTable = errors.New("tokens: malformed token table")

// Column header of the persisted table.
const header = "token\tcount"

// Entry pairs a FRAG token with its occurrence count.
type Entry struct {
	Token string
	Count int64
}

// Table is an ordered token frequency table, count-descending.
type Table []Entry

// ExtractOptions control the corpus pass.
type ExtractOptions struct {
	Leet           bool
	Vocab          slots.Vocabulary // tokens the vocabulary knows become WORD and are excluded
	MinTokenLength int              // tokens shorter than this are dropped; 0 keeps all
	Top            int              // keep this many entries; 0 keeps all
}

// Extract runs one corpus pass and collects FRAG token frequencies.
func Extract(scan *corpus.Scanner, opts ExtractOptions) (Table, error) {
	counter := make(map[string]int64)
	clsOpts := slots.Options{Leet: opts.Leet, Vocab: opts.Vocab}
	for scan.Scan() {
		for _, c := range slots.ClassifyPassword(scan.Text(), clsOpts) {
			if c.Type != slots.Frag {
				continue
			}
			if opts.MinTokenLength > 0 && len(c.Token) < opts.MinTokenLength {
				continue
			}
			counter[c.Token]++
		}
	}
	if err := scan.Err(); err != nil {
		return nil, err
	}
	return FromCounts(counter, opts.Top), nil
}

// FromCounts orders a counter into a table, count-descending with ties by
// token, capped at top entries when top > 0.
func FromCounts(counter map[string]int64, top int) Table {
	table := make(Table, 0, len(counter))
	for token, count := range counter {
		table = append(table, Entry{Token: token, Count: count})
	}
	sort.Slice(table, func(i, j int) bool {
		if table[i].Count != table[j].Count {
			return table[i].Count > table[j].Count
		}
		return table[i].Token < table[j].Token
	})
	if top > 0 && top < len(table) {
		table = table[:top]
	}
	return table
}

// WriteFile persists the table as tab-separated rows under a header,
// atomically.
func (t Table) WriteFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create table dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp table: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if _, err := fmt.Fprintln(writer, header); err != nil {
		return fmt.Errorf("write table header: %w", err)
	}
	for _, e := range t {
		if _, err := fmt.Fprintf(writer, "%s\t%d\n", e.Token, e.Count); err != nil {
			return fmt.Errorf("write table row: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close table: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// ReadFile loads a persisted table in file order.
func ReadFile(path string) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s is empty", ErrBadTable, path)
	}
	if scanner.Text() != header {
		return nil, fmt.Errorf("%w: %s has no %q header", ErrBadTable, path, header)
	}

	var table Table
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		token, countText, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("%w: row %q", ErrBadTable, line)
		}
		count, err := strconv.ParseInt(countText, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %q", ErrBadTable, line)
		}
		table = append(table, Entry{Token: token, Count: count})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}
