// Package corpus streams password corpora line by line.
package corpus

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

// Options filter the stream.
type Options struct {
	MinLength  int   // drop lines shorter than this; 0 keeps everything
	MaxSamples int64 // stop after this many kept lines; 0 means unlimited
}

// Scanner yields non-empty corpus lines with best-effort byte recovery. It
// follows the bufio.Scanner Scan/Text/Err shape and is single-pass: corpora
// are tens of millions of lines and are never buffered whole.
type Scanner struct {
	scanner *bufio.Scanner
	opts    Options
	line    string
	kept    int64
}

const maxLineBytes = 1 << 20

// NewScanner wraps r. Lines longer than 1 MiB fail the scan.
func NewScanner(r io.Reader, opts Options) *Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &Scanner{scanner: s, opts: opts}
}

// Scan advances to the next usable line.
func (s *Scanner) Scan() bool {
	if s.opts.MaxSamples > 0 && s.kept >= s.opts.MaxSamples {
		return false
	}
	for s.scanner.Scan() {
		line := strings.TrimSpace(recoverString(s.scanner.Bytes()))
		if line == "" {
			continue
		}
		if s.opts.MinLength > 0 && len(line) < s.opts.MinLength {
			continue
		}
		s.line = line
		s.kept++
		return true
	}
	return false
}

// Text returns the current line.
func (s *Scanner) Text() string {
	return s.line
}

// Kept returns how many lines have been yielded so far.
func (s *Scanner) Kept() int64 {
	return s.kept
}

// Err returns the first error seen by the underlying reader.
func (s *Scanner) Err() error {
	return s.scanner.Err()
}

// recoverString converts raw bytes to a string, widening invalid UTF-8 bytes
// into their Latin-1 code points instead of dropping the line.
func recoverString(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for _, by := range b {
		sb.WriteRune(rune(by))
	}
	return sb.String()
}
