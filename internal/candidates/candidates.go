// Package candidates merges generated candidate files.
package candidates

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// ReadLines loads one candidate per line, skipping blanks.
func ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// WriteLines writes candidates one per line, atomically.
func WriteLines(path string, lines []string) error {
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

	writer := bufio.NewWriter(tmpFile)
	for _, line := range lines {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return fmt.Errorf("write candidate: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush candidates: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Combine unions candidate files into one deduplicated, lexicographically
// sorted output file. Scores never reach this stage, so input order carries
// no meaning. Missing inputs are skipped with a warning rather than failing
// the merge. Returns the number of distinct candidates written.
func Combine(logger *zap.Logger, inputs []string, output string) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	seen := make(map[string]struct{})
	for _, path := range inputs {
		lines, err := ReadLines(path)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Warn("candidate file missing, skipping", zap.String("path", path))
				continue
			}
			return 0, err
		}
		for _, line := range lines {
			seen[line] = struct{}{}
		}
		logger.Debug("candidate file merged",
			zap.String("path", path),
			zap.Int("lines", len(lines)))
	}

	merged := make([]string, 0, len(seen))
	for cand := range seen {
		merged = append(merged, cand)
	}
	sort.Strings(merged)

	if err := WriteLines(output, merged); err != nil {
		return 0, err
	}
	logger.Info("candidates combined",
		zap.Int("inputs", len(inputs)),
		zap.Int("distinct", len(merged)),
		zap.String("output", output))
	return len(merged), nil
}
