package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "passgram.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestRecordRunAssignsID(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	now := time.Now().UTC()
	id, err := s.RecordRun(ctx, Run{
		Stage:      "train",
		Input:      "corpus.txt",
		Output:     "snapshot.json",
		Lines:      1000,
		Produced:   42,
		StartedAt:  now.Add(-time.Second),
		FinishedAt: now,
	})
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated run id")
	}

	runs, err := s.ListRuns(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].ID != id || runs[0].Stage != "train" || runs[0].Produced != 42 {
		t.Fatalf("unexpected run: %+v", runs[0])
	}
	if !runs[0].FinishedAt.Equal(now) {
		t.Fatalf("finished_at mismatch: got %v, want %v", runs[0].FinishedAt, now)
	}
}

func TestListRunsOrderFilterLimit(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	stages := []string{"train", "generate", "generate", "combine"}
	for i, stage := range stages {
		_, err := s.RecordRun(ctx, Run{
			Stage:      stage,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + 30*time.Second),
		})
		if err != nil {
			t.Fatalf("RecordRun %d: %v", i, err)
		}
	}

	runs, err := s.ListRuns(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 4 {
		t.Fatalf("expected 4 runs, got %d", len(runs))
	}
	if runs[0].Stage != "combine" {
		t.Fatalf("expected most recent run first, got %+v", runs[0])
	}

	gen, err := s.ListRuns(ctx, "generate", 0)
	if err != nil {
		t.Fatalf("ListRuns generate: %v", err)
	}
	if len(gen) != 2 {
		t.Fatalf("expected 2 generate runs, got %d", len(gen))
	}

	limited, err := s.ListRuns(ctx, "", 2)
	if err != nil {
		t.Fatalf("ListRuns limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 runs with limit, got %d", len(limited))
	}
	if limited[0].Stage != "combine" || limited[1].Stage != "generate" {
		t.Fatalf("unexpected limited order: %+v", limited)
	}
}

func TestOpenCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c", "runs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Reopen against the migrated file.
	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close after reopen: %v", err)
	}
}
