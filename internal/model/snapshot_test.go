package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func trainedModel(t *testing.T) *Model {
	t.Helper()
	vocab := fakeVocab{"summer": {}, "winter": {}}
	m := New(Options{Vocab: vocab})
	lines := []string{
		"summer2020",
		"summer2020",
		"summer99",
		"winter01",
		"abc123",
		"abc123",
		"xyz9",
	}
	_, err := m.Fit(scanLines(lines...), FitOptions{})
	require.NoError(t, err)
	return m
}

func TestSnapshotOrdersByCount(t *testing.T) {
	m := trainedModel(t)
	snap := m.Snapshot(10, 10, 10, nil)

	require.EqualValues(t, 7, snap.TotalTemplates)
	require.Equal(t, m.UniqueTemplates(), snap.UniqueTemplates)
	require.NotEmpty(t, snap.TopTemplates)
	for i := 1; i < len(snap.TopTemplates); i++ {
		require.GreaterOrEqual(t, snap.TopTemplates[i-1].Count, snap.TopTemplates[i].Count)
	}
	require.Equal(t, "summer", snap.TopWords[0].Token)
	require.EqualValues(t, 3, snap.TopWords[0].Count)
	// "123" and "2020" are tied at two observations; ties order by token.
	require.Equal(t, "123", snap.TopDigits[0].Token)
	require.EqualValues(t, 2, snap.TopDigits[0].Count)
}

func TestSnapshotTruncates(t *testing.T) {
	m := trainedModel(t)
	snap := m.Snapshot(2, 1, 1, nil)
	require.Len(t, snap.TopTemplates, 2)
	require.Len(t, snap.TopWords, 1)
	require.Len(t, snap.TopDigits, 1)
}

func TestSnapshotCarriesFilter(t *testing.T) {
	m := trainedModel(t)
	snap := m.Snapshot(5, 5, 5, &Filter{MinLen: 6})
	require.NotNil(t, snap.Filter)
	require.Equal(t, 6, snap.Filter.MinLen)
}

func TestSnapshotRoundTrip(t *testing.T) {
	m := trainedModel(t)
	snap := m.Snapshot(5, 5, 5, &Filter{MinLen: 6})
	path := filepath.Join(t.TempDir(), "snap.json")

	require.NoError(t, SaveSnapshot(path, snap))
	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	require.Equal(t, snap, loaded)
}

func TestSnapshotRoundTripEmptyModel(t *testing.T) {
	m := New(Options{})
	snap := m.Snapshot(5, 5, 5, nil)
	path := filepath.Join(t.TempDir(), "snap.json")

	require.NoError(t, SaveSnapshot(path, snap))
	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	require.Equal(t, snap, loaded)
}

func TestLoadSnapshotMissing(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "absent.json"))
	require.ErrorIs(t, err, ErrStateNotFound)
	require.False(t, errors.Is(err, ErrMalformedState))
}

func TestLoadSnapshotMalformed(t *testing.T) {
	dir := t.TempDir()

	junk := filepath.Join(dir, "junk.json")
	require.NoError(t, os.WriteFile(junk, []byte("not json at all"), 0o644))
	_, err := LoadSnapshot(junk)
	require.ErrorIs(t, err, ErrMalformedState)

	wrongShape := filepath.Join(dir, "shape.json")
	require.NoError(t, os.WriteFile(wrongShape, []byte(`{"hello": 1}`), 0o644))
	_, err = LoadSnapshot(wrongShape)
	require.ErrorIs(t, err, ErrMalformedState)
}
