package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.parquet")
	want := []Entry{
		{Ordinal: 1, Line: 3, WhiteRating: 2100, BlackRating: 2200, Qualifying: true, Moves: 3, Encoded: 2, Status: Encoded},
		{Ordinal: 2, Line: 6, WhiteRating: 1500, BlackRating: 2500, Status: Rejected},
		{Ordinal: 3, Line: 9, WhiteRating: -1, BlackRating: 2500, Status: Rejected},
		{Ordinal: 4, Line: 12, WhiteRating: 2300, BlackRating: 2300, Qualifying: true, Moves: 5, Status: Skipped, Reason: "ply 3 \"Ke9\": decode"},
	}

	entries := make(chan Entry, len(want))
	for _, e := range want {
		entries <- e
	}
	close(entries)
	require.NoError(t, Write(path, entries, 1))

	got, err := Read(path, 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.parquet")
	entries := make(chan Entry)
	close(entries)
	require.NoError(t, Write(path, entries, 1))

	got, err := Read(path, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriteBadPath(t *testing.T) {
	entries := make(chan Entry)
	close(entries)
	assert.Error(t, Write(filepath.Join(t.TempDir(), "missing", "manifest.parquet"), entries, 1))
}
