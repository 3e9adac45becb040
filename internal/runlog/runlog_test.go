package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 3, 10, 14, 5, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		RunID:     "0b7c4f5e-2d1a-4c8e-9f3b-6a2e1d0c9b8a",
		Command:   "extract",
		Action:    "document_failed",
		Details:   "empresa_x.pdf: source unreadable",
		Count:     1,
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "extract", entries[0].Command)
	assert.Equal(t, 1, entries[0].Count)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Command = "reconcile"
	e2.Action = "export_written"
	e2.Count = 42
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "extract", entries[0].Command)
	assert.Equal(t, "reconcile", entries[1].Command)
	assert.Equal(t, 42, entries[1].Count)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "run-log.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))
}

func TestRead_RoundTripWithCommas(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	original.Details = `ACME, LTDA "matriz"`
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, original.RunID, got.RunID)
	assert.Equal(t, original.Details, got.Details)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "run-log.csv"), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.ErrorContains(t, err, "expected 6 fields")

	_, err = UnmarshalEntry([]string{"yesterday", "id", "extract", "a", "b", "1"})
	assert.ErrorContains(t, err, "parsing timestamp")

	_, err = UnmarshalEntry([]string{"2025-03-10T14:05:00Z", "id", "extract", "a", "b", "many"})
	assert.ErrorContains(t, err, "parsing count")
}

func TestTimestampFormat(t *testing.T) {
	row := MarshalEntry(testEntry())
	assert.Equal(t, "2025-03-10T14:05:00Z", row[0])
	assert.Equal(t, "0b7c4f5e-2d1a-4c8e-9f3b-6a2e1d0c9b8a", row[1])
	assert.Equal(t, "1", row[5])
}
