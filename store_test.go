package rfpdesk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "rfp_documents.json"))
}

func TestFileStore_LoadAll_MissingFile(t *testing.T) {
	store := tempStore(t)
	recs, err := store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestFileStore_AppendAssignsIDs(t *testing.T) {
	store := tempStore(t)

	first, err := store.Append(Record{Title: "First", Company: "A"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)

	second, err := store.Append(Record{Title: "Second", Company: "B"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)

	recs, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "First", recs[0].Title)
	assert.Equal(t, "Second", recs[1].Title)
}

func TestFileStore_NextIDSkipsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": 7, "title": "T", "company": "C"}]`), 0o644))
	store := NewFileStore(path)

	rec, err := store.Append(Record{Title: "Next", Company: "D"})
	require.NoError(t, err)
	assert.Equal(t, 8, rec.ID, "next id is max+1, never a reused gap")
}

func TestFileStore_RoundTripOptionalFields(t *testing.T) {
	store := tempStore(t)
	deadline := "2026-11-30"
	_, err := store.Append(Record{Title: "T", Company: "C", Deadline: &deadline})
	require.NoError(t, err)

	recs, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].Deadline)
	assert.Equal(t, deadline, *recs[0].Deadline)
	assert.Nil(t, recs[0].Budget)
}

func TestFileStore_CorruptFileLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0o644))
	store := NewFileStore(path)

	recs, err := store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, recs, "a bad file must not block startup")
}

func TestFileStore_Clear(t *testing.T) {
	store := tempStore(t)
	_, err := store.Append(Record{Title: "T", Company: "C"})
	require.NoError(t, err)
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "clearing an empty store is not an error")

	recs, err := store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestNextID(t *testing.T) {
	assert.Equal(t, 1, nextID(nil))
	assert.Equal(t, 4, nextID([]Record{{ID: 3}, {ID: 1}}))
}
