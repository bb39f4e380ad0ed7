package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	doc := filepath.Join(t.TempDir(), "notes.json")

	assert.Nil(t, Load(doc), "nothing saved yet")

	require.NoError(t, Save(doc, 42, 2))

	pos := Load(doc)
	require.NotNil(t, pos)
	assert.Equal(t, 42, pos.Offset)
	assert.Equal(t, 2, pos.Tab)
	assert.Equal(t, doc, pos.Document)
	assert.False(t, pos.UpdatedAt.IsZero())

	require.NoError(t, Save(doc, 7, 0))
	assert.Equal(t, 7, Load(doc).Offset)
}

func TestDocumentsWithSameNameDoNotCollide(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	a := filepath.Join(t.TempDir(), "doc.json")
	b := filepath.Join(t.TempDir(), "doc.json")

	require.NoError(t, Save(a, 10, 0))
	require.NoError(t, Save(b, 20, 1))

	assert.Equal(t, 10, Load(a).Offset)
	assert.Equal(t, 20, Load(b).Offset)
}

func TestNegativeValuesClamped(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	doc := filepath.Join(t.TempDir(), "doc.json")

	require.NoError(t, Save(doc, -5, -1))
	pos := Load(doc)
	require.NotNil(t, pos)
	assert.Equal(t, 0, pos.Offset)
	assert.Equal(t, 0, pos.Tab)
}

func TestCorruptFileIgnored(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	doc := filepath.Join(t.TempDir(), "doc.json")

	path := positionPath(doc)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	assert.Nil(t, Load(doc))
}

func TestSaveFailureRemovesTempFile(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	doc := filepath.Join(t.TempDir(), "notes.json")

	// A non-empty directory where the position file belongs makes the
	// final rename fail.
	path := positionPath(doc)
	require.NoError(t, os.MkdirAll(filepath.Join(path, "blocker"), 0700))

	err := Save(doc, 5, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving position")

	_, statErr := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(statErr), "temp file left behind")
}
