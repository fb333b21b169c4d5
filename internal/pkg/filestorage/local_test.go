package filestorage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_ReadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "template.xlsx"), []byte("xlsx"), 0o600))

	ls := NewLocalStorage(dir)

	info, err := ls.ReadFile("templates/template.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "template.xlsx", info.Filename)
	assert.Equal(t, int64(4), info.FileSize)
	assert.Equal(t, []byte("xlsx"), info.Content)

	assert.True(t, ls.Exists("templates/template.xlsx"))
	assert.False(t, ls.Exists("templates"))

	_, err = ls.ReadFile("missing.xlsx")
	assert.ErrorIs(t, err, ErrFileNotFound)
}
