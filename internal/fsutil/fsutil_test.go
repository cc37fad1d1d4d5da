package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.md", "a.md", "sub/c.md", "notes.txt", ".git/ignored.md"} {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	files, err := FindFilesByExtension(root, ".md")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.md"),
		filepath.Join(root, "b.md"),
		filepath.Join(root, "sub", "c.md"),
	}, files)
}

func TestFindFilesByExtension_PanicsOnEmptyExtension(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir(), "") })
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title"), 0o644))

	text, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Title", text)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.md"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.md")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, stamp, stamp))

	got, err := ModTime(path)
	require.NoError(t, err)
	assert.True(t, stamp.Equal(got))

	_, err = ModTime(filepath.Join(t.TempDir(), "missing.md"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWriteFile_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "f.html")
	require.NoError(t, WriteFile(path, []byte("<p>x</p>")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", string(data))
}

func TestReplaceExt(t *testing.T) {
	assert.Equal(t, filepath.Join("docs", "a.html"), ReplaceExt(filepath.Join("docs", "a.md"), ".html"))
	assert.Equal(t, "README.html", ReplaceExt("README", ".html"))
}
