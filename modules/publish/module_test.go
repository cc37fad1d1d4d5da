package publish

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/contingent/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, content string) (*engine.Controller, *Module, string, string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.md")
	dst := filepath.Join(dir, "out", "notes.html")
	require.NoError(t, os.WriteFile(src, []byte(content), 0o644))

	c := engine.New()
	m := &Module{}
	require.NoError(t, c.Use(m))
	return c, m, src, dst
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWrite_PublishesPage(t *testing.T) {
	c, m, src, dst := setup(t, "# Notes\n\nHello *world*.")
	ctx := context.Background()

	out, err := m.Write.Call(ctx, src, dst)
	require.NoError(t, err)
	assert.Equal(t, dst, out)

	html := readOutput(t, dst)
	assert.Contains(t, html, "<title>Notes</title>")
	assert.Contains(t, html, "<em>world</em>")

	// read feeds title and body, both feed page, page feeds write.
	assert.Len(t, c.Graph().Edges(ctx), 5)
}

func TestWrite_RebuildAfterSourceChange(t *testing.T) {
	c, m, src, dst := setup(t, "# First")
	ctx := context.Background()

	_, err := m.Write.Call(ctx, src, dst)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(src, []byte("# Second"), 0o644))

	// Without invalidation the cached page is still served.
	_, err = m.Write.Call(ctx, src, dst)
	require.NoError(t, err)
	assert.Contains(t, readOutput(t, dst), "<title>First</title>")

	found, err := c.Invalidate(ctx, m.Read.Handle(src))
	require.NoError(t, err)
	require.True(t, found)
	require.NoError(t, c.Rebuild(ctx))

	assert.Contains(t, readOutput(t, dst), "<title>Second</title>")

	n, ok := c.Node(ctx, m.Write.Handle(src, dst))
	require.True(t, ok)
	assert.Equal(t, int64(2), n.Executions())
}

func TestTitle_FallsBackToPath(t *testing.T) {
	_, m, src, _ := setup(t, "no heading here")

	title, err := m.Title.Call(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, src, title)
}

func TestPage_EscapesTitle(t *testing.T) {
	_, m, src, _ := setup(t, "# a < b")

	page, err := m.Page.Call(context.Background(), src)
	require.NoError(t, err)
	assert.Contains(t, page, "<title>a &lt; b</title>")
}

func TestRead_MissingFile(t *testing.T) {
	c := engine.New()
	m := &Module{}
	require.NoError(t, c.Use(m))

	_, err := m.Write.Call(context.Background(), filepath.Join(t.TempDir(), "gone.md"), "out.html")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
