package app

import (
	"path/filepath"
	"testing"

	"github.com/specialistvlad/contingent/internal/config"
	"github.com/specialistvlad/contingent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveJobs(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"notes/a.md":         "# A",
		"notes/sub/b.md":     "# B",
		"notes/.hidden/c.md": "# C",
		"notes/skip.txt":     "not markdown",
		"single.md":          "# Single",
	})
	notes := filepath.Join(dir, "notes")
	single := filepath.Join(dir, "single.md")

	t.Run("next to sources without an output dir", func(t *testing.T) {
		jobs, err := resolveJobs(nil, []string{notes, single}, "")
		require.NoError(t, err)
		assert.Equal(t, []Job{
			{Name: "a.md", Source: filepath.Join(notes, "a.md"), Output: filepath.Join(notes, "a.html")},
			{Name: filepath.Join("sub", "b.md"), Source: filepath.Join(notes, "sub", "b.md"), Output: filepath.Join(notes, "sub", "b.html")},
			{Name: "single.md", Source: single, Output: filepath.Join(dir, "single.html")},
		}, jobs)
	})

	t.Run("mirrored into the output dir", func(t *testing.T) {
		out := filepath.Join(dir, "site")
		jobs, err := resolveJobs(nil, []string{notes}, out)
		require.NoError(t, err)
		require.Len(t, jobs, 2)
		assert.Equal(t, filepath.Join(out, "sub", "b.html"), jobs[1].Output)
	})

	t.Run("documents keep explicit outputs", func(t *testing.T) {
		docs := []*config.Document{
			{Name: "home", Source: single, Output: filepath.Join(dir, "index.html")},
			{Name: "derived", Source: filepath.Join(notes, "a.md")},
		}
		jobs, err := resolveJobs(docs, nil, filepath.Join(dir, "site"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "index.html"), jobs[0].Output)
		assert.Equal(t, filepath.Join(dir, "site", "a.html"), jobs[1].Output)
	})

	t.Run("colliding outputs", func(t *testing.T) {
		docs := []*config.Document{
			{Name: "one", Source: single, Output: filepath.Join(dir, "x.html")},
			{Name: "two", Source: filepath.Join(notes, "a.md"), Output: filepath.Join(dir, "x.html")},
		}
		_, err := resolveJobs(docs, nil, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "both publish to")
	})

	t.Run("nothing to publish", func(t *testing.T) {
		_, err := resolveJobs(nil, []string{filepath.Join(dir, "notes", "sub", "empty")}, "")
		require.Error(t, err)

		empty := t.TempDir()
		_, err = resolveJobs(nil, []string{empty}, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no Markdown documents")
	})
}
