package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/contingent/internal/config"
	"github.com/specialistvlad/contingent/internal/fsutil"
)

// Job is one Markdown source published to one HTML file.
type Job struct {
	Name   string
	Source string
	Output string
}

// resolveJobs expands configured documents and command-line sources into
// jobs. Directories contribute every .md file below them, mirrored into
// outDir. Without outDir a page lands next to its source.
func resolveJobs(docs []*config.Document, sources []string, outDir string) ([]Job, error) {
	var jobs []Job
	for _, d := range docs {
		out := d.Output
		if out == "" {
			out = derivedOutput(d.Source, filepath.Base(d.Source), outDir)
		}
		jobs = append(jobs, Job{Name: d.Name, Source: d.Source, Output: out})
	}

	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("error accessing source %s: %w", src, err)
		}
		if !info.IsDir() {
			jobs = append(jobs, Job{
				Name:   filepath.Base(src),
				Source: src,
				Output: derivedOutput(src, filepath.Base(src), outDir),
			})
			continue
		}

		files, err := fsutil.FindFilesByExtension(src, ".md")
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", src, err)
		}
		for _, f := range files {
			rel, err := filepath.Rel(src, f)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, Job{Name: rel, Source: f, Output: derivedOutput(f, rel, outDir)})
		}
	}

	if len(jobs) == 0 {
		return nil, errors.New("no Markdown documents to publish")
	}

	outputs := make(map[string]string, len(jobs))
	for _, j := range jobs {
		if prev, dup := outputs[j.Output]; dup {
			return nil, fmt.Errorf("documents %q and %q both publish to %s", prev, j.Name, j.Output)
		}
		outputs[j.Output] = j.Name
	}
	return jobs, nil
}

func derivedOutput(src, rel, outDir string) string {
	if outDir == "" {
		return fsutil.ReplaceExt(src, ".html")
	}
	return filepath.Join(outDir, fsutil.ReplaceExt(rel, ".html"))
}
