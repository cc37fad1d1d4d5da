// Package publish contributes the Markdown publishing tasks:
//
//	publish.read(src)          file text
//	publish.title(src)         first heading       ← read
//	publish.body(src)          HTML fragment       ← read
//	publish.page(src)          full HTML page      ← title, body
//	publish.write(src, dst)    writes dst          ← page
//
// Invalidating publish.read(src) and rebuilding re-renders and rewrites
// every output derived from src.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/specialistvlad/contingent/internal/ctxlog"
	"github.com/specialistvlad/contingent/internal/engine"
	"github.com/specialistvlad/contingent/internal/fsutil"
	"github.com/specialistvlad/contingent/internal/markdown"
	"github.com/specialistvlad/contingent/internal/registry"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Module implements the engine.Module interface for this package. Its
// fields are populated by Register.
type Module struct {
	Read  *registry.Task1[string, string]
	Title *registry.Task1[string, string]
	Body  *registry.Task1[string, string]
	Page  *registry.Task1[string, string]
	Write *registry.Task2[string, string, string]
}

// Register defines the publishing tasks on c.
func (m *Module) Register(c *engine.Controller) error {
	var err error

	m.Read, err = engine.Define1(c, "publish.read", func(ctx context.Context, src string) (string, error) {
		ctxlog.FromContext(ctx).Debug("Reading source.", "path", src)
		return fsutil.ReadFile(src)
	})
	if err != nil {
		return err
	}

	m.Title, err = engine.Define1(c, "publish.title", func(ctx context.Context, src string) (string, error) {
		text, err := m.Read.Call(ctx, src)
		if err != nil {
			return "", err
		}
		if title := markdown.Title(text); title != "" {
			return title, nil
		}
		return src, nil
	})
	if err != nil {
		return err
	}

	m.Body, err = engine.Define1(c, "publish.body", func(ctx context.Context, src string) (string, error) {
		text, err := m.Read.Call(ctx, src)
		if err != nil {
			return "", err
		}
		return markdown.Render(text)
	})
	if err != nil {
		return err
	}

	m.Page, err = engine.Define1(c, "publish.page", func(ctx context.Context, src string) (string, error) {
		title, err := m.Title.Call(ctx, src)
		if err != nil {
			return "", err
		}
		body, err := m.Body.Call(ctx, src)
		if err != nil {
			return "", err
		}

		var buf bytes.Buffer
		err = pageTemplate.Execute(&buf, struct {
			Title string
			Body  template.HTML
		}{Title: title, Body: template.HTML(body)})
		if err != nil {
			return "", fmt.Errorf("failed to render page for %s: %w", src, err)
		}
		return buf.String(), nil
	})
	if err != nil {
		return err
	}

	m.Write, err = engine.Define2(c, "publish.write", func(ctx context.Context, src, dst string) (string, error) {
		page, err := m.Page.Call(ctx, src)
		if err != nil {
			return "", err
		}
		if err := fsutil.WriteFile(dst, []byte(page)); err != nil {
			return "", err
		}
		ctxlog.FromContext(ctx).Info("Published.", "source", src, "output", dst)
		return dst, nil
	})
	return err
}
