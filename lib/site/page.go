// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package site

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"sync"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

//go:embed page.html
var pageSource string

// markdownInstance is initialized once and reused. The configuration
// (extensions, options) never changes and goldmark.Markdown is safe to
// share — each Convert call creates its own parse state.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func markdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				renderer.WithNodeRenderers(
					util.Prioritized(&codeBlockRenderer{}, 100),
				),
			),
		)
	})
	return markdownInstance
}

// Stats holds the distribution numbers shown when the site definition
// enables them.
type Stats struct {
	AssetCount      int
	TotalBytes      int64
	TotalCompressed int64
	GeneratedAt     time.Time
}

// Page is a renderable landing page. The Markdown and the template are
// processed once at construction; Render only executes the template.
type Page struct {
	definition *Definition
	motd       template.HTML
	tmpl       *template.Template
}

// NewPage prepares a landing page from a parsed site definition.
func NewPage(definition *Definition) (*Page, error) {
	var motd bytes.Buffer
	if definition.MOTD != "" {
		if err := markdown().Convert([]byte(definition.MOTD), &motd); err != nil {
			return nil, fmt.Errorf("rendering motd: %w", err)
		}
	}

	tmpl, err := template.New("page").Funcs(template.FuncMap{
		"formatBytes": formatBytes,
	}).Parse(pageSource)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	return &Page{
		definition: definition,
		motd:       template.HTML(motd.String()),
		tmpl:       tmpl,
	}, nil
}

// pageData is the template's dot.
type pageData struct {
	Title     string
	MOTD      template.HTML
	Links     []Link
	ShowStats bool
	Stats     Stats
}

// Render writes the HTML page. Stats are ignored unless the site
// definition enables them.
func (p *Page) Render(w io.Writer, stats Stats) error {
	return p.tmpl.Execute(w, pageData{
		Title:     p.definition.Title,
		MOTD:      p.motd,
		Links:     p.definition.Links,
		ShowStats: p.definition.ShowStats,
		Stats:     stats,
	})
}

// formatBytes renders a byte count in binary units: "1.5 GiB".
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	value, suffix := float64(n), ""
	for _, s := range []string{"KiB", "MiB", "GiB", "TiB"} {
		value /= unit
		suffix = s
		if value < unit {
			break
		}
	}
	return fmt.Sprintf("%.1f %s", value, suffix)
}
