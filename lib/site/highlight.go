// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package site

import (
	"bytes"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// codeBlockRenderer overrides goldmark's fenced-code-block output with
// Chroma-highlighted HTML, so config snippets in the message of the
// day get syntax coloring. The highlighted markup carries inline
// styles; the page template needs no stylesheet for it.
type codeBlockRenderer struct{}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.render)
}

func (r *codeBlockRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	block := node.(*ast.FencedCodeBlock)

	var code bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	// Highlight into a scratch buffer first: a Chroma failure midway
	// must not leave partial markup in the page.
	language := string(block.Language(source))
	if language != "" {
		var highlighted bytes.Buffer
		if err := quick.Highlight(&highlighted, code.String(), language, "html", "monokai"); err == nil {
			_, writeErr := w.Write(highlighted.Bytes())
			return ast.WalkSkipChildren, writeErr
		}
	}

	// Plain escaped block for unmarked or unhighlightable code.
	w.WriteString("<pre><code>")
	w.Write(util.EscapeHTML(code.Bytes()))
	w.WriteString("</code></pre>\n")
	return ast.WalkSkipChildren, nil
}
