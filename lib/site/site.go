// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

// Package site renders the optional server landing page. Operators
// describe the page in a JSONC file (JSON extended with comments and
// trailing commas): a title, a message of the day in Markdown, a set
// of links, and whether to show distribution statistics. The server
// serves the rendered page at the root URL.
//
// The site file is operator-authored configuration, not user input:
// its Markdown is trusted and rendered to HTML without sanitization.
package site

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Link is one entry in the landing page's link list.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Definition is the parsed site file.
type Definition struct {
	// Title is the page heading. Defaults to "Pakdepot" when empty.
	Title string `json:"title"`

	// MOTD is the message of the day, in Markdown.
	MOTD string `json:"motd"`

	// Links are shown below the message.
	Links []Link `json:"links"`

	// ShowStats includes asset count, total size, and manifest age on
	// the page.
	ShowStats bool `json:"show_stats"`
}

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals the result into a Definition.
func Parse(data []byte) (*Definition, error) {
	stripped := jsonc.ToJSON(data)

	var definition Definition
	if err := json.Unmarshal(stripped, &definition); err != nil {
		return nil, fmt.Errorf("parsing site definition: %w", err)
	}

	if definition.Title == "" {
		definition.Title = "Pakdepot"
	}
	for i, link := range definition.Links {
		if link.Label == "" {
			return nil, fmt.Errorf("site link %d has no label", i)
		}
		if link.URL == "" {
			return nil, fmt.Errorf("site link %q has no url", link.Label)
		}
	}

	return &definition, nil
}

// ReadFile reads a JSONC site file from disk and parses it. Returns a
// descriptive error if the file cannot be read or is malformed.
func ReadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	definition, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return definition, nil
}
