// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
)

// DefaultExtensions is the asset extension allow-list used when a
// deployment does not configure its own.
var DefaultExtensions = []string{".pk3"}

// Discover walks the content root and returns the names of all
// regular files whose extension appears in the allow-list. Names are
// relative to root and forward-slash separated — the identity form
// used throughout the manifest.
//
// Extension matching is exact and case-sensitive: with an allow-list
// of ".pk3", a file named "textures.PK3" is not an asset. Symbolic
// links are skipped, directories are never matched, and hidden files
// get no special treatment beyond the extension check.
//
// Any filesystem error aborts the walk and fails the discovery as a
// whole. A partial listing would produce a manifest silently missing
// assets, which is worse than no manifest.
//
// The returned order is the deterministic lexical walk order; the
// manifest sorts entries canonically at assembly.
func Discover(root string, extensions []string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(root, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !slices.Contains(extensions, filepath.Ext(d.Name())) {
			return nil
		}
		relative, err := filepath.Rel(root, walkPath)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(relative))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking content root %s: %w", root, err)
	}
	return names, nil
}
