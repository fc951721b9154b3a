// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// writeAsset creates an asset file under root, creating parent
// directories as needed. The name uses forward slashes regardless of
// host OS, matching manifest identity form.
func writeAsset(t *testing.T, root, name string, data []byte) {
	t.Helper()
	filePath := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		t.Fatalf("creating asset directory for %s: %v", name, err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		t.Fatalf("writing asset %s: %v", name, err)
	}
}

func TestDiscoverFindsNestedAssets(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "base.pk3", []byte("base"))
	writeAsset(t, root, "maps/canyon.pk3", []byte("canyon"))
	writeAsset(t, root, "maps/arena/deck.pk3", []byte("deck"))

	names, err := Discover(root, []string{".pk3"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{"base.pk3", "maps/arena/deck.pk3", "maps/canyon.pk3"}
	slices.Sort(names)
	if !slices.Equal(names, want) {
		t.Errorf("Discover = %v, want %v", names, want)
	}
}

func TestDiscoverFiltersByExtension(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "textures.pk3", []byte("a"))
	writeAsset(t, root, "readme.txt", []byte("b"))
	writeAsset(t, root, "notes.md", []byte("c"))
	writeAsset(t, root, "archive.pk3.bak", []byte("d"))

	names, err := Discover(root, []string{".pk3"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if len(names) != 1 || names[0] != "textures.pk3" {
		t.Errorf("Discover = %v, want [textures.pk3]", names)
	}
}

func TestDiscoverExtensionMatchIsCaseSensitive(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "lower.pk3", []byte("a"))
	writeAsset(t, root, "upper.PK3", []byte("b"))

	names, err := Discover(root, []string{".pk3"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if len(names) != 1 || names[0] != "lower.pk3" {
		t.Errorf("Discover = %v, want [lower.pk3]", names)
	}
}

func TestDiscoverMultipleExtensions(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "textures.pk3", []byte("a"))
	writeAsset(t, root, "legacy.pak", []byte("b"))
	writeAsset(t, root, "readme.txt", []byte("c"))

	names, err := Discover(root, []string{".pk3", ".pak"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	slices.Sort(names)
	want := []string{"legacy.pak", "textures.pk3"}
	if !slices.Equal(names, want) {
		t.Errorf("Discover = %v, want %v", names, want)
	}
}

func TestDiscoverSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "real.pk3", []byte("real"))
	if err := os.Symlink(
		filepath.Join(root, "real.pk3"),
		filepath.Join(root, "link.pk3"),
	); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	names, err := Discover(root, []string{".pk3"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if len(names) != 1 || names[0] != "real.pk3" {
		t.Errorf("Discover = %v, want [real.pk3]", names)
	}
}

func TestDiscoverEmptyRoot(t *testing.T) {
	names, err := Discover(t.TempDir(), []string{".pk3"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Discover = %v, want empty", names)
	}
}

func TestDiscoverMissingRootFails(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nonexistent"), []string{".pk3"})
	if err == nil {
		t.Fatal("Discover of missing root should fail")
	}
}

func TestDiscoverDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "zulu.pk3", []byte("z"))
	writeAsset(t, root, "alpha.pk3", []byte("a"))
	writeAsset(t, root, "maps/mid.pk3", []byte("m"))

	first, err := Discover(root, []string{".pk3"})
	if err != nil {
		t.Fatalf("first Discover: %v", err)
	}
	second, err := Discover(root, []string{".pk3"})
	if err != nil {
		t.Fatalf("second Discover: %v", err)
	}

	if !slices.Equal(first, second) {
		t.Errorf("discovery order not deterministic: %v vs %v", first, second)
	}
}
