package jw

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeIndexFile(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.idx")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("Failed to write index file: %v", err)
	}
	return path
}

func TestParseDelimitedLine(t *testing.T) {
	tests := []struct {
		line   string
		path   string
		digest string
		ok     bool
	}{
		{"deadbeef:/tmp/a.txt", "/tmp/a.txt", "deadbeef", true},
		{"deadbeef:/var/log:x", "/var/log:x", "deadbeef", true}, // colon in path survives
		{"DEADBEEF:/tmp/a.txt", "/tmp/a.txt", "deadbeef", true}, // digest normalized
		{"nocolon", "", "", false},
		{":leadingcolon", "", "", false},
		{"trailingcolon:", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		path, digest, ok := ParseDelimitedLine(tt.line)
		if ok != tt.ok {
			t.Errorf("ParseDelimitedLine(%q): expected ok=%v, got %v", tt.line, tt.ok, ok)
			continue
		}
		if path != tt.path || digest != tt.digest {
			t.Errorf("ParseDelimitedLine(%q): expected (%q, %q), got (%q, %q)",
				tt.line, tt.path, tt.digest, path, digest)
		}
	}
}

func TestParseFixedWidthLine(t *testing.T) {
	algo, err := GetHashAlgorithm("xxh3") // 16-byte digest, 32 hex chars
	if err != nil {
		t.Fatalf("GetHashAlgorithm error = %v", err)
	}

	// 32 hex chars followed directly by the path
	line := "aabbccddeeff00112233445566778899/var/log/x"
	path, digest, ok := ParseFixedWidthLine(line, algo)
	if !ok {
		t.Fatalf("Expected line to parse, got malformed")
	}
	if digest != "aabbccddeeff00112233445566778899" {
		t.Errorf("Expected digest aabbccddeeff00112233445566778899, got %s", digest)
	}
	if path != "/var/log/x" {
		t.Errorf("Expected path /var/log/x, got %s", path)
	}

	// Whitespace in the remainder is part of the path, untrimmed
	path, _, ok = ParseFixedWidthLine("aabbccddeeff00112233445566778899 spaced", algo)
	if !ok || path != " spaced" {
		t.Errorf("Expected untrimmed path %q, got %q (ok=%v)", " spaced", path, ok)
	}

	// Too short to hold a digest plus a path
	if _, _, ok := ParseFixedWidthLine("aabbccdd", algo); ok {
		t.Errorf("Expected short line to be malformed")
	}
	if _, _, ok := ParseFixedWidthLine("aabbccddeeff00112233445566778899", algo); ok {
		t.Errorf("Expected digest-only line to be malformed")
	}
}

func TestHashIndex_SetGet(t *testing.T) {
	index := NewHashIndex("test")

	index.Set("/b", "beef")
	index.Set("/a", "aaaa")
	index.Set("/b", "cafe") // last write wins

	if index.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", index.Len())
	}

	if digest, ok := index.Get("/b"); !ok || digest != "cafe" {
		t.Errorf("Expected /b digest cafe, got %s (ok=%v)", digest, ok)
	}
	if _, ok := index.Get("/missing"); ok {
		t.Errorf("Expected missing path to be absent")
	}
}

func TestHashIndex_ForEachSorted(t *testing.T) {
	index := NewHashIndex("test")
	index.Set("/c", "03")
	index.Set("/a", "01")
	index.Set("/b", "02")

	var paths []string
	index.ForEach(func(path, digest string) bool {
		paths = append(paths, path)
		return true
	})

	want := []string{"/a", "/b", "/c"}
	for i, p := range want {
		if i >= len(paths) || paths[i] != p {
			t.Fatalf("Expected iteration order %v, got %v", want, paths)
		}
	}
}

func TestLoadHashIndex_Delimited(t *testing.T) {
	path := writeIndexFile(t, []string{
		"deadbeef:/tmp/a.txt",
		"line with no delimiter at all",
		"cafebabe:/tmp/b.txt",
		"deadbeef:/tmp/a.txt", // duplicate collapses
		"",
	})

	index, err := LoadHashIndex(path, FormatDelimited, nil)
	if err != nil {
		t.Fatalf("LoadHashIndex failed: %v", err)
	}

	if index.Len() != 2 {
		t.Errorf("Expected 2 entries after duplicate/malformed collapse, got %d", index.Len())
	}
	if digest, ok := index.Get("/tmp/b.txt"); !ok || digest != "cafebabe" {
		t.Errorf("Expected /tmp/b.txt digest cafebabe, got %s (ok=%v)", digest, ok)
	}
	if index.Source() != path {
		t.Errorf("Expected source %s, got %s", path, index.Source())
	}
}

func TestLoadHashIndex_FixedWidth(t *testing.T) {
	algo, err := GetHashAlgorithm("xxh3")
	if err != nil {
		t.Fatalf("GetHashAlgorithm error = %v", err)
	}

	path := writeIndexFile(t, []string{
		"aabbccddeeff00112233445566778899/var/log/x",
		"tooshort",
		"ffeeddccbbaa99887766554433221100/var/log/y",
	})

	index, err := LoadHashIndex(path, FormatFixedWidth, algo)
	if err != nil {
		t.Fatalf("LoadHashIndex failed: %v", err)
	}

	if index.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", index.Len())
	}
	if digest, ok := index.Get("/var/log/x"); !ok || digest != "aabbccddeeff00112233445566778899" {
		t.Errorf("Expected fixed-width digest for /var/log/x, got %s (ok=%v)", digest, ok)
	}
}

func TestLoadHashIndex_FixedWidthNeedsAlgorithm(t *testing.T) {
	path := writeIndexFile(t, []string{"aabbccddeeff00112233445566778899/var/log/x"})

	if _, err := LoadHashIndex(path, FormatFixedWidth, nil); err == nil {
		t.Errorf("Expected error for fixed-width parsing without an algorithm")
	}
}

func TestLoadHashIndex_OpenFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.idx")

	if _, err := LoadHashIndex(missing, FormatDelimited, nil); err == nil {
		t.Errorf("Expected error for unopenable index file")
	}
}
