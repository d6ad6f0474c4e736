package jw

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// EntryType classifies a filesystem entry for filtering and statistics
type EntryType int

const (
	EntryFile  EntryType = iota // Regular file
	EntryDir                    // Directory
	EntryOther                  // Anything else (sockets, devices, broken symlinks, ...)
)

// WalkEntry represents a filesystem entry found during traversal
type WalkEntry struct {
	Path string
	Type EntryType
}

// WalkOptions controls traversal depth and entry filtering
type WalkOptions struct {
	MaxDepth int  // Recursion depth limit below each root; 0 means unbounded
	Exclude  uint // Bitmask of Exclude* flags
}

// classifyEntry determines the entry type, following symlinks the way the
// walker's filters expect. A symlink whose target cannot be resolved
// counts as "other".
func classifyEntry(path string) EntryType {
	info, err := os.Stat(path)
	if err != nil {
		return EntryOther
	}
	if info.Mode().IsRegular() {
		return EntryFile
	}
	if info.IsDir() {
		return EntryDir
	}
	return EntryOther
}

// excluded reports whether an entry type is filtered out by the exclude mask
func (o WalkOptions) excluded(t EntryType) bool {
	switch t {
	case EntryFile:
		return o.Exclude&ExcludeFiles != 0
	case EntryDir:
		return o.Exclude&ExcludeDirs != 0
	default:
		return o.Exclude&ExcludeOther != 0
	}
}

// isHidden reports whether the entry's base name is a dot entry
func isHidden(path string) bool {
	base := filepath.Base(path)
	return len(base) > 1 && strings.HasPrefix(base, ".") && base != ".."
}

// WalkRoots traverses the given roots in order, applying depth and exclude
// filters, and calls emit for every qualifying entry. Traversal errors
// (permission denied, vanished entries, broken symlinks) skip the offending
// entry rather than aborting the walk. emit returning false stops the
// remaining traversal, which is how graceful shutdown propagates into an
// in-flight walk.
func WalkRoots(roots []string, opts WalkOptions, emit func(WalkEntry) bool) {
	for _, root := range roots {
		if !walkRoot(root, opts, emit) {
			return
		}
	}
}

// walkRoot traverses a single root; returns false if emit stopped the walk
func walkRoot(root string, opts WalkOptions, emit func(WalkEntry) bool) bool {
	stopped := false

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip unreadable entries; the rest of the walk continues
			VerboseLog(2, "skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		isRoot := path == root

		if !isRoot && opts.Exclude&ExcludeHidden != 0 && isHidden(path) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		var skip error
		if !isRoot && d.IsDir() && opts.MaxDepth > 0 && relDepth(root, path) >= opts.MaxDepth {
			// Entry itself is still within the limit; don't descend further
			skip = fs.SkipDir
		}

		entryType := classifyEntry(path)
		if opts.excluded(entryType) {
			return skip
		}

		if !emit(WalkEntry{Path: path, Type: entryType}) {
			stopped = true
			return filepath.SkipAll
		}
		return skip
	})
	if err != nil {
		VerboseLog(1, "walk of %s aborted: %v", root, err)
	}

	return !stopped
}

// relDepth returns how many directory levels path sits below root
func relDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
