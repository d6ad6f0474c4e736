package jw

import (
	"fmt"
	"io"
)

// TraverseStats counts entries seen during a traversal. Counters are only
// ever written by the goroutine that owns the struct; parallel consumers
// keep their own copy and merge once at the end rather than contending on
// shared counters.
type TraverseStats struct {
	Files uint64
	Dirs  uint64
	Other uint64
}

// Count records one entry of the given type
func (s *TraverseStats) Count(t EntryType) {
	switch t {
	case EntryFile:
		s.Files++
	case EntryDir:
		s.Dirs++
	default:
		s.Other++
	}
}

// Print writes the traversal summary in the output format the CLI documents
func (s *TraverseStats) Print(w io.Writer) {
	fmt.Fprintf(w, "\nCounted %d files, %d directories, and %d misc entries.\n",
		s.Files, s.Dirs, s.Other)
}

// ChecksumStats extends traversal counts with per-worker digest counters,
// merged after the worker pool joins.
type ChecksumStats struct {
	TraverseStats
	Hashed uint64 // Files digested successfully
	Failed uint64 // Files dropped because they could not be read
}

// workerStats is the per-worker local accumulator
type workerStats struct {
	hashed uint64
	failed uint64
}

// merge folds a worker's local counters into the final stats
func (s *ChecksumStats) merge(w *workerStats) {
	s.Hashed += w.hashed
	s.Failed += w.failed
}

// Print writes the checksum summary including traversal counts
func (s *ChecksumStats) Print(w io.Writer) {
	s.TraverseStats.Print(w)
	fmt.Fprintf(w, "Hashed %d files (%d unreadable, skipped).\n", s.Hashed, s.Failed)
}
