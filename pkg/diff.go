package jw

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Mismatch records a path present in both indices with different digests
type Mismatch struct {
	Path     string
	Expected string // digest in the baseline
	Actual   string // digest in the comparison index
	Source   string // comparison index identifier
}

// Missing records a baseline path absent from a comparison index
type Missing struct {
	Path   string
	Source string
}

// Excess records a comparison path absent from the baseline
type Excess struct {
	Path   string
	Digest string
	Source string
}

// DiffReport is the result of validating one or more comparison indices
// against a baseline. Each category is sorted by path, then by source
// index, so output is deterministic.
type DiffReport struct {
	Mismatches []Mismatch
	Missing    []Missing
	Excess     []Excess
}

// Total returns the discrepancy count across all categories
func (r *DiffReport) Total() int {
	return len(r.Mismatches) + len(r.Missing) + len(r.Excess)
}

// DiffIndices validates each comparison index against the baseline
// independently: a path may be missing relative to one comparison index and
// matching in another, and every comparison index is examined in full.
// Digests are compared as case-normalized hex strings.
func DiffIndices(baseline *HashIndex, comparisons []*HashIndex) *DiffReport {
	report := &DiffReport{}

	baseline.ForEach(func(path, baseDigest string) bool {
		for _, other := range comparisons {
			otherDigest, found := other.Get(path)
			if !found {
				report.Missing = append(report.Missing, Missing{
					Path:   path,
					Source: other.Source(),
				})
				continue
			}
			if !strings.EqualFold(otherDigest, baseDigest) {
				report.Mismatches = append(report.Mismatches, Mismatch{
					Path:     path,
					Expected: baseDigest,
					Actual:   otherDigest,
					Source:   other.Source(),
				})
			}
		}
		return true
	})

	for _, other := range comparisons {
		other.ForEach(func(path, otherDigest string) bool {
			if _, found := baseline.Get(path); !found {
				report.Excess = append(report.Excess, Excess{
					Path:   path,
					Digest: otherDigest,
					Source: other.Source(),
				})
			}
			return true
		})
	}

	report.sortCategories()
	return report
}

// sortCategories orders each category by path, then source index
func (r *DiffReport) sortCategories() {
	sort.Slice(r.Mismatches, func(i, j int) bool {
		if r.Mismatches[i].Path != r.Mismatches[j].Path {
			return r.Mismatches[i].Path < r.Mismatches[j].Path
		}
		return r.Mismatches[i].Source < r.Mismatches[j].Source
	})
	sort.Slice(r.Missing, func(i, j int) bool {
		if r.Missing[i].Path != r.Missing[j].Path {
			return r.Missing[i].Path < r.Missing[j].Path
		}
		return r.Missing[i].Source < r.Missing[j].Source
	})
	sort.Slice(r.Excess, func(i, j int) bool {
		if r.Excess[i].Path != r.Excess[j].Path {
			return r.Excess[i].Path < r.Excess[j].Path
		}
		return r.Excess[i].Source < r.Excess[j].Source
	})
}

// Render writes the per-entry discrepancy lines: mismatches, then missing,
// then excess entries.
func (r *DiffReport) Render(w io.Writer) {
	for _, m := range r.Mismatches {
		fmt.Fprintf(w, "[!(%s)] %s != %s == %s\n", m.Source, m.Actual, m.Expected, m.Path)
	}
	for _, m := range r.Missing {
		fmt.Fprintf(w, "[-(%s)] %s\n", m.Source, m.Path)
	}
	for _, e := range r.Excess {
		fmt.Fprintf(w, "[+(%s)] %s:%s\n", e.Source, e.Digest, e.Path)
	}
}

// RenderSummary writes the validation outcome and per-category counts
func (r *DiffReport) RenderSummary(w io.Writer) {
	if r.Total() == 0 {
		fmt.Fprintln(w, "All entries validated without any discrepancies.")
		return
	}
	fmt.Fprintf(w, "\nFound %d total discrepancies!\n", r.Total())
	fmt.Fprintf(w, "  %d Mismatching Hashes\n  %d Missing Files\n  %d Excess Files\n",
		len(r.Mismatches), len(r.Missing), len(r.Excess))
}

// DiffIndexFiles loads a baseline index file plus two or more comparison
// files and diffs them. Any file that cannot be opened aborts the whole
// operation immediately; a diff over partial inputs would be misleading.
func DiffIndexFiles(paths []string, format string, algorithm *HashAlgorithm) (*DiffReport, error) {
	if len(paths) < 2 {
		return nil, fmt.Errorf("not enough files to perform a diff: need a baseline and at least one comparison file")
	}

	baseline, err := LoadHashIndex(paths[0], format, algorithm)
	if err != nil {
		return nil, err
	}

	comparisons := make([]*HashIndex, 0, len(paths)-1)
	for _, p := range paths[1:] {
		index, err := LoadHashIndex(p, format, algorithm)
		if err != nil {
			return nil, err
		}
		comparisons = append(comparisons, index)
	}

	return DiffIndices(baseline, comparisons), nil
}
