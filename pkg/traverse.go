package jw

import (
	"fmt"
	"os"
)

// TraverseOptions configures a plain (non-hashing) traversal run
type TraverseOptions struct {
	Roots        []string
	Walk         WalkOptions
	Live         bool // Print entries as they are found instead of collecting first
	Silent       bool // Suppress entry output entirely
	CollectStats bool
}

// Traverse enumerates the configured roots and prints qualifying entries.
// Live mode prints during the walk; otherwise entries are collected and
// written in one vectored pass at the end. Silent mode still walks
// everything so statistics stay accurate.
func Traverse(opts TraverseOptions, out *os.File, shutdownChan <-chan struct{}) (*TraverseStats, error) {
	stats := &TraverseStats{}
	var collected [][]byte

	WalkRoots(opts.Roots, opts.Walk, func(entry WalkEntry) bool {
		select {
		case <-shutdownChan:
			return false
		default:
		}

		if opts.CollectStats {
			stats.Count(entry.Type)
		}
		if opts.Silent {
			return true
		}

		if opts.Live {
			fmt.Fprintln(out, entry.Path)
		} else {
			collected = append(collected, []byte(entry.Path+"\n"))
		}
		return true
	})

	if err := writeLinesVectored(out, collected); err != nil {
		return stats, err
	}
	return stats, nil
}
