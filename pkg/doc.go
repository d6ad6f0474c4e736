// Package jw provides parallel filesystem traversal, concurrent file
// checksumming, and hash-index validation.
//
// # Checksum pipeline
//
// The pipeline overlaps enumeration with digesting: a walker feeds file
// paths to a pool of hash workers while a result sink drains completed
// records concurrently:
//
//	algo, _ := jw.GetHashAlgorithm("xxh3")
//	sink := &jw.ResultSink{Mode: jw.SinkLive, Format: jw.FormatDelimited, Out: os.Stdout}
//	stats, err := jw.RunChecksum(jw.ChecksumOptions{
//		Roots:     []string{"."},
//		Algorithm: algo,
//		Workers:   8,
//	}, sink, shutdownChan)
//
// # Index validation
//
// Recorded digest sets are diffed against a baseline:
//
//	report, err := jw.DiffIndexFiles(files, jw.FormatDelimited, nil)
//	report.Render(os.Stdout)
//	report.RenderSummary(os.Stdout)
//
// # Configuration
//
// Defaults come from an ini config file (see LoadConfig); verbosity is
// controlled with SetVerboseLevel and SetDebugFlags.
package jw
