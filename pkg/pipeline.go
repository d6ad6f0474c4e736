package jw

import (
	"sync"
)

// HashRecord is the digest of exactly one successfully read file
type HashRecord struct {
	Path string
	Hex  string
}

// ChecksumOptions configures a checksum pipeline run
type ChecksumOptions struct {
	Roots        []string
	Algorithm    *HashAlgorithm
	Workers      int // Worker-pool size, minimum 1
	Hash         HashOptions
	Walk         WalkOptions
	CollectStats bool
}

// Channel depths for the pipeline. Workers never block for long on the
// result channel because a consumer (live printer or batch accumulator)
// drains it concurrently with production.
const (
	pathChanDepth   = 256
	resultChanDepth = 256
)

// RunChecksum runs the concurrent checksum pipeline: enumeration feeds a
// shared path channel, N workers digest files from it, and the sink drains
// the result channel. Enumeration and digesting overlap; the path channel
// is closed when enumeration completes and the result channel is closed
// only after every worker has joined, so the sink can never observe a
// partially drained pipeline.
//
// Per-file read failures are dropped and counted; they never abort the run.
func RunChecksum(opts ChecksumOptions, sink *ResultSink, shutdownChan <-chan struct{}) (*ChecksumStats, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	pathChan := make(chan string, pathChanDepth)
	resultChan := make(chan HashRecord, resultChanDepth)

	// Worker pool with per-worker counters, merged after the join
	perWorker := make([]workerStats, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(ws *workerStats) {
			defer wg.Done()
			hashWorker(pathChan, resultChan, opts, ws, shutdownChan)
		}(&perWorker[i])
	}

	// Close the result channel once all workers have exited. The sink's
	// drain loop terminates on this close, never on a liveness guess.
	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// The sink always runs concurrently so workers cannot stall on a full
	// result channel; batch and silent modes simply defer emission until
	// the drain completes.
	sinkDone := make(chan error, 1)
	go func() {
		sinkDone <- sink.Consume(resultChan)
	}()

	// Enumeration runs on the coordinating goroutine as the sole writer
	// to the path channel.
	stats := &ChecksumStats{}
	WalkRoots(opts.Roots, opts.Walk, func(entry WalkEntry) bool {
		if opts.CollectStats {
			stats.Count(entry.Type)
		}
		// Only regular files have content to digest
		if entry.Type != EntryFile {
			return true
		}
		select {
		case pathChan <- entry.Path:
			return true
		case <-shutdownChan:
			return false
		}
	})
	close(pathChan)

	err := <-sinkDone
	for i := range perWorker {
		stats.merge(&perWorker[i])
	}
	return stats, err
}

// hashWorker consumes paths until the path channel closes, digesting each
// file and emitting one record per successful read. It finishes the digest
// in progress before honoring a shutdown request.
func hashWorker(pathChan <-chan string, resultChan chan<- HashRecord, opts ChecksumOptions, ws *workerStats, shutdownChan <-chan struct{}) {
	for {
		select {
		case path, ok := <-pathChan:
			if !ok {
				return
			}

			hashBytes, err := HashFileInterruptible(path, opts.Algorithm, opts.Hash, shutdownChan)
			if err != nil {
				// Unreadable file: drop the record, keep the worker alive
				ws.failed++
				VerboseLog(2, "dropping %s: %v", path, err)
				continue
			}

			select {
			case resultChan <- HashRecord{Path: path, Hex: hexString(hashBytes)}:
				ws.hashed++
			case <-shutdownChan:
				return
			}

		case <-shutdownChan:
			return
		}
	}
}
