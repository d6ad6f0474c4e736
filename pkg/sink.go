package jw

import (
	"fmt"
	"os"
	"syscall"

	"github.com/google/vectorio"
	"golang.org/x/sys/unix"
)

// SinkMode selects how the result sink emits hash records
type SinkMode int

const (
	SinkLive   SinkMode = iota // Stream each record as soon as it completes
	SinkBatch                  // Buffer everything, emit once after the pipeline drains
	SinkSilent                 // Drain and discard; statistics only
)

// ResultSink drains the pipeline's result channel. Live mode reflects
// completion order and is non-deterministic across runs with more than one
// worker; batch mode emits the accumulated records in one vectored write
// after the channel closes.
type ResultSink struct {
	Mode    SinkMode
	Format  string // FormatDelimited or FormatFixedWidth
	Out     *os.File
	Emitted int // Records emitted (or drained, in silent mode)
}

// FormatRecord renders one hash record in the given index encoding
func FormatRecord(rec HashRecord, format string) string {
	if format == FormatFixedWidth {
		return rec.Hex + rec.Path
	}
	return rec.Hex + ":" + rec.Path
}

// Consume drains the result channel until it closes. Every record is
// emitted exactly once, in exactly one mode, and only after its digest was
// finalized by a worker.
func (s *ResultSink) Consume(records <-chan HashRecord) error {
	switch s.Mode {
	case SinkLive:
		// A write failure must not stop the drain: workers block on a full
		// result channel, so the sink keeps consuming (and discarding)
		// until the channel closes, then reports the first error.
		var firstErr error
		for rec := range records {
			if firstErr != nil {
				continue
			}
			if _, err := fmt.Fprintln(s.Out, FormatRecord(rec, s.Format)); err != nil {
				firstErr = fmt.Errorf("failed to write record: %w", err)
				fmt.Fprintf(os.Stderr, "record output failed, discarding remaining results: %v\n", err)
				continue
			}
			s.Emitted++
		}
		return firstErr

	case SinkSilent:
		for range records {
			s.Emitted++
		}
		return nil

	default:
		var lines [][]byte
		for rec := range records {
			lines = append(lines, []byte(FormatRecord(rec, s.Format)+"\n"))
		}
		s.Emitted = len(lines)
		return writeLinesVectored(s.Out, lines)
	}
}

// writeLinesVectored writes all lines with writev, chunked to the system
// IOV_MAX limit
func writeLinesVectored(out *os.File, lines [][]byte) error {
	if len(lines) == 0 {
		return nil
	}

	iovecs := make([]syscall.Iovec, 0, len(lines))
	totalSize := 0
	for _, line := range lines {
		iovecs = append(iovecs, syscall.Iovec{
			Base: &line[0],
			Len:  uint64(len(line)),
		})
		totalSize += len(line)
	}

	maxIovecs := getSystemIOVMax()
	totalWritten := 0
	for offset := 0; offset < len(iovecs); offset += maxIovecs {
		end := offset + maxIovecs
		if end > len(iovecs) {
			end = len(iovecs)
		}

		nw, err := vectorio.WritevRaw(uintptr(out.Fd()), iovecs[offset:end])
		if err != nil {
			return fmt.Errorf("failed to write records with vectorio: %w", err)
		}
		totalWritten += nw
	}

	if totalWritten != totalSize {
		return fmt.Errorf("record write incomplete: wrote %d bytes, expected %d", totalWritten, totalSize)
	}
	return nil
}

// getSystemIOVMax returns the system's IOV_MAX limit using sysconf(_SC_IOV_MAX),
// falling back to a conservative default if sysconf fails
func getSystemIOVMax() int {
	// _SC_IOV_MAX constant for sysconf() - platform specific
	const SC_IOV_MAX = 60     // Linux value, may vary on other platforms
	const fallbackIOVMax = 1024 // Conservative default per golang/go#58623

	// Call sysconf directly using unix.Syscall (syscall 99 on Linux)
	r1, _, errno := unix.Syscall(99, uintptr(SC_IOV_MAX), 0, 0)
	if errno != 0 {
		return fallbackIOVMax
	}

	iovMax := int(r1)
	if iovMax <= 0 || iovMax > 1<<20 {
		return fallbackIOVMax
	}
	return iovMax
}
