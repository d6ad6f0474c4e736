package jw

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// indexRecord is one parsed path/digest pair
type indexRecord struct {
	Path   string
	Digest string // lowercase hex
}

// HashIndex maps file paths to lowercase hex digests. Entries are kept in a
// skiplist keyed by path, so iteration order is lexicographic and the diff
// engine gets deterministic output without sorting the key space again.
// Duplicate paths collapse, last write wins.
type HashIndex struct {
	source string
	sl     *zcsl.ZeroCopySkiplist[indexRecord, string, string]
}

// NewHashIndex creates an empty index. source identifies where the records
// came from (usually the index file path) and is carried into diff reports.
func NewHashIndex(source string) *HashIndex {
	getKey := func(rec *indexRecord) string {
		return rec.Path
	}
	getSize := func(rec *indexRecord) int {
		return len(rec.Path) + len(rec.Digest)
	}

	return &HashIndex{
		source: source,
		sl: zcsl.MakeZeroCopySkiplist[indexRecord, string, string](
			16,
			getKey,
			getSize,
			strings.Compare,
		),
	}
}

// Source returns the index identifier used in diff reports
func (hi *HashIndex) Source() string {
	return hi.source
}

// Set stores a path/digest pair, replacing any previous digest for the path
func (hi *HashIndex) Set(path, digest string) {
	// Delete-then-insert keeps last-write-wins semantics explicit
	hi.sl.Delete(path)
	rec := indexRecord{Path: path, Digest: strings.ToLower(digest)}
	hi.sl.Insert(&rec, hi.source)
}

// Get returns the digest recorded for a path
func (hi *HashIndex) Get(path string) (string, bool) {
	node, _ := hi.sl.Find(path)
	if node == nil {
		return "", false
	}
	return node.Item().Digest, true
}

// Len returns the number of entries in the index
func (hi *HashIndex) Len() int {
	return hi.sl.Length()
}

// ForEach iterates entries in lexicographic path order
func (hi *HashIndex) ForEach(callback func(path, digest string) bool) {
	for node := hi.sl.First(); node != nil; node = node.Next() {
		rec := node.Item()
		if !callback(rec.Path, rec.Digest) {
			break
		}
	}
}

// ParseDelimitedLine parses a "<hexdigest>:<path>" record. The digest is
// hex and never contains a colon, so splitting at the first colon leaves
// any colons inside the path intact; a right-to-left split would truncate
// such paths at their last colon.
func ParseDelimitedLine(line string) (path, digest string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i <= 0 || i == len(line)-1 {
		return "", "", false
	}
	return line[i+1:], strings.ToLower(line[:i]), true
}

// ParseFixedWidthLine parses a "<hexdigest><path>" record where the digest
// occupies exactly the algorithm's hex width at the start of the line. The
// remainder is the path, untrimmed. Lines too short to hold a digest plus
// at least one path byte are malformed.
func ParseFixedWidthLine(line string, algorithm *HashAlgorithm) (path, digest string, ok bool) {
	hexLen := algorithm.HexLen()
	if len(line) <= hexLen {
		return "", "", false
	}
	return line[hexLen:], strings.ToLower(line[:hexLen]), true
}

// LoadHashIndex parses a persisted record stream into a HashIndex.
// Malformed lines are silently skipped; an unopenable file is an error the
// caller treats as fatal. format selects the record encoding; algorithm is
// required for FormatFixedWidth since the digest width is not
// self-describing.
func LoadHashIndex(filePath, format string, algorithm *HashAlgorithm) (*HashIndex, error) {
	if format == FormatFixedWidth && algorithm == nil {
		return nil, fmt.Errorf("fixed-width index %s requires a hash algorithm", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index file %s: %w", filePath, err)
	}
	defer file.Close()

	index := NewHashIndex(filePath)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var path, digest string
		var ok bool
		if format == FormatFixedWidth {
			path, digest, ok = ParseFixedWidthLine(line, algorithm)
		} else {
			path, digest, ok = ParseDelimitedLine(line)
		}
		if !ok {
			continue
		}
		index.Set(path, digest)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read index file %s: %w", filePath, err)
	}

	return index, nil
}
