package jw

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/sys/unix"
)

// HashAlgorithm represents a hash algorithm configuration
type HashAlgorithm struct {
	Name    string
	TypeID  uint16
	Size    int
	NewFunc func() hash.Hash
}

// HexLen returns the length of the lowercase hex rendering of a digest
func (a *HashAlgorithm) HexLen() int {
	return a.Size * 2
}

// xxh3Hash adapts the streaming xxh3 hasher to hash.Hash with the full
// 128-bit digest (the library's own Sum only exposes the 64-bit variant)
type xxh3Hash struct {
	*xxh3.Hasher
}

func (h xxh3Hash) Size() int { return HashSizeXXH3 }

func (h xxh3Hash) Sum(b []byte) []byte {
	sum := h.Sum128().Bytes()
	return append(b, sum[:]...)
}

// GetHashAlgorithm returns the hash algorithm configuration for the given name
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	switch strings.ToLower(name) {
	case "xxh3":
		return &HashAlgorithm{
			Name:    "xxh3",
			TypeID:  HashTypeXXH3,
			Size:    HashSizeXXH3,
			NewFunc: func() hash.Hash { return xxh3Hash{xxh3.New()} },
		}, nil
	case "sha224":
		return &HashAlgorithm{
			Name:    "sha224",
			TypeID:  HashTypeSHA224,
			Size:    HashSizeSHA224,
			NewFunc: func() hash.Hash { return sha256.New224() },
		}, nil
	case "sha256":
		return &HashAlgorithm{
			Name:    "sha256",
			TypeID:  HashTypeSHA256,
			Size:    HashSizeSHA256,
			NewFunc: func() hash.Hash { return sha256.New() },
		}, nil
	case "sha384":
		return &HashAlgorithm{
			Name:    "sha384",
			TypeID:  HashTypeSHA384,
			Size:    HashSizeSHA384,
			NewFunc: func() hash.Hash { return sha512.New384() },
		}, nil
	case "sha512":
		return &HashAlgorithm{
			Name:    "sha512",
			TypeID:  HashTypeSHA512,
			Size:    HashSizeSHA512,
			NewFunc: func() hash.Hash { return sha512.New() },
		}, nil
	case "md5":
		return &HashAlgorithm{
			Name:    "md5",
			TypeID:  HashTypeMD5,
			Size:    HashSizeMD5,
			NewFunc: func() hash.Hash { return md5.New() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", name)
	}
}

// GetHashAlgorithmByType returns the hash algorithm configuration for the given type ID
func GetHashAlgorithmByType(typeID uint16) (*HashAlgorithm, error) {
	name := HashTypeName(typeID)
	if name == "unknown" {
		return nil, fmt.Errorf("unsupported hash type ID: %d", typeID)
	}
	return GetHashAlgorithm(name)
}

// HashAlgorithmNames returns the supported algorithm names in registry order
func HashAlgorithmNames() []string {
	return []string{"xxh3", "sha224", "sha256", "sha384", "sha512", "md5"}
}

// HashOptions controls the file-read policy for hashing. The zero value
// selects the compiled-in defaults.
type HashOptions struct {
	MmapThreshold int64 // Files at or above this size go through mmap
	BufferSize    int   // Chunk size for the buffered read path
}

func (o HashOptions) withDefaults() HashOptions {
	if o.MmapThreshold <= 0 {
		o.MmapThreshold = DefaultMmapThreshold
	}
	if o.BufferSize <= 0 {
		o.BufferSize = DefaultHashBuffer
	}
	return o
}

// HashFile calculates the hash of a file using the specified algorithm.
// Large files are read through a single memory-mapped view to avoid
// per-chunk syscall overhead; small files are streamed in fixed-size
// chunks to avoid mapping cost and address-space pressure. Both paths
// must produce identical digests for identical content.
func HashFile(filePath string, algorithm *HashAlgorithm, opts HashOptions) ([]byte, error) {
	return HashFileInterruptible(filePath, algorithm, opts, nil)
}

// HashFileInterruptible is HashFile with a shutdown channel checked between
// buffer reads so a long hash can be abandoned during graceful shutdown.
// The mmap path is a single hasher update and is not interruptible mid-file.
func HashFileInterruptible(filePath string, algorithm *HashAlgorithm, opts HashOptions, shutdownChan <-chan struct{}) ([]byte, error) {
	opts = opts.withDefaults()

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", filePath, err)
	}

	hasher := algorithm.NewFunc()

	if stat.Size() >= opts.MmapThreshold {
		if err := hashFileMmap(file, int(stat.Size()), hasher); err != nil {
			return nil, fmt.Errorf("failed to hash file %s: %w", filePath, err)
		}
		return hasher.Sum(nil), nil
	}

	buffer := make([]byte, opts.BufferSize)
	for {
		// Check for shutdown signal before each read
		if shutdownChan != nil {
			select {
			case <-shutdownChan:
				return nil, fmt.Errorf("hash operation interrupted by shutdown")
			default:
			}
		}

		n, err := file.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read from file %s: %w", filePath, err)
		}
	}

	return hasher.Sum(nil), nil
}

// hashFileMmap feeds the whole file to the hasher as one chunk via mmap
func hashFileMmap(file *os.File, size int, hasher hash.Hash) error {
	data, err := unix.Mmap(int(file.Fd()), 0, size, unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return fmt.Errorf("failed to mmap file: %w", err)
	}
	defer unix.Munmap(data)

	hasher.Write(data)
	return nil
}

// HashFileToHexString calculates the hash of a file and returns it as a lowercase hex string
func HashFileToHexString(filePath string, algorithm *HashAlgorithm, opts HashOptions) (string, error) {
	hashBytes, err := HashFile(filePath, algorithm, opts)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(hashBytes), nil
}

// HashStringToHexString calculates the hash of a string and returns it as a hex string
func HashStringToHexString(data string, algorithm *HashAlgorithm) string {
	hasher := algorithm.NewFunc()
	hasher.Write([]byte(data))
	return hex.EncodeToString(hasher.Sum(nil))
}
