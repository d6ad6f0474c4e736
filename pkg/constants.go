package jw

import "strings"

// Hash type constants
const (
	HashTypeXXH3   uint16 = 1 // XXH3-128 (16 bytes)
	HashTypeSHA224 uint16 = 2 // SHA-224 (28 bytes)
	HashTypeSHA256 uint16 = 3 // SHA-256 (32 bytes)
	HashTypeSHA384 uint16 = 4 // SHA-384 (48 bytes)
	HashTypeSHA512 uint16 = 5 // SHA-512 (64 bytes)
	HashTypeMD5    uint16 = 6 // MD5 (16 bytes)
)

// Hash size constants
const (
	HashSizeXXH3   = 16 // XXH3-128 digest size in bytes
	HashSizeSHA224 = 28 // SHA-224 digest size in bytes
	HashSizeSHA256 = 32 // SHA-256 digest size in bytes
	HashSizeSHA384 = 48 // SHA-384 digest size in bytes
	HashSizeSHA512 = 64 // SHA-512 digest size in bytes
	HashSizeMD5    = 16 // MD5 digest size in bytes
)

// File-read policy defaults. Files at or above MmapThreshold are hashed
// through a single memory-mapped view; smaller files are streamed through
// a buffered reader in HashBufferSize chunks.
const (
	DefaultMmapThreshold = 20 * 1024 * 1024 // 20 MiB
	DefaultHashBuffer    = 128 * 1024       // 128 KiB
)

// DefaultHashWorkers is the worker-pool size used when neither the config
// file nor the command line selects one.
const DefaultHashWorkers = 1

// Traversal exclude flags
const (
	ExcludeFiles  uint = 1 << 0 // Skip regular files
	ExcludeDirs   uint = 1 << 1 // Skip directories
	ExcludeHidden uint = 1 << 2 // Skip dot entries (and don't descend into dot dirs)
	ExcludeOther  uint = 1 << 3 // Skip everything that is neither file nor dir
)

// Index record encodings
const (
	FormatDelimited  = "delimited"   // <hexdigest>:<path>
	FormatFixedWidth = "fixed-width" // <hexdigest><path>, digest width fixed by algorithm
)

// HashTypeName returns the human-readable name for a hash type
func HashTypeName(hashType uint16) string {
	switch hashType {
	case HashTypeXXH3:
		return "xxh3"
	case HashTypeSHA224:
		return "sha224"
	case HashTypeSHA256:
		return "sha256"
	case HashTypeSHA384:
		return "sha384"
	case HashTypeSHA512:
		return "sha512"
	case HashTypeMD5:
		return "md5"
	default:
		return "unknown"
	}
}

// HashTypeFromName returns the hash type constant from a name (case-insensitive)
func HashTypeFromName(name string) (uint16, bool) {
	switch strings.ToLower(name) {
	case "xxh3":
		return HashTypeXXH3, true
	case "sha224":
		return HashTypeSHA224, true
	case "sha256":
		return HashTypeSHA256, true
	case "sha384":
		return HashTypeSHA384, true
	case "sha512":
		return HashTypeSHA512, true
	case "md5":
		return HashTypeMD5, true
	default:
		return 0, false
	}
}
