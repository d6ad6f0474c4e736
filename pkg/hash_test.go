package jw

import (
	"bytes"
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/zeebo/xxh3"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestGetHashAlgorithm_Sizes(t *testing.T) {
	tests := []struct {
		name   string
		typeID uint16
		size   int
	}{
		{"xxh3", HashTypeXXH3, 16},
		{"sha224", HashTypeSHA224, 28},
		{"sha256", HashTypeSHA256, 32},
		{"sha384", HashTypeSHA384, 48},
		{"sha512", HashTypeSHA512, 64},
		{"md5", HashTypeMD5, 16},
	}

	for _, tt := range tests {
		algo, err := GetHashAlgorithm(tt.name)
		if err != nil {
			t.Fatalf("GetHashAlgorithm(%s) error = %v", tt.name, err)
		}
		if algo.TypeID != tt.typeID {
			t.Errorf("Expected type ID %d for %s, got %d", tt.typeID, tt.name, algo.TypeID)
		}
		if algo.Size != tt.size {
			t.Errorf("Expected size %d for %s, got %d", tt.size, tt.name, algo.Size)
		}
		if algo.HexLen() != tt.size*2 {
			t.Errorf("Expected hex length %d for %s, got %d", tt.size*2, tt.name, algo.HexLen())
		}

		// The registered hasher must produce a digest of the declared size
		hasher := algo.NewFunc()
		hasher.Write([]byte("size check"))
		if got := len(hasher.Sum(nil)); got != tt.size {
			t.Errorf("Expected %d digest bytes for %s, got %d", tt.size, tt.name, got)
		}
	}
}

func TestGetHashAlgorithm_Unknown(t *testing.T) {
	if _, err := GetHashAlgorithm("blake3"); err == nil {
		t.Errorf("Expected error for unsupported algorithm, got nil")
	}
	if _, err := GetHashAlgorithmByType(999); err == nil {
		t.Errorf("Expected error for unsupported type ID, got nil")
	}
}

func TestGetHashAlgorithmByType_RoundTrip(t *testing.T) {
	for _, name := range HashAlgorithmNames() {
		byName, err := GetHashAlgorithm(name)
		if err != nil {
			t.Fatalf("GetHashAlgorithm(%s) error = %v", name, err)
		}
		byType, err := GetHashAlgorithmByType(byName.TypeID)
		if err != nil {
			t.Fatalf("GetHashAlgorithmByType(%d) error = %v", byName.TypeID, err)
		}
		if byType.Name != name {
			t.Errorf("Expected algorithm %s for type %d, got %s", name, byName.TypeID, byType.Name)
		}
	}
}

func TestHashFile_KnownDigests(t *testing.T) {
	content := []byte("hello world")
	path := writeTempFile(t, "known.bin", content)

	sum256 := sha256.Sum256(content)
	sum512 := sha512.Sum512(content)
	sumMD5 := md5.Sum(content)
	sumXXH3 := xxh3.Hash128(content).Bytes()

	tests := []struct {
		name string
		want string
	}{
		{"sha256", hex.EncodeToString(sum256[:])},
		{"sha512", hex.EncodeToString(sum512[:])},
		{"md5", hex.EncodeToString(sumMD5[:])},
		{"xxh3", hex.EncodeToString(sumXXH3[:])},
	}

	for _, tt := range tests {
		algo, err := GetHashAlgorithm(tt.name)
		if err != nil {
			t.Fatalf("GetHashAlgorithm(%s) error = %v", tt.name, err)
		}
		got, err := HashFileToHexString(path, algo, HashOptions{})
		if err != nil {
			t.Fatalf("HashFileToHexString(%s) error = %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("Expected %s digest %s, got %s", tt.name, tt.want, got)
		}
	}
}

// Identical content must hash identically through the buffered path and
// the memory-mapped path, for every supported algorithm.
func TestHashFile_BufferedMmapEquivalence(t *testing.T) {
	content := bytes.Repeat([]byte("0123456789abcdef"), 20*1024) // 320 KiB
	path := writeTempFile(t, "equiv.bin", content)

	buffered := HashOptions{MmapThreshold: int64(len(content)) + 1, BufferSize: 4 * 1024}
	mapped := HashOptions{MmapThreshold: 1, BufferSize: 4 * 1024}

	for _, name := range HashAlgorithmNames() {
		algo, err := GetHashAlgorithm(name)
		if err != nil {
			t.Fatalf("GetHashAlgorithm(%s) error = %v", name, err)
		}

		viaBuffer, err := HashFileToHexString(path, algo, buffered)
		if err != nil {
			t.Fatalf("Buffered hash with %s failed: %v", name, err)
		}
		viaMmap, err := HashFileToHexString(path, algo, mapped)
		if err != nil {
			t.Fatalf("Mmap hash with %s failed: %v", name, err)
		}

		if viaBuffer != viaMmap {
			t.Errorf("Digest mismatch for %s: buffered %s, mmap %s", name, viaBuffer, viaMmap)
		}
	}
}

func TestHashFile_ChunkSizeInvariance(t *testing.T) {
	content := bytes.Repeat([]byte("jw"), 100*1024+7)
	path := writeTempFile(t, "chunks.bin", content)

	algo, err := GetHashAlgorithm("sha256")
	if err != nil {
		t.Fatalf("GetHashAlgorithm error = %v", err)
	}

	small, err := HashFileToHexString(path, algo, HashOptions{BufferSize: 4 * 1024})
	if err != nil {
		t.Fatalf("Hash with 4K chunks failed: %v", err)
	}
	large, err := HashFileToHexString(path, algo, HashOptions{BufferSize: 128 * 1024})
	if err != nil {
		t.Fatalf("Hash with 128K chunks failed: %v", err)
	}

	if small != large {
		t.Errorf("Digest mismatch across chunk sizes: %s vs %s", small, large)
	}
}

func TestHashFile_EmptyFile(t *testing.T) {
	path := writeTempFile(t, "empty.bin", nil)

	for _, name := range HashAlgorithmNames() {
		algo, err := GetHashAlgorithm(name)
		if err != nil {
			t.Fatalf("GetHashAlgorithm(%s) error = %v", name, err)
		}
		got, err := HashFileToHexString(path, algo, HashOptions{})
		if err != nil {
			t.Fatalf("Hash of empty file with %s failed: %v", name, err)
		}
		if len(got) != algo.HexLen() {
			t.Errorf("Expected %d hex chars for %s, got %d", algo.HexLen(), name, len(got))
		}
		if got != HashStringToHexString("", algo) {
			t.Errorf("Empty file digest disagrees with empty string digest for %s", name)
		}
	}
}

func TestHashFile_MissingFile(t *testing.T) {
	algo, err := GetHashAlgorithm("xxh3")
	if err != nil {
		t.Fatalf("GetHashAlgorithm error = %v", err)
	}

	_, err = HashFile(filepath.Join(t.TempDir(), "does-not-exist"), algo, HashOptions{})
	if err == nil {
		t.Errorf("Expected error for missing file, got nil")
	}
}

func TestHashFileInterruptible_Shutdown(t *testing.T) {
	path := writeTempFile(t, "interrupt.bin", bytes.Repeat([]byte("x"), 64*1024))

	algo, err := GetHashAlgorithm("sha256")
	if err != nil {
		t.Fatalf("GetHashAlgorithm error = %v", err)
	}

	shutdown := make(chan struct{})
	close(shutdown)

	_, err = HashFileInterruptible(path, algo, HashOptions{BufferSize: 4 * 1024}, shutdown)
	if err == nil {
		t.Errorf("Expected interruption error with closed shutdown channel, got nil")
	}
}
