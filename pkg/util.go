package jw

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// hexString renders a digest as lowercase hex
func hexString(digest []byte) string {
	return hex.EncodeToString(digest)
}

// ParseHumanSize parses a human-readable size string like "128K" or "20M"
// into bytes
func ParseHumanSize(sizeStr string) (int, error) {
	if sizeStr == "" {
		return 0, fmt.Errorf("empty size string")
	}

	// Convert to uppercase for consistent parsing
	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))

	// Extract numeric part and suffix
	var numPart string
	var suffix string
	for i, char := range sizeStr {
		if char >= '0' && char <= '9' || char == '.' {
			numPart += string(char)
		} else {
			suffix = sizeStr[i:]
			break
		}
	}

	if numPart == "" {
		return 0, fmt.Errorf("no numeric part in size string: %s", sizeStr)
	}

	num, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric part in size string %s: %w", sizeStr, err)
	}

	var multiplier int64 = 1
	switch suffix {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown size suffix: %s", suffix)
	}

	result := int64(num * float64(multiplier))
	if result <= 0 {
		return 0, fmt.Errorf("size must be positive: %s", sizeStr)
	}
	if result > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("size too large: %s", sizeStr)
	}

	return int(result), nil
}

// ParseExcludeFlags converts a comma-separated exclude list
// ("files,dirs,dot,other") into an exclude bitmask. Unknown names are an
// error so typos don't silently widen the walk.
func ParseExcludeFlags(flagsStr string) (uint, error) {
	var mask uint
	if flagsStr == "" {
		return 0, nil
	}

	for _, flag := range strings.Split(flagsStr, ",") {
		switch strings.ToLower(strings.TrimSpace(flag)) {
		case "":
			continue
		case "files":
			mask |= ExcludeFiles
		case "dirs":
			mask |= ExcludeDirs
		case "dot":
			mask |= ExcludeHidden
		case "other":
			mask |= ExcludeOther
		default:
			return 0, fmt.Errorf("unknown exclude type: %s", flag)
		}
	}
	return mask, nil
}
