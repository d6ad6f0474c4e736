package jw

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-ini/ini"
)

// Config represents the jw configuration file
type Config struct {
	configPath string
	ini        *ini.File
}

// ChecksumConfig represents checksum pipeline configuration
type ChecksumConfig struct {
	Algorithm     string // Default hash algorithm
	Threads       int    // Default worker-pool size
	HashBuffer    string // Buffered-read chunk size (human size, e.g. "128K")
	MmapThreshold string // Mmap cutover size (human size, e.g. "20M")
}

// OutputConfig represents result emission configuration
type OutputConfig struct {
	Format string // Record encoding: delimited, fixed-width
	Live   bool   // Stream results as they complete
	Silent bool   // Suppress record output
}

// WalkConfig represents traversal configuration
type WalkConfig struct {
	Depth   int    // Recursion depth limit (0 = unbounded)
	Exclude string // Comma-separated exclude list
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level
	Debug string // Default debug flags (comma-separated)
}

// DefaultConfigPath returns the per-user config file location
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "jw", "config")
}

// LoadConfig loads configuration from the given path, falling back to the
// per-user default location when path is empty. A missing file yields the
// built-in defaults.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath()
	}

	cfg := &Config{
		configPath: configPath,
	}

	if _, err := os.Stat(configPath); configPath == "" || os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		return cfg, nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	cfg.ini = iniFile

	return cfg, nil
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	checksumSection, err := c.ini.NewSection("checksum")
	if err != nil {
		return fmt.Errorf("failed to create checksum section: %w", err)
	}
	if _, err := checksumSection.NewKey("algorithm", "xxh3"); err != nil {
		return fmt.Errorf("failed to set default hash algorithm: %w", err)
	}
	if _, err := checksumSection.NewKey("threads", "1"); err != nil {
		return fmt.Errorf("failed to set default thread count: %w", err)
	}
	if _, err := checksumSection.NewKey("hash_buffer", "128K"); err != nil {
		return fmt.Errorf("failed to set default hash buffer: %w", err)
	}
	if _, err := checksumSection.NewKey("mmap_threshold", "20M"); err != nil {
		return fmt.Errorf("failed to set default mmap threshold: %w", err)
	}

	outputSection, err := c.ini.NewSection("output")
	if err != nil {
		return fmt.Errorf("failed to create output section: %w", err)
	}
	if _, err := outputSection.NewKey("format", FormatDelimited); err != nil {
		return fmt.Errorf("failed to set default output format: %w", err)
	}

	walkSection, err := c.ini.NewSection("walk")
	if err != nil {
		return fmt.Errorf("failed to create walk section: %w", err)
	}
	if _, err := walkSection.NewKey("depth", "0"); err != nil {
		return fmt.Errorf("failed to set default walk depth: %w", err)
	}

	return nil
}

// Save writes the configuration to disk, creating the directory if needed
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("no config path available")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := c.ini.SaveTo(c.configPath); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// GetChecksumConfig returns the checksum pipeline configuration
func (c *Config) GetChecksumConfig() *ChecksumConfig {
	section := c.ini.Section("checksum")
	return &ChecksumConfig{
		Algorithm:     section.Key("algorithm").MustString("xxh3"),
		Threads:       section.Key("threads").MustInt(DefaultHashWorkers),
		HashBuffer:    section.Key("hash_buffer").MustString("128K"),
		MmapThreshold: section.Key("mmap_threshold").MustString("20M"),
	}
}

// GetOutputConfig returns the result emission configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	section := c.ini.Section("output")
	return &OutputConfig{
		Format: section.Key("format").MustString(FormatDelimited),
		Live:   section.Key("live").MustBool(false),
		Silent: section.Key("silent").MustBool(false),
	}
}

// GetWalkConfig returns the traversal configuration
func (c *Config) GetWalkConfig() *WalkConfig {
	section := c.ini.Section("walk")
	return &WalkConfig{
		Depth:   section.Key("depth").MustInt(0),
		Exclude: section.Key("exclude").MustString(""),
	}
}

// GetVerboseConfig returns the verbosity configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	section := c.ini.Section("verbose")
	return &VerboseConfig{
		Level: section.Key("level").MustInt(0),
		Debug: section.Key("debug").MustString(""),
	}
}

// HashOptionsFromConfig builds the file-read policy from the checksum
// section, falling back to compiled-in defaults on malformed sizes
func (c *Config) HashOptionsFromConfig() HashOptions {
	checksum := c.GetChecksumConfig()

	opts := HashOptions{}
	if size, err := ParseHumanSize(checksum.HashBuffer); err == nil {
		opts.BufferSize = size
	}
	if size, err := ParseHumanSize(checksum.MmapThreshold); err == nil {
		opts.MmapThreshold = int64(size)
	}
	return opts.withDefaults()
}
