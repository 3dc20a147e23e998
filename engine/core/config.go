package core

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LogConfig struct {
	Level        string `toml:"level"`
	Prefix       string `toml:"prefix"`
	ReportCaller bool   `toml:"report_caller"`
}

type DescriptorConfig struct {
	// Serialize every public descriptor set call behind a mutex, unless the
	// set overrides it at creation time.
	MTSafe bool `toml:"mt_safe"`
	// Merge contiguous dirty array elements into one write at bake time.
	CoalesceWrites bool `toml:"coalesce_writes"`
	// Panic instead of logging when a caller violates a usage contract.
	FatalAssertions bool `toml:"fatal_assertions"`
}

type Config struct {
	Log         LogConfig        `toml:"log"`
	Descriptors DescriptorConfig `toml:"descriptors"`
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:        "info",
			Prefix:       "Bindcache 🧷 ",
			ReportCaller: true,
		},
		Descriptors: DescriptorConfig{
			MTSafe:          false,
			CoalesceWrites:  true,
			FatalAssertions: false,
		},
	}
}

// ParseConfig decodes a TOML document on top of the defaults, so keys missing
// from the document keep their default values.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ApplyConfig pushes the process-wide parts of cfg (logging and assertion
// mode) into the running core.
func ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	if cfg.Log.Level != "" {
		if err := SetLogLevel(cfg.Log.Level); err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
		}
	}
	if cfg.Log.Prefix != "" {
		SetLogPrefix(cfg.Log.Prefix)
	}
	SetLogReportCaller(cfg.Log.ReportCaller)
	SetFatalAssertions(cfg.Descriptors.FatalAssertions)
	return nil
}

func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
