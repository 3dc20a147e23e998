package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[log]
level = "debug"

[descriptors]
mt_safe = true
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("level = %q", cfg.Log.Level)
	}
	if !cfg.Descriptors.MTSafe {
		t.Error("mt_safe not applied")
	}
	if !cfg.Descriptors.CoalesceWrites {
		t.Error("coalesce_writes must keep its default")
	}
	if cfg.Log.Prefix != DefaultConfig().Log.Prefix {
		t.Errorf("prefix = %q", cfg.Log.Prefix)
	}
}

func TestParseConfigRejectsMalformedInput(t *testing.T) {
	if _, err := ParseConfig([]byte("[log\nlevel = ")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestConfigMarshalRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Descriptors.FatalAssertions = true
	cfg.Log.Level = "warn"
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	back, err := ParseConfig(data)
	if err != nil {
		t.Fatal(err)
	}
	if *back != *cfg {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, cfg)
	}
}

func TestApplyConfig(t *testing.T) {
	t.Cleanup(func() {
		SetFatalAssertions(false)
		_ = SetLogLevel("info")
	})

	cfg := DefaultConfig()
	cfg.Descriptors.FatalAssertions = true
	if err := ApplyConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if !FatalAssertions() {
		t.Fatal("fatal assertions not applied")
	}

	cfg.Log.Level = "loud"
	if err := ApplyConfig(cfg); err == nil {
		t.Fatal("expected an invalid level error")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestConfigWatcherReloads(t *testing.T) {
	t.Cleanup(func() {
		SetFatalAssertions(false)
		_ = SetLogLevel("info")
	})

	path := filepath.Join(t.TempDir(), "bindcache.toml")
	if err := os.WriteFile(path, []byte("[descriptors]\ncoalesce_writes = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan *Config, 16)
	cw, err := NewConfigWatcher(path, func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewConfigWatcher: %v", err)
	}
	defer cw.Close()

	if !cw.Current().Descriptors.CoalesceWrites {
		t.Fatal("initial config not loaded")
	}

	if err := os.WriteFile(path, []byte("[descriptors]\ncoalesce_writes = false\nfatal_assertions = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changed:
			if c.Descriptors.CoalesceWrites {
				// An intermediate write event; wait for the final content.
				continue
			}
			if !FatalAssertions() {
				t.Fatal("reloaded config was not applied")
			}
			if cw.Current().Descriptors.CoalesceWrites {
				t.Fatal("Current() not updated")
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for config reload")
		}
	}
}

func TestConfigWatcherCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindcache.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cw, err := NewConfigWatcher(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := cw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := cw.Close(); err == nil {
		t.Fatal("second Close must fail")
	}
}
