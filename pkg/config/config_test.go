package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"bildesk/pkg/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Separator != config.DefaultSeparator {
		t.Fatalf("separator = %q, want %q", cfg.Separator, config.DefaultSeparator)
	}
	if cfg.Listen != "localhost:12800" {
		t.Fatalf("listen = %q", cfg.Listen)
	}
	if _, ok := cfg.Thumbnails["Album"]; !ok {
		t.Fatal("expected default Album thumbnail options")
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	body := `
in_dirs = ["/photos"]
separator = "/"
listen = "localhost:9999"

[thumbnails.Album]
y = 480
quality = 90
`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(p)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Separator != "/" {
		t.Fatalf("separator = %q, want /", cfg.Separator)
	}
	if len(cfg.InDirs) != 1 || cfg.InDirs[0] != "/photos" {
		t.Fatalf("in_dirs = %v", cfg.InDirs)
	}
	if cfg.Listen != "localhost:9999" {
		t.Fatalf("listen = %q", cfg.Listen)
	}
	if cfg.Thumbnails["Album"].Y != 480 {
		t.Fatalf("Album thumb Y = %d, want 480", cfg.Thumbnails["Album"].Y)
	}
}

func TestLoadRejectsEmptySeparator(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(p, []byte(`separator = ""`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(p); err == nil {
		t.Fatal("expected error for empty separator")
	}
}

func TestLoadRejectsMultiCharSeparator(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(p, []byte(`separator = "||"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(p); err == nil {
		t.Fatal("expected error for multi-character separator")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := config.Default()
	cfg.InDirs = []string{"/a", "/b"}
	cfg.Separator = "/"
	if err := cfg.Save(p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := config.Load(p)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got.Separator != "/" {
		t.Fatalf("separator = %q, want /", got.Separator)
	}
	if len(got.InDirs) != 2 {
		t.Fatalf("in_dirs = %v", got.InDirs)
	}
}
