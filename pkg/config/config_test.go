package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load("non-existent-config.yaml")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	assertDefaultConfig(t, cfg)
}

func TestLoadWithPartialConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
promotion:
  bucket: "other-bucket"
  workers: 8
storage:
  type: "local"
  local:
    base_path: "data/objects"
database:
  enabled: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Promotion.Bucket != "other-bucket" {
		t.Fatalf("expected bucket other-bucket, got %s", cfg.Promotion.Bucket)
	}
	if cfg.Promotion.Workers != 8 {
		t.Fatalf("expected 8 workers, got %d", cfg.Promotion.Workers)
	}
	if cfg.Promotion.SourcePrefix != "dev" || cfg.Promotion.DestinationPrefix != "stage" {
		t.Fatalf("expected default prefixes, got %s -> %s",
			cfg.Promotion.SourcePrefix, cfg.Promotion.DestinationPrefix)
	}
	if cfg.Storage.Type != "local" {
		t.Fatalf("expected storage type local, got %s", cfg.Storage.Type)
	}
	if !cfg.Database.Enabled {
		t.Fatalf("expected journal database enabled")
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected default driver sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Database.SQLite.Path != "data/promotions.db" {
		t.Fatalf("expected default sqlite path, got %s", cfg.Database.SQLite.Path)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
promotion:
  bucket: "b"
unknown_section:
  key: value
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown fields to fail the load")
	}
}

func assertDefaultConfig(t *testing.T, cfg *Config) {
	t.Helper()
	if cfg == nil {
		t.Fatalf("config is nil")
	}
	if cfg.Promotion.Bucket != DefaultBucket {
		t.Fatalf("expected default bucket %s, got %s", DefaultBucket, cfg.Promotion.Bucket)
	}
	if cfg.Promotion.SourcePrefix != "dev" {
		t.Fatalf("expected default source prefix dev, got %s", cfg.Promotion.SourcePrefix)
	}
	if cfg.Promotion.DestinationPrefix != "stage" {
		t.Fatalf("expected default destination prefix stage, got %s", cfg.Promotion.DestinationPrefix)
	}
	if cfg.Promotion.MappingFile != DefaultMappingFile {
		t.Fatalf("expected default mapping file, got %s", cfg.Promotion.MappingFile)
	}
	if cfg.Promotion.ComponentsFile != DefaultComponentsFile {
		t.Fatalf("expected default components file, got %s", cfg.Promotion.ComponentsFile)
	}
	if cfg.Promotion.Workers != 4 {
		t.Fatalf("expected default workers 4, got %d", cfg.Promotion.Workers)
	}
	if cfg.Storage.Type != "s3" {
		t.Fatalf("expected default storage type s3, got %s", cfg.Storage.Type)
	}
	if cfg.Database.Enabled {
		t.Fatalf("expected journal database disabled by default")
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("expected default address :8080, got %s", cfg.Server.Address)
	}
}
