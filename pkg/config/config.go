package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yi-nology/component_promoter/pkg/storage"
)

// Default file locations, overridable per flag or config file.
const (
	DefaultBucket         = "krembo-components"
	DefaultMappingFile    = "config/components_mapping.json"
	DefaultComponentsFile = "config/components_to_replace.json"
)

// Config captures tool level configuration loaded from config.yaml.
// Command-line flags override the promotion and storage sections.
type Config struct {
	Promotion PromotionConfig `yaml:"promotion"`
	Storage   storage.Config  `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Server    ServerConfig    `yaml:"server"`
}

// PromotionConfig defines the promotion defaults: which bucket, which
// environment prefixes, where the mapping and component lists live, and
// how many components are processed concurrently.
type PromotionConfig struct {
	Bucket            string `yaml:"bucket"`
	SourcePrefix      string `yaml:"source_prefix"`
	DestinationPrefix string `yaml:"destination_prefix"`
	MappingFile       string `yaml:"mapping_file"`
	ComponentsFile    string `yaml:"components_file"`
	Workers           int    `yaml:"workers"`
}

// DatabaseConfig defines the optional promotion journal backend.
type DatabaseConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Driver   string         `yaml:"driver"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig contains SQLite specific settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// MySQLConfig contains MySQL specific connection details.
type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

// PostgresConfig contains PostgreSQL specific connection details.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// RedisConfig defines Redis connection settings for the promotion lock.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ServerConfig defines HTTP server options for serve mode.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// Load reads a YAML configuration file from the provided path.
// It searches in the current working directory first, then next to the
// binary executable, and falls back to defaults when the file is absent.
func Load(name string) (*Config, error) {
	cfg := defaultConfig()

	configPath := findConfigFile(name)
	if configPath == "" {
		return cfg, nil
	}

	log.Printf("Loading config from: %s", configPath)
	f, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	var parsed Config
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&parsed)
	return &parsed, nil
}

func defaultConfig() *Config {
	return &Config{
		Promotion: PromotionConfig{
			Bucket:            DefaultBucket,
			SourcePrefix:      "dev",
			DestinationPrefix: "stage",
			MappingFile:       DefaultMappingFile,
			ComponentsFile:    DefaultComponentsFile,
			Workers:           4,
		},
		Storage: storage.Config{
			Type: "s3",
		},
		Database: DatabaseConfig{
			Enabled: false,
			Driver:  "sqlite",
			SQLite: SQLiteConfig{
				Path: "data/promotions.db",
			},
		},
		Server: ServerConfig{
			Address: ":8080",
		},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Promotion.Bucket == "" {
		cfg.Promotion.Bucket = DefaultBucket
	}
	if cfg.Promotion.SourcePrefix == "" {
		cfg.Promotion.SourcePrefix = "dev"
	}
	if cfg.Promotion.DestinationPrefix == "" {
		cfg.Promotion.DestinationPrefix = "stage"
	}
	if cfg.Promotion.MappingFile == "" {
		cfg.Promotion.MappingFile = DefaultMappingFile
	}
	if cfg.Promotion.ComponentsFile == "" {
		cfg.Promotion.ComponentsFile = DefaultComponentsFile
	}
	if cfg.Promotion.Workers <= 0 {
		cfg.Promotion.Workers = 4
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "s3"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.SQLite.Path == "" {
		cfg.Database.SQLite.Path = "data/promotions.db"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
}

// findConfigFile searches for a config file in the current directory
// first, then next to the binary executable. Returns the full path or
// empty string.
func findConfigFile(name string) string {
	if _, err := os.Stat(name); err == nil {
		abs, _ := filepath.Abs(name)
		return abs
	}

	exe, err := os.Executable()
	if err == nil {
		candidate := filepath.Join(filepath.Dir(exe), name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
