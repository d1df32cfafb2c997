package storage

import (
	"context"
	"fmt"

	"github.com/yi-nology/component_promoter/pkg/storage/local"
	"github.com/yi-nology/component_promoter/pkg/storage/memory"
	"github.com/yi-nology/component_promoter/pkg/storage/s3"
)

// Config holds storage backend configuration.
type Config struct {
	Type  string      `yaml:"type"`
	Local LocalConfig `yaml:"local"`
	S3    S3Config    `yaml:"s3"`
}

// LocalConfig holds local filesystem backend configuration.
type LocalConfig struct {
	BasePath string `yaml:"base_path"`
}

// S3Config holds S3-compatible backend configuration.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Profile   string `yaml:"profile"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	PathStyle bool   `yaml:"path_style"`
}

// New creates a storage backend based on configuration.
func New(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Type {
	case "", "s3":
		return s3.New(ctx, s3.Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			Profile:   cfg.S3.Profile,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PathStyle: cfg.S3.PathStyle,
		})

	case "local":
		return local.New(cfg.Local.BasePath)

	case "memory":
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
