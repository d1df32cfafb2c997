package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	dal "github.com/yi-nology/component_promoter/biz/dal/db"
	"github.com/yi-nology/component_promoter/biz/service/promotion"
	"github.com/yi-nology/component_promoter/pkg/config"
	"github.com/yi-nology/component_promoter/pkg/database"
	"github.com/yi-nology/component_promoter/pkg/lock"
	"github.com/yi-nology/component_promoter/pkg/logger"
	"github.com/yi-nology/component_promoter/pkg/redis"
	"github.com/yi-nology/component_promoter/pkg/storage"
)

const (
	lockTTL            = 10 * time.Minute
	lockAcquireTimeout = 30 * time.Second
)

// environment bundles everything a command needs to run promotions:
// resolved configuration, the storage backend, the promotion service and
// the optional journal database and Redis lock.
type environment struct {
	cfg     *config.Config
	backend storage.Backend
	service *promotion.Service
	lock    *lock.PromotionLock

	db          *gorm.DB
	redisClient interface{ Close() error }
}

// buildEnvironment loads the config file, layers the command-line flags
// on top of it, and wires storage, mapping index, journal and lock.
// Everything that fails here is a configuration error: the pipeline has
// not touched a single component yet.
func buildEnvironment(ctx context.Context, cmd *cobra.Command) (*environment, error) {
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return nil, &promotion.ConfigError{Err: err}
	}
	logger.SetLevel(level)

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, &promotion.ConfigError{Err: err}
	}
	applyFlagOverrides(cfg, cmd)

	index, err := promotion.LoadMappings(
		cfg.Promotion.MappingFile,
		cfg.Promotion.SourcePrefix,
		cfg.Promotion.DestinationPrefix,
	)
	if err != nil {
		return nil, err
	}
	logger.Debugf("loaded %d mapping entries from %s", index.Len(), cfg.Promotion.MappingFile)

	backend, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return nil, &promotion.ConfigError{Err: fmt.Errorf("storage backend: %w", err)}
	}
	logger.Infof("using %s storage backend, bucket %s (%s -> %s)",
		backend.Type(), cfg.Promotion.Bucket,
		cfg.Promotion.SourcePrefix, cfg.Promotion.DestinationPrefix)

	env := &environment{cfg: cfg, backend: backend}
	env.service = promotion.NewService(backend, index, promotion.ExecutorOptions{
		Bucket:            cfg.Promotion.Bucket,
		SourcePrefix:      cfg.Promotion.SourcePrefix,
		DestinationPrefix: cfg.Promotion.DestinationPrefix,
		Workers:           cfg.Promotion.Workers,
	})

	if cfg.Database.Enabled {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, &promotion.ConfigError{Err: fmt.Errorf("open journal database: %w", err)}
		}
		if err := dal.Migrate(db); err != nil {
			return nil, &promotion.ConfigError{Err: fmt.Errorf("migrate journal database: %w", err)}
		}
		env.db = db
		env.service.WithJournal(db)
	}

	client, err := redis.NewClient(cfg.Redis)
	if err != nil {
		return nil, &promotion.ConfigError{Err: err}
	}
	if client != nil {
		env.redisClient = client
		env.lock = lock.New(client, cfg.Promotion.Bucket, lockTTL, lockAcquireTimeout)
	}

	return env, nil
}

// applyFlagOverrides copies explicitly set command-line flags over the
// file-based configuration, then mirrors the promotion values into the
// storage section so both stay consistent.
func applyFlagOverrides(cfg *config.Config, cmd *cobra.Command) {
	if cmd.Flags().Changed("bucket") || cfg.Promotion.Bucket == "" {
		cfg.Promotion.Bucket = bucket
	}
	if cmd.Flags().Changed("source-prefix") {
		cfg.Promotion.SourcePrefix = sourcePrefix
	}
	if cmd.Flags().Changed("destination-prefix") {
		cfg.Promotion.DestinationPrefix = destinationPrefix
	}
	if cmd.Flags().Changed("mapping-file") {
		cfg.Promotion.MappingFile = mappingFile
	}
	if cmd.Flags().Changed("components-file") {
		cfg.Promotion.ComponentsFile = componentsFile
	}

	cfg.Storage.S3.Bucket = cfg.Promotion.Bucket
	if cmd.Flags().Changed("region") {
		cfg.Storage.S3.Region = region
	}
	if cmd.Flags().Changed("profile") {
		cfg.Storage.S3.Profile = profile
	}
}

// acquireLock takes the per-bucket promotion lock when Redis is
// configured. The returned release function is a no-op otherwise.
func (e *environment) acquireLock(ctx context.Context) (func(), error) {
	if e.lock == nil {
		return func() {}, nil
	}
	lockID, err := e.lock.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire promotion lock: %w", err)
	}
	logger.Debugf("acquired promotion lock %s", lockID)
	return func() {
		if err := e.lock.Release(context.Background(), lockID); err != nil {
			logger.Errorf("release promotion lock: %v", err)
		}
	}, nil
}

// Close releases long-lived resources held by the environment.
func (e *environment) Close() {
	if e.redisClient != nil {
		_ = e.redisClient.Close()
	}
	if e.db != nil {
		if sqlDB, err := e.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
