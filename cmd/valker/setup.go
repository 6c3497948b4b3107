package main

import (
	"fmt"

	"github.com/citizenmundane/valker-app-sub000/internal/config"
	"github.com/citizenmundane/valker-app-sub000/internal/engine"
	"github.com/citizenmundane/valker-app-sub000/internal/metrics"
	"github.com/citizenmundane/valker-app-sub000/internal/storage/archive"
	"github.com/citizenmundane/valker-app-sub000/internal/store"
	"go.uber.org/zap"
)

func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func buildEngine(cfg *config.Config, log *zap.Logger) (*engine.Engine, error) {
	e := engine.New(cfg, store.NewMemoryStore(), log)

	if cfg.Metrics.Enabled {
		e.SetMetrics(metrics.NewRegistry())
	}

	if cfg.Archive.Enabled {
		var backend archive.Storage
		var err error
		switch cfg.Archive.Type {
		case "s3":
			backend, err = archive.NewS3(archive.S3Config{
				Bucket:    cfg.Archive.S3.Bucket,
				Endpoint:  cfg.Archive.S3.Endpoint,
				Region:    cfg.Archive.S3.Region,
				AccessKey: cfg.Archive.S3.AccessKey,
				SecretKey: cfg.Archive.S3.SecretKey,
				Prefix:    cfg.Archive.S3.Prefix,
			})
		default:
			backend, err = archive.NewLocalFS(cfg.Archive.Path)
		}
		if err != nil {
			return nil, fmt.Errorf("creating audit archive: %w", err)
		}
		e.SetAudit(archive.NewWriter(backend))
	}

	return e, nil
}
