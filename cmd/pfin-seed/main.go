// Command pfin-seed loads a YAML fixture into the configured document store.
//
//	pfin-seed -file config/seed.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pfin/internal/config"
	"github.com/kailas-cloud/pfin/internal/db"
	dbMongo "github.com/kailas-cloud/pfin/internal/db/mongo"
	"github.com/kailas-cloud/pfin/internal/db/seed"
	dbValkey "github.com/kailas-cloud/pfin/internal/db/valkey"
	logpkg "github.com/kailas-cloud/pfin/internal/logger"
)

// writableStore is a backend that can be seeded.
type writableStore interface {
	db.Store
	db.Writer
}

func main() {
	_ = godotenv.Load()

	file := flag.String("file", "", "seed file (default: database.seed_file from config)")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level, zap.String("service", "pfin-seed"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	path := *file
	if path == "" {
		path = cfg.Database.SeedFile
	}
	if path == "" {
		logger.Fatal("No seed file given")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, cfg.Database, path, logger); err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.DatabaseConfig, path string, logger *zap.Logger) error {
	sd, err := seed.LoadFile(path)
	if err != nil {
		return err
	}

	store, err := openWriter(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	n, err := seed.Apply(ctx, store, sd)
	if err != nil {
		return err
	}
	logger.Info("Seed applied",
		zap.String("file", path),
		zap.String("driver", cfg.Driver),
		zap.Int("documents", n),
	)
	return nil
}

func openWriter(cfg config.DatabaseConfig) (writableStore, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		s, err := dbMongo.NewStore(dbMongo.Config{URI: cfg.URI, AppName: "pfin-seed"})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverValkey:
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:      cfg.Addrs,
			Username:   cfg.Username,
			Password:   cfg.Password,
			KeyPrefix:  cfg.KeyPrefix,
			ClientName: "pfin-seed",
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		// The memory store lives inside the portal process and seeds itself.
		return nil, fmt.Errorf("driver %q cannot be seeded externally", cfg.Driver)
	}
}
