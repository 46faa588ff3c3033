package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pfin/internal/config"
	"github.com/kailas-cloud/pfin/internal/db"
	dbMemory "github.com/kailas-cloud/pfin/internal/db/memory"
	dbMongo "github.com/kailas-cloud/pfin/internal/db/mongo"
	"github.com/kailas-cloud/pfin/internal/db/seed"
	dbValkey "github.com/kailas-cloud/pfin/internal/db/valkey"
	"github.com/kailas-cloud/pfin/internal/domain/search/limit"
	logpkg "github.com/kailas-cloud/pfin/internal/logger"
	"github.com/kailas-cloud/pfin/internal/metrics"
	imagerepo "github.com/kailas-cloud/pfin/internal/repository/image"
	userrepo "github.com/kailas-cloud/pfin/internal/repository/user"
	"github.com/kailas-cloud/pfin/internal/session"
	chiTransport "github.com/kailas-cloud/pfin/internal/transport/chi"
	authuc "github.com/kailas-cloud/pfin/internal/usecase/auth"
	galleryuc "github.com/kailas-cloud/pfin/internal/usecase/gallery"
	healthuc "github.com/kailas-cloud/pfin/internal/usecase/health"
	usersuc "github.com/kailas-cloud/pfin/internal/usecase/users"
	"github.com/kailas-cloud/pfin/internal/version"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level, zap.String("service", "pfin"))
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting pfin portal",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("db", cfg.Database.Driver+"/"+cfg.Database.Name),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Portal exited", zap.Error(err))
	}
	logger.Info("Server stopped gracefully")
}

// run opens the store, builds the portal and serves until ctx is cancelled.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	salt, err := cfg.Auth.SaltBytes()
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Database.Driver, err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return err
	}
	logger.Info("Connected to database")

	handler, err := buildHandler(ctx, cfg, store, salt, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}
	return serve(ctx, srv, time.Duration(cfg.HTTP.ShutdownSec)*time.Second, logger)
}

// buildHandler selects the configured collections and wires the portal's
// services behind the middleware chain. Unknown collection names fail here
// rather than on the first request.
func buildHandler(
	ctx context.Context, cfg config.Config, store db.Store, salt []byte, logger *zap.Logger,
) (http.Handler, error) {
	images, err := store.Collection(ctx, cfg.Database.Name, cfg.Collections.Images)
	if err != nil {
		return nil, fmt.Errorf("images collection: %w", err)
	}
	users, err := store.Collection(ctx, cfg.Database.Name, cfg.Collections.Users)
	if err != nil {
		return nil, fmt.Errorf("users collection: %w", err)
	}

	metrics.RegisterPortalMetrics()

	imageRepo := imagerepo.New(images)
	userRepo := userrepo.New(users)
	limits := limit.Policy{
		Default:        cfg.Search.DefaultLimit,
		Max:            cfg.Search.MaxLimit,
		AllowUnbounded: cfg.Search.AllowUnbounded,
	}
	sessions := session.NewStore(time.Duration(cfg.Auth.SessionTTLMin) * time.Minute)
	cookie := chiTransport.CookieConfig{Name: cfg.Auth.CookieName, Secure: cfg.Auth.SecureCookie}

	server := chiTransport.NewServer(
		galleryuc.New(imageRepo, limits),
		usersuc.New(userRepo, limits),
		authuc.New(userRepo, salt),
		healthuc.New(store).WithCheck("sessions", sessions),
		sessions, cookie, logger,
	)

	r := chi.NewRouter()
	r.Use(
		jsonRecoverer(logger),
		chiMiddleware.RequestID,
		wideEventMiddleware(logger),
		chiTransport.SessionMiddleware(sessions, cookie),
		metrics.Middleware(chiTransport.RoleLabel),
	)
	server.Routes(r)
	return r, nil
}

// openStore builds the configured backend. The memory backend is seeded from
// SeedFile when one is set.
func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return dbMongo.NewStore(dbMongo.Config{
			URI:            cfg.URI,
			AppName:        "pfin",
			ConnectTimeout: time.Duration(cfg.ReadinessTimeout) * time.Second,
		})
	case config.DriverValkey:
		return dbValkey.NewStore(dbValkey.Config{
			Addrs:        cfg.Addrs,
			Username:     cfg.Username,
			Password:     cfg.Password,
			KeyPrefix:    cfg.KeyPrefix,
			ClientName:   "pfin",
			WriteTimeout: time.Duration(cfg.ReadinessTimeout) * time.Second,
		})
	case config.DriverMemory:
		store := dbMemory.NewStore()
		if cfg.SeedFile == "" {
			return store, nil
		}
		sd, err := seed.LoadFile(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		n, err := seed.Apply(ctx, store, sd)
		if err != nil {
			return nil, fmt.Errorf("apply seed: %w", err)
		}
		logger.Info("Seeded memory store", zap.String("file", cfg.SeedFile), zap.Int("documents", n))
		return store, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
