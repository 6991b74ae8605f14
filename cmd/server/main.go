package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/rzajanckauskas/voice-web/internal/app"
	"github.com/rzajanckauskas/voice-web/internal/cache"
	"github.com/rzajanckauskas/voice-web/internal/config"
	"github.com/rzajanckauskas/voice-web/internal/database"
	"github.com/rzajanckauskas/voice-web/internal/logging"
	"github.com/rzajanckauskas/voice-web/internal/server"
	"github.com/rzajanckauskas/voice-web/internal/storage"
	"github.com/rzajanckauskas/voice-web/internal/transcode"
)

const statsCacheTTL = 10 * time.Minute

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

// setupRedis connects to Redis when configured. The stats cache is optional;
// without Redis every aggregate read goes straight to PostgreSQL.
func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	if cfg.RedisURL == "" {
		slog.Info("Redis not configured, stats caching disabled")
		return nil
	}

	client, err := cache.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func setupStorage(ctx context.Context, cfg *config.Config) storage.Backend {
	switch cfg.StorageBackend {
	case config.BackendS3:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			slog.Error("Failed to load AWS configuration", "error", err)
			os.Exit(1)
		}
		client := s3.NewFromConfig(awsCfg)
		presigner := s3.NewPresignClient(client)
		return storage.NewS3(client, presigner, cfg.S3Bucket, cfg.S3Prefix, cfg.SignedURLTTL)
	default:
		store, err := storage.NewLocal(cfg.StorageRoot, cfg.StreamBaseURL)
		if err != nil {
			slog.Error("Failed to initialise local storage", "root", cfg.StorageRoot, "error", err)
			os.Exit(1)
		}
		return store
	}
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "storage", cfg.StorageBackend)

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(context.Background(), cfg)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	var statsCache *cache.Cache
	if redisClient != nil {
		statsCache = cache.New(redisClient, statsCacheTTL)
	}

	store := setupStorage(context.Background(), cfg)
	transcoder := transcode.NewFFmpeg(cfg.FFmpegPath, cfg.TranscodeWorkers)
	clipRepo := database.NewClipRepo(pool)

	appSvc := app.NewService(clipRepo, store, transcoder, statsCache, clock, cfg.MaxUploadBytes)

	srv := server.NewServer(cfg, appSvc, store, pool, redisClient)
	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
