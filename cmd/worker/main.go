package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/hszk-dev/gotube/internal/config"
	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/cache"
	"github.com/hszk-dev/gotube/internal/infrastructure/postgres"
	"github.com/hszk-dev/gotube/internal/infrastructure/queue"
	"github.com/hszk-dev/gotube/internal/infrastructure/storage"
	"github.com/hszk-dev/gotube/internal/media"
	"github.com/hszk-dev/gotube/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).
		With(slog.String("component", "media-worker"))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Worker.TempDir, 0o755); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}

	// Boot under a short deadline so a missing dependency fails fast.
	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelBoot()

	pgClient, err := postgres.NewClient(bootCtx, cfg.Database.DSN(), postgres.PoolConfig{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	prometheus.MustRegister(pgClient.Collector())

	storageClient, err := storage.NewClient(bootCtx, storage.ClientConfig{
		Endpoint:       cfg.MinIO.Endpoint,
		PublicEndpoint: cfg.MinIO.PublicEndpoint,
		AccessKey:      cfg.MinIO.AccessKey,
		SecretKey:      cfg.MinIO.SecretKey,
		Bucket:         cfg.MinIO.Bucket,
		UseSSL:         cfg.MinIO.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MinIO: %w", err)
	}

	queueCfg := queue.NewClientConfig(cfg.RabbitMQ.URL())
	queueCfg.ConsumerTag = consumerTag()
	queueClient, err := queue.NewClient(bootCtx, queueCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(bootCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("dependencies ready",
		slog.String("bucket", storageClient.Bucket()),
		slog.String("queue", queueCfg.Queue),
	)

	// The worker never reads through the cache; it only evicts a video
	// after writing its probed duration.
	store := pgClient.Store()
	videos := usecase.NewCachedVideoReader(
		usecase.NewStoreVideoReader(store),
		cache.NewRedisVideoCache(redisClient),
		usecase.CachedVideoReaderConfig{CacheTTL: cfg.Cache.VideoTTL},
	)
	probeCfg := media.DefaultFFprobeConfig()
	if cfg.Worker.FFprobePath != "" {
		probeCfg.FFprobePath = cfg.Worker.FFprobePath
	}
	mediaSvc := usecase.NewMediaService(store, videos, storageClient,
		media.NewFFprobeProber(probeCfg),
		usecase.MediaServiceConfig{
			TempDir:    cfg.Worker.TempDir,
			MaxRetries: cfg.Worker.MaxRetries,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tasks run on their own context so a signal stops intake without
	// cancelling a probe halfway through its download.
	taskCtx, cancelTasks := context.WithCancel(context.Background())
	defer cancelTasks()

	handle := func(_ context.Context, task repository.MediaTask) error {
		log := logger.With(
			slog.String("kind", string(task.Kind)),
			slog.String("video_id", task.VideoID.String()),
			slog.Int("retry_count", task.RetryCount),
		)
		start := time.Now()
		if err := mediaSvc.ProcessTask(taskCtx, task); err != nil {
			log.Error("media task failed", slog.Any("error", err))
			return err
		}
		log.Info("media task done", slog.Duration("duration", time.Since(start)))
		return nil
	}

	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Worker.MetricsPort),
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("consuming media tasks")
		err := queueClient.ConsumeMediaTasks(gctx, handle)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("consumer error: %w", err)
	})
	g.Go(func() error {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down worker", slog.Duration("grace", cfg.Worker.ShutdownTimeout))
		// The task in progress gets the grace period; after that it is
		// cancelled and left unacked for the broker to redeliver.
		time.AfterFunc(cfg.Worker.ShutdownTimeout, cancelTasks)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownTimeout)
		defer cancel()
		return metricsSrv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("worker stopped")
	return err
}

func consumerTag() string {
	host, err := os.Hostname()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("media-worker-%s-%d", host, os.Getpid())
}
