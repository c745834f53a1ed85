package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lastmile/cmd"
	httpin "lastmile/internal/adapters/in/http"
	"lastmile/internal/adapters/out/postgres"
	"lastmile/internal/adapters/out/rabbitmq"
	"lastmile/internal/adapters/out/redis"

	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := cmd.NewLogger(configs)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(configs, logger); err != nil {
		logger.Fatal("service stopped", zap.Error(err))
	}
}

func run(configs cmd.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	if configs.AutoMigrate {
		if err := postgres.Migrate(gormDB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("database schema migrated")
	}

	publisher, err := rabbitmq.Dial(rabbitmq.Config{
		URL:      configs.RabbitMQURL,
		Exchange: configs.RabbitMQExchange,
	})
	if err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("close rabbitmq publisher", zap.Error(err))
		}
	}()

	redisClient := redis.NewClient(configs.RedisAddr, configs.RedisPassword, 0)
	defer func() {
		_ = redisClient.Close()
	}()
	locations := redis.NewLocationStore(redisClient, configs.CourierLocationTTL)
	if err := locations.Ping(ctx); err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, publisher, locations, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	doc, err := httpin.LoadOpenAPI(ctx)
	if err != nil {
		return err
	}
	server := httpin.NewServer(app.HTTPHandlers(), logger.With(zap.String("component", "http"))).WithOpenAPI(doc)
	e := httpin.NewEcho(server)
	return startWebServer(ctx, e, configs.HTTPPort, logger)
}

func startWebServer(ctx context.Context, handler http.Handler, port string, logger *zap.Logger) error {
	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%s", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
