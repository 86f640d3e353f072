package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"intake/internal/audit"
	auditkafka "intake/internal/audit/kafka"
	httpapi "intake/internal/http"
	"intake/internal/intake"
	"intake/internal/intake/service"
	"intake/internal/intake/store"
	memorystore "intake/internal/intake/store/memory"
	postgresstore "intake/internal/intake/store/postgres"
	redisstore "intake/internal/intake/store/redis"
	"intake/internal/platform/config"
	"intake/internal/platform/httpserver"
	"intake/internal/platform/logger"
	platformredis "intake/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New()

	clients, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer closeStore()

	g, ctx := errgroup.WithContext(ctx)

	var publisher service.AuditPublisher
	switch {
	case len(cfg.Kafka.Brokers) > 0:
		kafkaPublisher, err := auditkafka.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return fmt.Errorf("kafka: %w", err)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info("audit events publishing to kafka", "topic", cfg.Kafka.Topic)
	default:
		sink := audit.NewChannelSink(256)
		worker := audit.NewWorker(audit.NewInMemoryStore(), sink.Inbox())
		g.Go(func() error {
			if err := worker.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		publisher = sink
	}

	svc := intake.NewService(clients,
		intake.WithLogger(log),
		intake.WithMetrics(intake.NewMetrics()),
		intake.WithAuditPublisher(publisher),
	)
	router := httpapi.NewRouter(intake.NewHandler(svc, log), clients, log)
	server := httpserver.New(cfg.Addr, router)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr, "storage", cfg.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func buildStore(ctx context.Context, cfg config.Config) (store.ClientStore, func(), error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		s := postgresstore.New(db)
		if err := s.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, func() { db.Close() }, nil
	case config.StorageRedis:
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		if client == nil {
			return nil, nil, errors.New("redis storage selected but INTAKE_REDIS_URL is empty")
		}
		return redisstore.New(client.Client), func() { client.Close() }, nil
	case config.StorageMemory:
		return memorystore.New(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
