package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"banking-core/config"
	"banking-core/internal/adapter/broker"
	httpHandler "banking-core/internal/adapter/http/handler"
	memStorage "banking-core/internal/adapter/storage/memory"
	pgStorage "banking-core/internal/adapter/storage/postgres"
	redisStorage "banking-core/internal/adapter/storage/redis"
	"banking-core/internal/core/ports"
	"banking-core/internal/service"
	"banking-core/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// storage groups the port implementations for the configured driver.
type storage struct {
	accounts   ports.AccountRepository
	ledger     ports.LedgerRepository
	outbox     ports.OutboxRepository
	runs       ports.InterestRunRepository
	transactor ports.DBTransactor
	health     []ports.HealthChecker
	close      func()
}

func main() {
	configPath := os.Getenv("BANK_CONFIG_FILE")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("database", cfg.Database.Driver).
		Str("broker", cfg.Broker.Driver).
		Msg("Starting banking core")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("banking core stopped with error")
	}
	log.Info().Msg("banking core stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := openStorage(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer store.close()

	var rdb *goredis.Client
	if cfg.Broker.Driver == config.BrokerRedis {
		rdb, err = redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		store.health = append(store.health, redisStorage.NewHealthCheck(rdb))
	}

	var redisClient goredis.UniversalClient
	if rdb != nil {
		redisClient = rdb
	}
	publisher, closePublisher, err := broker.New(cfg.Broker, redisClient, log)
	if err != nil {
		return fmt.Errorf("configure publisher: %w", err)
	}
	defer func() {
		if err := closePublisher(); err != nil {
			log.Warn().Err(err).Msg("failed to close publisher")
		}
	}()
	if hc, ok := publisher.(ports.HealthChecker); ok {
		store.health = append(store.health, hc)
	}

	annualRate, err := cfg.Interest.Rate()
	if err != nil {
		return err
	}

	// This process runs the background pipeline and the ops surface. The
	// banking API embeds service.AccountService and service.TransferService
	// over the same storage and lives outside this binary.
	events := service.NewEventFactory(cfg.Topics)
	sysErrors := service.NewSystemErrorRecorder(store.outbox, store.transactor, events, log)
	interestSvc := service.NewInterestService(
		store.accounts,
		store.ledger,
		store.outbox,
		store.runs,
		store.transactor,
		events,
		sysErrors,
		cfg.Interest.PageSize,
		log,
	)
	dispatcher := service.NewOutboxDispatcher(store.outbox, publisher, service.DispatcherConfig{
		BatchSize:      cfg.Outbox.BatchSize,
		MaxRetries:     cfg.Outbox.MaxRetries,
		PublishTimeout: cfg.Outbox.PublishTimeout,
		Workers:        cfg.Outbox.Workers,
	}, log)
	sweeper := service.NewRecoverySweeper(store.outbox, log)

	workers := service.NewWorkers(dispatcher, sweeper, interestSvc, service.WorkersConfig{
		PollInterval:     cfg.Outbox.PollInterval,
		RollbackInterval: cfg.Outbox.RollbackInterval,
		StaleAfter:       cfg.Outbox.StaleAfter,
		ArchiveCron:      cfg.Outbox.ArchiveCron,
		Retention:        cfg.Outbox.Retention,
		InterestEnabled:  cfg.Interest.Enabled,
		InterestCron:     cfg.Interest.Cron,
		AnnualRate:       annualRate,
	}, log)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Outbox:         store.outbox,
		HealthCheckers: store.health,
		Mode:           cfg.Server.Mode,
		Logger:         log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return workers.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// openStorage builds the repositories for the configured database driver.
func openStorage(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*storage, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		s := memStorage.NewStore()
		log.Warn().Msg("using in-memory storage, state is lost on restart")
		return &storage{
			accounts:   memStorage.NewAccountRepo(s),
			ledger:     memStorage.NewLedgerRepo(s),
			outbox:     memStorage.NewOutboxRepo(s),
			runs:       memStorage.NewInterestRunRepo(s),
			transactor: memStorage.NewTransactor(s),
			close:      func() {},
		}, nil
	default:
		pool, err := pgStorage.NewPool(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &storage{
			accounts:   pgStorage.NewAccountRepo(pool),
			ledger:     pgStorage.NewLedgerRepo(pool),
			outbox:     pgStorage.NewOutboxRepo(pool),
			runs:       pgStorage.NewInterestRunRepo(pool),
			transactor: pgStorage.NewTransactor(pool),
			health:     []ports.HealthChecker{pgStorage.NewHealthCheck(pool)},
			close:      pool.Close,
		}, nil
	}
}
