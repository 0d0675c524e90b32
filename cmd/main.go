// Package main runs the ledger API: accounts, deposits, withdrawals and transfers.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/internal/eventpkg"
	"github.com/go-petr/pet-ledger/internal/lockpkg"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/transactionservice"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	if err := config.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	logger := middleware.CreateLogger(config)

	var db *sql.DB

	if config.DBDriver != configpkg.DriverMemory {
		db, err = dbpkg.Setup(config.DBDriver, config.DBSource)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot connect to database")
		}
		defer db.Close()
	} else {
		logger.Warn().Msg("state is kept in memory and lost on restart")
	}

	locker, closeLocker := newLocker(config, logger)
	defer closeLocker()

	events, closeEvents := newPublisher(config, logger)
	defer closeEvents()

	server, err := httpserver.New(db, locker, events, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("address", config.ServerAddress).Msg("LEDGER API SERVER HAS STARTED")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("cannot start server")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("cannot shutdown server gracefully")
	}

	logger.Info().Msg("LEDGER API SERVER HAS STOPPED")
}

func newLocker(config configpkg.Config, logger zerolog.Logger) (lockpkg.Manager, func()) {
	if config.LockBackend != configpkg.LockBackendRedis {
		return lockpkg.NewMemoryManager(config.LockTimeout), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddress,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Str("address", config.RedisAddress).Msg("cannot connect to redis")
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Error().Err(err).Msg("cannot close redis client")
		}
	}

	return lockpkg.NewRedisManager(client, config.LockTimeout, config.LockExpiry), closeFn
}

func newPublisher(config configpkg.Config, logger zerolog.Logger) (transactionservice.Publisher, func()) {
	if config.AMQPURL == "" {
		return eventpkg.NopPublisher{}, func() {}
	}

	conn, err := eventpkg.DialAMQP(config.AMQPURL, config.AMQPExchange)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to message broker")
	}

	closeFn := func() {
		if err := conn.Close(); err != nil {
			logger.Error().Err(err).Msg("cannot close message broker connection")
		}
	}

	return conn, closeFn
}
