package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/wakala/fraudguard/internal/config"
	"github.com/wakala/fraudguard/internal/metrics"
	"github.com/wakala/fraudguard/internal/repository"
)

// stores holds the fallback-wrapped stores handed to the service, plus the
// backing history that seed data is written to.
type stores struct {
	history   *repository.FallbackHistory
	blacklist *repository.FallbackBlacklist
	locations *repository.FallbackLocations
	seed      bulkAppender

	db    *repository.DB
	redis *redis.Client
}

func openStores(ctx context.Context, cfg config.Config, m *metrics.Metrics, logger *slog.Logger) (*stores, error) {
	st := &stores{}

	var (
		history   repository.HistoryStore
		blacklist repository.BlacklistStore
	)

	switch cfg.DBDriver {
	case config.DriverMemory:
		mem := repository.NewMemoryHistory()
		history, st.seed = mem, mem
		logger.Info("using in-memory stores")
	default:
		dialect := repository.DialectSQLite
		if cfg.DBDriver == config.DriverPostgres {
			dialect = repository.DialectPostgres
		}
		db, err := repository.InitDB(dialect, cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("init %s database: %w", dialect, err)
		}
		st.db = db
		repo := repository.NewTransactionRepo(db)
		history, st.seed = repo, repo
		blacklist = repository.NewBlacklistRepo(db)
		logger.Info("database ready", "dialect", dialect)
	}

	var locations repository.LocationStore
	client, err := repository.OpenRedis(ctx, cfg.RedisURL)
	if err != nil {
		// Last-known locations are not durable state; run on memory instead.
		logger.Warn("redis unavailable, last known locations kept in memory", "error", err)
	} else if client != nil {
		st.redis = client
		locations = repository.NewRedisLocations(client)
		logger.Info("last known locations stored in redis")
	}

	st.history = repository.NewFallbackHistory(history, repository.NewMemoryHistory(), m, logger)
	st.blacklist = repository.NewFallbackBlacklist(blacklist, repository.NewMemoryBlacklist(cfg.SeedBlacklist...), m, logger)
	st.locations = repository.NewFallbackLocations(locations, repository.NewMemoryLocations(), m, logger)
	return st, nil
}

func (st *stores) Close() {
	if st.redis != nil {
		st.redis.Close()
	}
	if st.db != nil {
		st.db.Close()
	}
}
