package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/wakala/fraudguard/internal/api"
	"github.com/wakala/fraudguard/internal/config"
	"github.com/wakala/fraudguard/internal/domain"
	"github.com/wakala/fraudguard/internal/fraud"
	"github.com/wakala/fraudguard/internal/geo"
	"github.com/wakala/fraudguard/internal/ingestion"
	"github.com/wakala/fraudguard/internal/metrics"
	"github.com/wakala/fraudguard/internal/notify"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := cfg.Logger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	table := geo.DefaultTable()
	if cfg.LocationsFile != "" {
		if table, err = geo.LoadFile(cfg.LocationsFile); err != nil {
			log.Fatalf("Failed to load locations: %v", err)
		}
	}
	logger.Info("reference locations loaded", "locations", table.Names())

	st, err := openStores(ctx, cfg, m, logger)
	if err != nil {
		log.Fatalf("Failed to open stores: %v", err)
	}
	defer st.Close()

	// Seed history if the store is empty.
	count, err := st.history.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count transactions: %v", err)
	}
	if count == 0 {
		logger.Info("history is empty, seeding transactions", "seed_file", cfg.SeedFile)
		if err := seedTransactions(ctx, st.seed, cfg.SeedFile, logger); err != nil {
			logger.Warn("failed to seed transactions", "error", err)
		}
	} else {
		logger.Info("history already populated, skipping seed", "count", count)
	}

	svc := fraud.NewService(
		fraud.NewRules(cfg.BlacklistedIPs, table, cfg.Timezone),
		st.history, st.blacklist, st.locations,
		fraud.WithDefaultPhone(cfg.DefaultPhone),
		fraud.WithMetrics(m),
		fraud.WithLogger(logger),
	)
	sms := notify.NewService(newNotifier(cfg, logger), cfg.NotifyTimeout, m, logger)

	router := api.NewRouter(api.NewHandlers(svc, sms, logger), reg)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.NotifyTimeout + 15*time.Second,
	}

	logger.Info("fraud flagging service listening",
		"addr", "http://localhost:"+cfg.Port,
		"db_driver", cfg.DBDriver,
		"redis", cfg.RedisURL != "",
		"sms_sandbox", cfg.SMSSandbox,
	)
	logger.Info("endpoints",
		"routes", []string{"POST /submit", "GET /data", "GET /anomalous", "POST /send-sms", "GET /healthz", "GET /metrics"},
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("server failed", "error", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

func newNotifier(cfg config.Config, logger *slog.Logger) notify.Notifier {
	switch {
	case cfg.Twilio.Configured():
		return notify.NewTwilioNotifier(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.From, cfg.SMSSandbox)
	case cfg.SMSSandbox:
		logger.Warn("no SMS credentials, sandbox notifier only logs messages")
		return notify.NewSandboxNotifier(logger)
	default:
		logger.Warn("no SMS credentials, notifications disabled")
		return notify.DisabledNotifier{}
	}
}

type bulkAppender interface {
	BulkAppend(ctx context.Context, txns []domain.Transaction) (int, error)
}

func seedTransactions(ctx context.Context, repo bulkAppender, seedFile string, logger *slog.Logger) error {
	// Try multiple possible locations for the seed file.
	candidates := []string{seedFile}
	if !filepath.IsAbs(seedFile) {
		if exe, err := os.Executable(); err == nil {
			dir := filepath.Dir(exe)
			candidates = append(candidates,
				filepath.Join(dir, seedFile),
				filepath.Join(dir, "..", "..", seedFile),
			)
		}
	}

	var txns []domain.Transaction
	var loadErr error
	for _, path := range candidates {
		txns, loadErr = ingestion.LoadHistoryFile(path)
		if loadErr == nil {
			logger.Info("loaded seed transactions", "path", path)
			break
		}
		if !errors.Is(loadErr, fs.ErrNotExist) {
			return loadErr
		}
	}
	if loadErr != nil {
		return fmt.Errorf("could not find %s in any candidate path: %w", seedFile, loadErr)
	}

	inserted, err := repo.BulkAppend(ctx, txns)
	if err != nil {
		return fmt.Errorf("bulk append: %w", err)
	}

	logger.Info("seeded transactions", "inserted", inserted, "in_file", len(txns))
	return nil
}
