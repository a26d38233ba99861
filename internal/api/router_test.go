package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakala/fraudguard/internal/domain"
	"github.com/wakala/fraudguard/internal/fraud"
	"github.com/wakala/fraudguard/internal/metrics"
	"github.com/wakala/fraudguard/internal/notify"
	"github.com/wakala/fraudguard/internal/repository"
)

// TestRouterEndToEnd drives the full stack over in-memory stores.
func TestRouterEndToEnd(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	svc := fraud.NewService(
		fraud.NewRules([]string{"203.0.113.5"}, nil, time.UTC),
		repository.NewMemoryHistory(),
		repository.NewMemoryBlacklist("9876543210"),
		repository.NewMemoryLocations(),
		fraud.WithClock(func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }),
		fraud.WithMetrics(m),
		fraud.WithLogger(logger),
	)
	sms := notify.NewService(notify.NewSandboxNotifier(logger), time.Second, m, logger)
	router := NewRouter(NewHandlers(svc, sms, logger), reg)

	submit := func(body string) submitResponse {
		req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var out submitResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	first := submit(`{"amount":100,"currency":"INR","location":"Chennai","card_type":"visa","recipient_account_number":"R-1","transaction_id":"t-1"}`)
	assert.False(t, first.Anomalous)
	assert.Empty(t, first.Reasons)

	second := submit(`{"amount":"100","currency":"INR","location":"Delhi","card_type":"visa","recipient_account_number":"9876543210","transaction_id":"t-2"}`)
	assert.True(t, second.Anomalous)
	assert.Equal(t, []string{"Blacklisted Recipient: 9876543210", "Geo Drift Detected"}, second.Reasons)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var txns []domain.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txns))
	require.Len(t, txns, 2)
	assert.Equal(t, "t-2", txns[1].TransactionID)
	assert.Equal(t, len(txns[1].FraudReasons) > 0, txns[1].Anomalous)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anomalous", nil))
	assert.Equal(t, "true\n", rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `fraudguard_evaluations_total{anomalous="true"} 1`)
	assert.Contains(t, rec.Body.String(), `fraudguard_notifications_total{outcome="simulated"} 1`)
}
