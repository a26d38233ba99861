package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/wakala/fraudguard/internal/domain"
	"github.com/wakala/fraudguard/internal/fraud"
	"github.com/wakala/fraudguard/internal/notify"
)

const maxBodyBytes = 1 << 20

// FraudService evaluates and lists transactions.
type FraudService interface {
	Submit(ctx context.Context, sub fraud.Submission) (domain.Transaction, error)
	Transactions(ctx context.Context) ([]domain.Transaction, error)
	Latest(ctx context.Context) (*domain.Transaction, error)
}

// Notifier sends SMS messages.
type Notifier interface {
	Send(ctx context.Context, phone, message string) (notify.Result, error)
	NotifyVerdict(ctx context.Context, txn domain.Transaction) (notify.Result, error)
}

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	fraud  FraudService
	sms    Notifier
	logger *slog.Logger
}

func NewHandlers(svc FraudService, sms Notifier, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{fraud: svc, sms: sms, logger: logger}
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// clientIP is the first X-Forwarded-For hop when present, otherwise the
// peer address without its port.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// --- Submit ---

func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	req, err := decodeSubmitRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub := req.toSubmission()
	sub.ClientIP = clientIP(r)

	txn, err := h.fraud.Submit(ctx, sub)
	if err != nil {
		var verr *fraud.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.logger.ErrorContext(ctx, "transaction submission failed",
			"transaction_id", sub.TransactionID,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success:       true,
		Anomalous:     txn.Anomalous,
		Reasons:       txn.FraudReasons,
		TransactionID: txn.TransactionID,
	})
}

// --- Data ---

func (h *Handlers) Data(w http.ResponseWriter, r *http.Request) {
	txns, err := h.fraud.Transactions(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list transactions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

// --- Anomalous ---

// Anomalous reports whether the latest transaction was flagged and sends the
// matching verdict SMS before responding. A delivery failure does not change
// the response.
func (h *Handlers) Anomalous(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	latest, err := h.fraud.Latest(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "load latest transaction failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if latest == nil {
		writeJSON(w, http.StatusOK, false)
		return
	}

	if _, err := h.sms.NotifyVerdict(ctx, *latest); err != nil {
		h.logger.WarnContext(ctx, "verdict notification not delivered",
			"transaction_id", latest.TransactionID,
			"error", err,
		)
	}

	writeJSON(w, http.StatusOK, latest.Anomalous)
}

// --- SendSMS ---

func (h *Handlers) SendSMS(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	req, err := decodeSMSRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Phone == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "Phone and message are required")
		return
	}

	res, err := h.sms.Send(r.Context(), req.Phone, req.Message)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, smsResponse{Status: "error", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, smsResponse{Status: "success", SID: res.ReferenceID})
}

// --- Health ---

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
