package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wakala/fraudguard/internal/domain"
)

const transactionColumns = `transaction_id, amount, currency, location, card_type,
	recipient_account_number, sender_account_number, client_ip, phone,
	created_at, anomalous, fraud_reasons`

// TransactionRepo is the SQL-backed HistoryStore. Insertion order is the
// autoincrement seq column. Timestamps are stored as UTC RFC3339Nano text, so
// a stored time reads back equal under time.Equal but in the UTC location and
// without a monotonic clock reading.
type TransactionRepo struct {
	db *DB
}

func NewTransactionRepo(db *DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

func (r *TransactionRepo) Append(ctx context.Context, txn domain.Transaction) error {
	reasons, err := encodeReasons(txn.FraudReasons)
	if err != nil {
		return fmt.Errorf("encode reasons: %w", err)
	}

	_, err = r.db.ExecContext(ctx, r.db.rebind(
		`INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`),
		txn.TransactionID, txn.Amount, txn.Currency, txn.Location, txn.CardType,
		txn.RecipientAccountNumber, txn.SenderAccountNumber, txn.ClientIP, txn.Phone,
		formatTime(txn.Timestamp), txn.Anomalous, reasons,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// BulkAppend inserts txns in order inside one SQL transaction.
func (r *TransactionRepo) BulkAppend(ctx context.Context, txns []domain.Transaction) (int, error) {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w: %w", ErrStoreUnavailable, err)
	}
	defer sqlTx.Rollback()

	stmt, err := sqlTx.PrepareContext(ctx, r.db.rebind(
		`INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`),
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range txns {
		txn := &txns[i]
		reasons, err := encodeReasons(txn.FraudReasons)
		if err != nil {
			return inserted, fmt.Errorf("encode reasons %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx,
			txn.TransactionID, txn.Amount, txn.Currency, txn.Location, txn.CardType,
			txn.RecipientAccountNumber, txn.SenderAccountNumber, txn.ClientIP, txn.Phone,
			formatTime(txn.Timestamp), txn.Anomalous, reasons,
		); err != nil {
			return inserted, fmt.Errorf("insert row %d: %w", i, err)
		}
		inserted++
	}

	if err := sqlTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w: %w", ErrStoreUnavailable, err)
	}
	return inserted, nil
}

func (r *TransactionRepo) Query(ctx context.Context, cardType string) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(
		"SELECT "+transactionColumns+" FROM transactions WHERE card_type = ? ORDER BY seq"),
		cardType,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (r *TransactionRepo) All(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions ORDER BY seq",
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (r *TransactionRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return 0, fmt.Errorf("count: %w: %w", ErrStoreUnavailable, err)
	}
	return count, nil
}

// --- helpers ---

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func encodeReasons(reasons []string) (string, error) {
	if reasons == nil {
		reasons = []string{}
	}
	b, err := json.Marshal(reasons)
	return string(b), err
}

func decodeReasons(s string) ([]string, error) {
	reasons := []string{}
	if s == "" {
		return reasons, nil
	}
	if err := json.Unmarshal([]byte(s), &reasons); err != nil {
		return nil, err
	}
	return reasons, nil
}

func scanTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	txns := []domain.Transaction{}
	for rows.Next() {
		var txn domain.Transaction
		var createdAt, reasons string

		err := rows.Scan(
			&txn.TransactionID, &txn.Amount, &txn.Currency, &txn.Location, &txn.CardType,
			&txn.RecipientAccountNumber, &txn.SenderAccountNumber, &txn.ClientIP, &txn.Phone,
			&createdAt, &txn.Anomalous, &reasons,
		)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		if txn.Timestamp, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		if txn.FraudReasons, err = decodeReasons(reasons); err != nil {
			return nil, fmt.Errorf("decode reasons: %w", err)
		}

		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w: %w", ErrStoreUnavailable, err)
	}
	return txns, nil
}
