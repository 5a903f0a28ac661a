package paymentrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/holkiv/topupbot/internal/domain"
	"github.com/holkiv/topupbot/internal/pg"
)

var (
	ErrDuplicatePaymentID = errors.New("payment id already exists")
	ErrPaymentNotFound    = errors.New("payment not found")
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, userID int64, amount int64, paymentID string) error {
	query := `
        INSERT INTO payments (user_id, amount, payment_id, status, created_at)
        VALUES ($1, $2, $3, 'pending', $4)
    `
	_, err := r.db.Exec(ctx, query, userID, amount, paymentID, time.Now())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicatePaymentID
		}
		zap.L().Error("can't create payment", zap.String("payment_id", paymentID), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) Find(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `
        SELECT id, user_id, amount, payment_id, status, proof_path, created_at
        FROM payments
        WHERE payment_id = $1
    `
	row := r.db.QueryRow(ctx, query, paymentID)

	var payment domain.Payment
	err := row.Scan(&payment.ID, &payment.UserID, &payment.Amount, &payment.PaymentID, &payment.Status, &payment.ProofPath, &payment.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find payment", zap.String("payment_id", paymentID), zap.Error(err))
		return nil, err
	}
	return &payment, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, paymentID, status, proofPath string) error {
	query := `
        UPDATE payments
        SET status = $1, proof_path = $2
        WHERE payment_id = $3
    `
	tag, err := r.db.Exec(ctx, query, status, proofPath, paymentID)
	if err != nil {
		zap.L().Error("can't update payment status", zap.String("payment_id", paymentID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// TransitionToTerminal moves an open payment to a terminal status. It reports
// false without error when the payment is unknown or already terminal, so a
// duplicate admin decision is a no-op. Run inside a transaction so exactly
// one racing caller wins the row.
func (r *Repository) TransitionToTerminal(ctx context.Context, paymentID, status string) (bool, error) {
	query := `
        UPDATE payments
        SET status = $1
        WHERE payment_id = $2 AND status IN ('pending', 'needs_review')
    `
	tag, err := r.db.Exec(ctx, query, status, paymentID)
	if err != nil {
		zap.L().Error("can't transition payment",
			zap.String("payment_id", paymentID),
			zap.String("status", status),
			zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// FindOpenByUser returns the user's payments still awaiting payment or
// review, newest first. The head of the list is the one an inbound proof
// image is correlated with.
func (r *Repository) FindOpenByUser(ctx context.Context, userID int64) ([]domain.Payment, error) {
	query := `
        SELECT id, user_id, amount, payment_id, status, proof_path, created_at
        FROM payments
        WHERE user_id = $1 AND status IN ('pending', 'needs_review')
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get open payments", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanPayments(rows)
}

// FindOpen returns pending payments across all users, oldest first. Used to
// re-arm reminder timers after a restart.
func (r *Repository) FindOpen(ctx context.Context, limit int) ([]domain.Payment, error) {
	query := `
        SELECT id, user_id, amount, payment_id, status, proof_path, created_at
        FROM payments
        WHERE status = 'pending'
        ORDER BY created_at ASC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		zap.L().Error("can't get open payments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanPayments(rows)
}

// FindTerminalSince returns recently decided payments for the archive audit.
func (r *Repository) FindTerminalSince(ctx context.Context, since time.Time, limit int) ([]domain.Payment, error) {
	query := `
        SELECT id, user_id, amount, payment_id, status, proof_path, created_at
        FROM payments
        WHERE status IN ('confirmed', 'rejected') AND created_at >= $1
        ORDER BY created_at ASC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, since, limit)
	if err != nil {
		zap.L().Error("can't get terminal payments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanPayments(rows)
}

func scanPayments(rows pgx.Rows) ([]domain.Payment, error) {
	var payments []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		err := rows.Scan(&payment.ID, &payment.UserID, &payment.Amount, &payment.PaymentID, &payment.Status, &payment.ProofPath, &payment.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan payment row", zap.Error(err))
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, nil
}
