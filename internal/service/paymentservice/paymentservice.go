package paymentservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/holkiv/topupbot/internal/archive"
	"github.com/holkiv/topupbot/internal/domain"
	"github.com/holkiv/topupbot/internal/pg"
	paymentrepo "github.com/holkiv/topupbot/internal/repo/payment-repo"
)

const (
	MinTopUpAmount = 50
	MaxTopUpAmount = 15000

	resumeLimit = 1000
)

var (
	ErrInvalidAmount = errors.New("top-up amount must be between 50 and 15000")
	ErrNoOpenPayment = errors.New("no payment awaiting proof")
)

type PaymentRepo interface {
	Create(ctx context.Context, userID int64, amount int64, paymentID string) error
	Find(ctx context.Context, paymentID string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, paymentID, status, proofPath string) error
	TransitionToTerminal(ctx context.Context, paymentID, status string) (bool, error)
	FindOpenByUser(ctx context.Context, userID int64) ([]domain.Payment, error)
	FindOpen(ctx context.Context, limit int) ([]domain.Payment, error)
}

type Ledger interface {
	Settle(ctx context.Context, userID int64, amount int64, description string) error
}

type ProofArchive interface {
	Store(paymentID string, data []byte) (string, error)
	Move(paymentID string, from, to archive.Bucket) error
}

// Action is an inline decision button attached to an outbound photo.
type Action struct {
	Label string
	Data  string
}

// Notifier is the outbound half of the messaging gateway. The engine never
// depends on anything else from the bot framework.
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string, actions ...Action) error
}

type LinkBuilder interface {
	Build(paymentID string, amount int64) (string, error)
}

type TopUp struct {
	PaymentID string
	Amount    int64
	URL       string
}

type Service struct {
	payments    PaymentRepo
	ledger      Ledger
	archive     ProofArchive
	notifier    Notifier
	links       LinkBuilder
	txManager   pg.TXManager
	reminders   *reminderSet
	adminChatID int64
	remindAfter time.Duration

	now   func() time.Time
	newID func(userID int64) string
}

func New(payments PaymentRepo, ledger Ledger, proofs ProofArchive, notifier Notifier, links LinkBuilder, txManager pg.TXManager, adminChatID int64, remindAfter time.Duration) *Service {
	return &Service{
		payments:    payments,
		ledger:      ledger,
		archive:     proofs,
		notifier:    notifier,
		links:       links,
		txManager:   txManager,
		reminders:   newReminderSet(),
		adminChatID: adminChatID,
		remindAfter: remindAfter,
		now:         time.Now,
		newID:       newPaymentID,
	}
}

func newPaymentID(userID int64) string {
	// Nanosecond resolution keeps ids unique even for rapid repeat requests.
	return fmt.Sprintf("pay_%d_%d", time.Now().UnixNano(), userID)
}

// RequestTopUp validates the amount, creates a pending payment and returns
// the payment link. A reminder fires after the configured window unless the
// payment leaves the pending status first.
func (s *Service) RequestTopUp(ctx context.Context, userID int64, amount int64) (*TopUp, error) {
	if amount < MinTopUpAmount || amount > MaxTopUpAmount {
		return nil, ErrInvalidAmount
	}

	paymentID := s.newID(userID)
	err := s.payments.Create(ctx, userID, amount, paymentID)
	if errors.Is(err, paymentrepo.ErrDuplicatePaymentID) {
		paymentID = s.newID(userID)
		err = s.payments.Create(ctx, userID, amount, paymentID)
	}
	if err != nil {
		zap.L().Error("can't create payment",
			zap.Int64("user_id", userID),
			zap.Int64("amount", amount),
			zap.Error(err))
		return nil, err
	}

	url, err := s.links.Build(paymentID, amount)
	if err != nil {
		zap.L().Error("can't build payment link", zap.String("payment_id", paymentID), zap.Error(err))
		return nil, err
	}

	s.scheduleReminder(paymentID, userID, s.remindAfter)

	return &TopUp{PaymentID: paymentID, Amount: amount, URL: url}, nil
}

func (s *Service) scheduleReminder(paymentID string, userID int64, after time.Duration) {
	s.reminders.Schedule(paymentID, after, func() {
		s.remind(paymentID, userID)
	})
}

func (s *Service) remind(paymentID string, userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	payment, err := s.payments.Find(ctx, paymentID)
	if err != nil || payment == nil || payment.Status != domain.PaymentStatusPending {
		return
	}

	text := "⏳ No funds received within 5 minutes.\n" +
		"If you already paid, attach a screenshot of the receipt (date, amount and recipient must be visible)."
	if err := s.notifier.SendMessage(ctx, userID, text); err != nil {
		zap.L().Error("can't send payment reminder", zap.String("payment_id", paymentID), zap.Error(err))
	}
}

// ResumeReminders re-arms reminder timers for payments that were still
// pending when the process last stopped.
func (s *Service) ResumeReminders(ctx context.Context) error {
	open, err := s.payments.FindOpen(ctx, resumeLimit)
	if err != nil {
		return err
	}

	for _, payment := range open {
		after := payment.CreatedAt.Add(s.remindAfter).Sub(s.now())
		if after < 0 {
			after = time.Second
		}
		s.scheduleReminder(payment.PaymentID, payment.UserID, after)
	}

	if len(open) > 0 {
		zap.L().Info("re-armed payment reminders", zap.Int("count", len(open)))
	}
	return nil
}

// SubmitProof attaches a proof image to the user's most recent open payment,
// moves it to review and notifies the admin with confirm/reject actions.
// It returns the payment the proof was attached to and whether the match was
// ambiguous (more than one open payment).
func (s *Service) SubmitProof(ctx context.Context, userID int64, username, fileID string, data []byte) (*domain.Payment, bool, error) {
	open, err := s.payments.FindOpenByUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if len(open) == 0 {
		return nil, false, ErrNoOpenPayment
	}

	payment := open[0]
	ambiguous := len(open) > 1
	if ambiguous {
		zap.L().Warn("proof correlation is ambiguous",
			zap.Int64("user_id", userID),
			zap.String("payment_id", payment.PaymentID),
			zap.Int("open_payments", len(open)))
	}

	path, err := s.archive.Store(payment.PaymentID, data)
	if err != nil {
		return nil, false, err
	}

	if err := s.payments.UpdateStatus(ctx, payment.PaymentID, domain.PaymentStatusNeedsReview, path); err != nil {
		return nil, false, err
	}

	caption := fmt.Sprintf("🚨 Receipt needs review!\nPayment: %s\nUser: @%s (ID: %d)\nAmount: %d₽",
		payment.PaymentID, username, userID, payment.Amount)
	err = s.notifier.SendPhoto(ctx, s.adminChatID, fileID, caption,
		Action{Label: "✅ Confirm", Data: "confirm_" + payment.PaymentID},
		Action{Label: "❌ Reject", Data: "reject_" + payment.PaymentID},
	)
	if err != nil {
		zap.L().Error("can't notify admin about proof",
			zap.String("payment_id", payment.PaymentID),
			zap.Error(err))
		return nil, false, err
	}

	return &payment, ambiguous, nil
}

// Confirm settles an open payment. The status transition and the balance
// credit happen in one transaction, so a payment is never confirmed without
// its credit and never credited twice. Unknown or already decided payments
// are a no-op and report false.
func (s *Service) Confirm(ctx context.Context, paymentID string) (bool, error) {
	payment, err := s.payments.Find(ctx, paymentID)
	if err != nil {
		return false, err
	}
	if payment == nil {
		return false, nil
	}

	var won bool
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		won, err = s.payments.TransitionToTerminal(ctx, paymentID, domain.PaymentStatusConfirmed)
		if err != nil {
			return err
		}
		if !won {
			return nil
		}
		description := fmt.Sprintf("Balance top-up of %d₽", payment.Amount)
		return s.ledger.Settle(ctx, payment.UserID, payment.Amount, description)
	})
	if err != nil {
		zap.L().Error("confirmation failed",
			zap.String("payment_id", paymentID),
			zap.Int64("user_id", payment.UserID),
			zap.Error(err))
		return false, err
	}
	if !won {
		return false, nil
	}

	s.reminders.Cancel(paymentID)

	// The payment stays confirmed even if the proof move fails; the audit
	// sweep reports the mismatch for manual reconciliation.
	if err := s.archive.Move(paymentID, archive.BucketPending, archive.BucketConfirmed); err != nil {
		zap.L().Error("proof not moved after confirmation", zap.String("payment_id", paymentID), zap.Error(err))
	}

	text := fmt.Sprintf("✅ Your payment is confirmed! %d₽ credited to your balance.", payment.Amount)
	if err := s.notifier.SendMessage(ctx, payment.UserID, text); err != nil {
		zap.L().Error("can't notify user about confirmation", zap.String("payment_id", paymentID), zap.Error(err))
	}

	return true, nil
}

// Reject closes an open payment without touching the balance. Same no-op
// semantics as Confirm for unknown or already decided payments.
func (s *Service) Reject(ctx context.Context, paymentID string) (bool, error) {
	payment, err := s.payments.Find(ctx, paymentID)
	if err != nil {
		return false, err
	}
	if payment == nil {
		return false, nil
	}

	won, err := s.payments.TransitionToTerminal(ctx, paymentID, domain.PaymentStatusRejected)
	if err != nil {
		return false, err
	}
	if !won {
		return false, nil
	}

	s.reminders.Cancel(paymentID)

	if err := s.archive.Move(paymentID, archive.BucketPending, archive.BucketRejected); err != nil {
		zap.L().Error("proof not moved after rejection", zap.String("payment_id", paymentID), zap.Error(err))
	}

	text := "❌ The payment was not found after checking the receipt. Please pay again."
	if err := s.notifier.SendMessage(ctx, payment.UserID, text); err != nil {
		zap.L().Error("can't notify user about rejection", zap.String("payment_id", paymentID), zap.Error(err))
	}

	return true, nil
}

// Close stops all outstanding reminder timers.
func (s *Service) Close() {
	s.reminders.CancelAll()
}
