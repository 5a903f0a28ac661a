// Package audit runs the background reconciliation and reporting loops.
//
// The archive sweep compares each decided payment's status with the bucket
// actually holding its proof. Settlement keeps going when a proof move fails,
// so those mismatches surface here instead of getting lost. Nothing is moved
// automatically: money decisions in this workflow are manual, and so is the
// cleanup.
package audit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/holkiv/topupbot/internal/archive"
	"github.com/holkiv/topupbot/internal/domain"
)

const sweepLimit = 500

type PaymentRepo interface {
	FindTerminalSince(ctx context.Context, since time.Time, limit int) ([]domain.Payment, error)
}

type StatsRepo interface {
	DailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error)
}

type Locator interface {
	Locate(paymentID string) archive.Bucket
}

type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type Service struct {
	payments    PaymentRepo
	stats       StatsRepo
	proofs      Locator
	notifier    Notifier
	workerPool  WorkerPoolI
	adminChatID int64
	sweepEvery  time.Duration
	reportEvery time.Duration
	lookback    time.Duration
}

func New(payments PaymentRepo, stats StatsRepo, proofs Locator, notifier Notifier, adminChatID int64, sweepEvery, reportEvery time.Duration) *Service {
	return &Service{
		payments:    payments,
		stats:       stats,
		proofs:      proofs,
		notifier:    notifier,
		workerPool:  NewWorkerPool(10),
		adminChatID: adminChatID,
		sweepEvery:  sweepEvery,
		reportEvery: reportEvery,
		lookback:    7 * 24 * time.Hour,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("audit service started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	sweep := time.NewTicker(s.sweepEvery)
	defer sweep.Stop()
	report := time.NewTicker(s.reportEvery)
	defer report.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("context canceled, stopping audit service")
			s.workerPool.Close()
			return
		case <-sweep.C:
			s.sweepArchive(ctx)
		case <-report.C:
			s.sendDailyReport(ctx)
		}
	}
}

func (s *Service) sweepArchive(ctx context.Context) {
	payments, err := s.payments.FindTerminalSince(ctx, time.Now().Add(-s.lookback), sweepLimit)
	if err != nil {
		zap.L().Error("failed to fetch payments for audit", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, payment := range payments {
		payment := payment

		g.Go(func() error {
			return s.workerPool.AddTask(ctx, func() error {
				s.checkPayment(payment)
				return nil
			})
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("error sweeping archive", zap.Error(err))
	}
}

func (s *Service) checkPayment(payment domain.Payment) {
	expected := archive.BucketConfirmed
	if payment.Status == domain.PaymentStatusRejected {
		expected = archive.BucketRejected
	}

	actual := s.proofs.Locate(payment.PaymentID)
	if actual == expected {
		return
	}

	zap.L().Warn("proof location does not match payment status",
		zap.String("payment_id", payment.PaymentID),
		zap.String("status", payment.Status),
		zap.String("expected_bucket", string(expected)),
		zap.String("actual_bucket", string(actual)))
}

func (s *Service) sendDailyReport(ctx context.Context) {
	now := time.Now()
	stats, err := s.stats.DailyStats(ctx, now)
	if err != nil {
		zap.L().Error("failed to fetch daily stats", zap.Error(err))
		return
	}

	text := fmt.Sprintf("💰 Stats for %s:\n\nOrders: %d\nRevenue: %d₽\nUnique users: %d",
		now.Format("02.01.2006"), stats.OrdersCount, stats.TotalRevenue, stats.UniqueUsers)
	if err := s.notifier.SendMessage(ctx, s.adminChatID, text); err != nil {
		zap.L().Error("failed to send daily report", zap.Error(err))
	}
}
