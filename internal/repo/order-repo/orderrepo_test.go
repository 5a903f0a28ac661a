package orderrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"github.com/holkiv/topupbot/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_HistoryByUser(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		count     int
	}{
		{
			name: "Orders returned newest first",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "game", "item", "amount", "description", "status", "created_at"}).
					AddRow(int64(2), int64(7), "Genshin", "crystals", int64(500), "", "completed", now).
					AddRow(int64(1), int64(7), "", "", int64(300), "Balance top-up of 300₽", "completed", now.Add(-time.Hour))
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, game, item, amount, description, status, created_at`)).
					WithArgs(int64(7), 5).
					WillReturnRows(rows)
			},
			count: 2,
		},
		{
			name: "No orders",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "game", "item", "amount", "description", "status", "created_at"})
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, game, item, amount, description, status, created_at`)).
					WithArgs(int64(7), 5).
					WillReturnRows(rows)
			},
			count: 0,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, game, item, amount, description, status, created_at`)).
					WithArgs(int64(7), 5).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			orders, err := repo.HistoryByUser(context.Background(), 7, 5)

			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, orders, tt.count)
		})
	}
}

func TestRepository_DailyStats(t *testing.T) {
	repo, mock := NewMock(t)
	today := time.Now()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    *domain.DailyStats
	}{
		{
			name: "Stats for a day with orders",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"count", "coalesce", "count"}).
					AddRow(12, int64(8400), 5)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*), COALESCE(SUM(amount), 0), COUNT(DISTINCT user_id)`)).
					WithArgs(today).
					WillReturnRows(rows)
			},
			result: &domain.DailyStats{OrdersCount: 12, TotalRevenue: 8400, UniqueUsers: 5},
		},
		{
			name: "Empty day",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"count", "coalesce", "count"}).
					AddRow(0, int64(0), 0)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*), COALESCE(SUM(amount), 0), COUNT(DISTINCT user_id)`)).
					WithArgs(today).
					WillReturnRows(rows)
			},
			result: &domain.DailyStats{},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*), COALESCE(SUM(amount), 0), COUNT(DISTINCT user_id)`)).
					WithArgs(today).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			stats, err := repo.DailyStats(context.Background(), today)

			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.result, stats)
		})
	}
}
