package userrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/holkiv/topupbot/internal/domain"
	"github.com/holkiv/topupbot/internal/pg"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	mockTxManager := pg.NewMockTXManager(ctrl)

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	defer mockDB.Close()
	defer ctrl.Finish()

	return repo, mockDB, mockTxManager
}

func TestRepository_Register(t *testing.T) {
	repo, mock, _ := NewMock(t)

	tests := []struct {
		name      string
		userID    int64
		username  string
		mockSetup func()
		expectErr bool
	}{
		{
			name:     "New user is inserted",
			userID:   1,
			username: "alice",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (user_id, username)`)).
					WithArgs(int64(1), "alice").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
			expectErr: false,
		},
		{
			name:     "Existing user is a no-op",
			userID:   1,
			username: "alice",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (user_id, username)`)).
					WithArgs(int64(1), "alice").
					WillReturnResult(pgxmock.NewResult("INSERT", 0))
			},
			expectErr: false,
		},
		{
			name:     "Database error",
			userID:   1,
			username: "alice",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (user_id, username)`)).
					WithArgs(int64(1), "alice").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.Register(context.Background(), tt.userID, tt.username)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRepository_Find(t *testing.T) {
	repo, mock, _ := NewMock(t)
	createdAt := time.Now()

	tests := []struct {
		name      string
		userID    int64
		mockSetup func()
		expectErr bool
		result    *domain.User
	}{
		{
			name:   "User found",
			userID: 1,
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"user_id", "username", "balance", "total_spent", "orders_count", "rank", "created_at"}).
					AddRow(int64(1), "alice", int64(500), int64(1200), 3, "Bronze", createdAt)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id, username, balance, total_spent, orders_count, rank, created_at`)).
					WithArgs(int64(1)).
					WillReturnRows(rows)
			},
			expectErr: false,
			result: &domain.User{
				ID:          1,
				Username:    "alice",
				Balance:     500,
				TotalSpent:  1200,
				OrdersCount: 3,
				Rank:        "Bronze",
				CreatedAt:   createdAt,
			},
		},
		{
			name:   "User not found",
			userID: 99,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id, username, balance, total_spent, orders_count, rank, created_at`)).
					WithArgs(int64(99)).
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
		{
			name:   "Database error",
			userID: 1,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id, username, balance, total_spent, orders_count, rank, created_at`)).
					WithArgs(int64(1)).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Find(context.Background(), tt.userID)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_Settle(t *testing.T) {
	repo, mock, mockTxManager := NewMock(t)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Balance, rank and order applied together",
			mockSetup: func() {
				mockTxManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, fn func(ctx context.Context) error) error {
						return fn(ctx)
					})
				rows := pgxmock.NewRows([]string{"total_spent"}).AddRow(int64(1100))
				mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users`)).
					WithArgs(int64(300), int64(1)).
					WillReturnRows(rows)
				mock.ExpectExec(regexp.QuoteMeta(`SET rank = $1`)).
					WithArgs("Bronze", int64(1)).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).
					WithArgs(int64(1), int64(300), "Balance top-up of 300₽", pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
			expectErr: false,
		},
		{
			name: "Failed order insert fails the whole settlement",
			mockSetup: func() {
				mockTxManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, fn func(ctx context.Context) error) error {
						return fn(ctx)
					})
				rows := pgxmock.NewRows([]string{"total_spent"}).AddRow(int64(1100))
				mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users`)).
					WithArgs(int64(300), int64(1)).
					WillReturnRows(rows)
				mock.ExpectExec(regexp.QuoteMeta(`SET rank = $1`)).
					WithArgs("Bronze", int64(1)).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).
					WithArgs(int64(1), int64(300), "Balance top-up of 300₽", pgxmock.AnyArg()).
					WillReturnError(errors.New("insert failed"))
			},
			expectErr: true,
		},
		{
			name: "Unknown user",
			mockSetup: func() {
				mockTxManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, fn func(ctx context.Context) error) error {
						return fn(ctx)
					})
				mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users`)).
					WithArgs(int64(300), int64(99)).
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			userID := int64(1)
			if tt.name == "Unknown user" {
				userID = 99
			}
			err := repo.Settle(context.Background(), userID, 300, "Balance top-up of 300₽")

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
