package userrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/holkiv/topupbot/internal/domain"
	"github.com/holkiv/topupbot/internal/pg"
	"github.com/holkiv/topupbot/pkg/rank"
)

var ErrUserNotFound = errors.New("user not found")

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

// Register inserts a user if one does not exist yet. Registering an existing
// user is a no-op, not an error.
func (r *Repository) Register(ctx context.Context, userID int64, username string) error {
	query := `
        INSERT INTO users (user_id, username)
        VALUES ($1, $2)
        ON CONFLICT (user_id) DO NOTHING
    `
	_, err := r.db.Exec(ctx, query, userID, username)
	if err != nil {
		zap.L().Error("can't register user", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) Find(ctx context.Context, userID int64) (*domain.User, error) {
	query := `
        SELECT user_id, username, balance, total_spent, orders_count, rank, created_at
        FROM users
        WHERE user_id = $1
    `
	row := r.db.QueryRow(ctx, query, userID)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.Balance, &user.TotalSpent, &user.OrdersCount, &user.Rank, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find user", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// Settle credits the balance and cumulative spend by amount and appends the
// matching order record, all in one transaction. The increments happen in SQL
// so two settlements for the same user never lose an update.
func (r *Repository) Settle(ctx context.Context, userID int64, amount int64, description string) error {
	updateQuery := `
        UPDATE users
        SET balance = balance + $1, total_spent = total_spent + $1, orders_count = orders_count + 1
        WHERE user_id = $2
        RETURNING total_spent
    `
	rankQuery := `
        UPDATE users
        SET rank = $1
        WHERE user_id = $2
    `
	orderQuery := `
        INSERT INTO orders (user_id, amount, description, status, created_at)
        VALUES ($1, $2, $3, 'completed', $4)
    `
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		var totalSpent int64
		err := r.db.QueryRow(ctx, updateQuery, amount, userID).Scan(&totalSpent)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		if err != nil {
			zap.L().Error("can't update user balance", zap.Int64("user_id", userID), zap.Error(err))
			return err
		}

		if _, err := r.db.Exec(ctx, rankQuery, rank.For(totalSpent).Name, userID); err != nil {
			zap.L().Error("can't update user rank", zap.Int64("user_id", userID), zap.Error(err))
			return err
		}

		if _, err := r.db.Exec(ctx, orderQuery, userID, amount, description, time.Now()); err != nil {
			zap.L().Error("can't append order record", zap.Int64("user_id", userID), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}
