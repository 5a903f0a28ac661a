package orderrepo

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/holkiv/topupbot/internal/domain"
	"github.com/holkiv/topupbot/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) HistoryByUser(ctx context.Context, userID int64, limit int) ([]domain.Order, error) {
	query := `
        SELECT id, user_id, game, item, amount, description, status, created_at
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		zap.L().Error("can't get orders", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(&order.ID, &order.UserID, &order.Game, &order.Item, &order.Amount, &order.Description, &order.Status, &order.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *Repository) DailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error) {
	query := `
        SELECT COUNT(*), COALESCE(SUM(amount), 0), COUNT(DISTINCT user_id)
        FROM orders
        WHERE created_at::date = $1::date
    `
	row := r.db.QueryRow(ctx, query, date)

	var stats domain.DailyStats
	err := row.Scan(&stats.OrdersCount, &stats.TotalRevenue, &stats.UniqueUsers)
	if err != nil {
		zap.L().Error("can't get daily stats", zap.Error(err))
		return nil, err
	}
	return &stats, nil
}
