package reviewrepo

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

func (r *Repository) Create(ctx context.Context, review *domain.Review) error {
	query := `
        INSERT INTO reviews (user_id, rating, text, game, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.db.Exec(ctx, query, review.UserID, review.Rating, review.Text, review.Game, time.Now())
	if err != nil {
		zap.L().Error("can't save review", zap.Int64("user_id", review.UserID), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByGame(ctx context.Context, game string, limit int) ([]domain.Review, error) {
	query := `
        SELECT id, user_id, rating, text, game, created_at
        FROM reviews
        WHERE game = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, game, limit)
	if err != nil {
		zap.L().Error("can't get reviews", zap.String("game", game), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var review domain.Review
		err := rows.Scan(&review.ID, &review.UserID, &review.Rating, &review.Text, &review.Game, &review.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan review row", zap.Error(err))
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}
