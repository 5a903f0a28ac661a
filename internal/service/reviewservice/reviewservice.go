package reviewservice

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/holkiv/topupbot/internal/domain"
)

const listLimit = 10

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type Repo interface {
	Create(ctx context.Context, review *domain.Review) error
	FindByGame(ctx context.Context, game string, limit int) ([]domain.Review, error)
}

type Service struct {
	reviews Repo
}

func New(reviews Repo) *Service {
	return &Service{
		reviews: reviews,
	}
}

func (s *Service) Add(ctx context.Context, userID int64, rating int, text, game string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	review := &domain.Review{
		UserID: userID,
		Rating: rating,
		Text:   text,
		Game:   game,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		zap.L().Error("failed to add review", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) ListByGame(ctx context.Context, game string) ([]domain.Review, error) {
	reviews, err := s.reviews.FindByGame(ctx, game, listLimit)
	if err != nil {
		zap.L().Error("failed to list reviews", zap.String("game", game), zap.Error(err))
		return nil, err
	}
	return reviews, nil
}
