package userservice

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/holkiv/topupbot/internal/domain"
	"github.com/holkiv/topupbot/pkg/rank"
)

const historyLimit = 5

var ErrUserNotFound = errors.New("user not found")

type UserRepo interface {
	Register(ctx context.Context, userID int64, username string) error
	Find(ctx context.Context, userID int64) (*domain.User, error)
}

type OrderRepo interface {
	HistoryByUser(ctx context.Context, userID int64, limit int) ([]domain.Order, error)
}

// Profile is the user snapshot with the derived loyalty data.
type Profile struct {
	User        domain.User
	Rank        rank.Info
	ProgressBar string
	Progress    int
}

type Service struct {
	users  UserRepo
	orders OrderRepo
}

func New(users UserRepo, orders OrderRepo) *Service {
	return &Service{
		users:  users,
		orders: orders,
	}
}

func (s *Service) Register(ctx context.Context, userID int64, username string) error {
	if err := s.users.Register(ctx, userID, username); err != nil {
		zap.L().Error("failed to register user", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) Profile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.users.Find(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get user", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	info := rank.For(user.TotalSpent)
	target := user.TotalSpent + info.Required

	progress := 100
	if target > 0 && info.Required > 0 {
		progress = int(user.TotalSpent * 100 / target)
	}

	return &Profile{
		User:        *user,
		Rank:        info,
		ProgressBar: rank.ProgressBar(user.TotalSpent, target),
		Progress:    progress,
	}, nil
}

func (s *Service) History(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := s.orders.HistoryByUser(ctx, userID, historyLimit)
	if err != nil {
		zap.L().Error("failed to get order history", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	return orders, nil
}
