package service

import (
	"time"

	"github.com/holkiv/topupbot/internal/pg"
	"github.com/holkiv/topupbot/internal/repo"
	"github.com/holkiv/topupbot/internal/service/paymentservice"
	"github.com/holkiv/topupbot/internal/service/reviewservice"
	"github.com/holkiv/topupbot/internal/service/userservice"
)

type Services struct {
	PaymentService *paymentservice.Service
	UserService    *userservice.Service
	ReviewService  *reviewservice.Service
}

func New(repo *repo.Repositories, proofs paymentservice.ProofArchive, notifier paymentservice.Notifier, links paymentservice.LinkBuilder, txManager pg.TXManager, adminChatID int64, remindAfter time.Duration) *Services {
	paymentService := paymentservice.New(repo.PaymentRepo, repo.UserRepo, proofs, notifier, links, txManager, adminChatID, remindAfter)
	userService := userservice.New(repo.UserRepo, repo.OrderRepo)
	reviewService := reviewservice.New(repo.ReviewRepo)

	return &Services{
		PaymentService: paymentService,
		UserService:    userService,
		ReviewService:  reviewService,
	}
}
