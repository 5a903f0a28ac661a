package repo

import (
	"github.com/holkiv/topupbot/internal/pg"
	orderrepo "github.com/holkiv/topupbot/internal/repo/order-repo"
	paymentrepo "github.com/holkiv/topupbot/internal/repo/payment-repo"
	reviewrepo "github.com/holkiv/topupbot/internal/repo/review-repo"
	userrepo "github.com/holkiv/topupbot/internal/repo/user-repo"
)

type Repositories struct {
	UserRepo    *userrepo.Repository
	PaymentRepo *paymentrepo.Repository
	OrderRepo   *orderrepo.Repository
	ReviewRepo  *reviewrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:    userrepo.New(conn, txManager),
		PaymentRepo: paymentrepo.New(conn),
		OrderRepo:   orderrepo.New(conn),
		ReviewRepo:  reviewrepo.New(conn),
	}
}
