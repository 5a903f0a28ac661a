package domain

import "time"

const (
	PaymentStatusPending     = "pending"
	PaymentStatusNeedsReview = "needs_review"
	PaymentStatusConfirmed   = "confirmed"
	PaymentStatusRejected    = "rejected"
)

// IsTerminalPaymentStatus reports whether no further transition is permitted
// for a payment in the given status.
func IsTerminalPaymentStatus(status string) bool {
	return status == PaymentStatusConfirmed || status == PaymentStatusRejected
}

type User struct {
	ID          int64     `db:"user_id"`
	Username    string    `db:"username"`
	Balance     int64     `db:"balance"`
	TotalSpent  int64     `db:"total_spent"`
	OrdersCount int       `db:"orders_count"`
	Rank        string    `db:"rank"`
	CreatedAt   time.Time `db:"created_at"`
}

type Payment struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Amount    int64     `db:"amount"`
	PaymentID string    `db:"payment_id"`
	Status    string    `db:"status"`
	ProofPath string    `db:"proof_path"`
	CreatedAt time.Time `db:"created_at"`
}

type Order struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Game        string    `db:"game"`
	Item        string    `db:"item"`
	Amount      int64     `db:"amount"`
	Description string    `db:"description"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

type Review struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Rating    int       `db:"rating"`
	Text      string    `db:"text"`
	Game      string    `db:"game"`
	CreatedAt time.Time `db:"created_at"`
}

type DailyStats struct {
	OrdersCount  int   `db:"orders_count"`
	TotalRevenue int64 `db:"total_revenue"`
	UniqueUsers  int   `db:"unique_users"`
}
