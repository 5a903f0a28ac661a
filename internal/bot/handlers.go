package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/holkiv/topupbot/internal/service/paymentservice"
	"github.com/holkiv/topupbot/internal/service/userservice"
)

const welcomeText = `✨ Welcome to 🥝 Holkiv Bot 🥝

Your guide to the world of game treasures!

📋 Rules:
1. Minimum top-up amount: 50₽
2. Maximum amount per day: 15000₽
3. All payments are reviewed manually
4. Attach a receipt when you pay`

const genericErrText = "Something went wrong. Please try again later."

func (b *Bot) handleStart(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()

	if err := b.services.UserService.Register(ctx, sender.ID, sender.Username); err != nil {
		return c.Send(genericErrText)
	}

	b.setState(sender.ID, stateIdle)
	return c.Send(welcomeText, mainMenu())
}

func (b *Bot) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())

	switch text {
	case btnCancel:
		b.setState(c.Sender().ID, stateIdle)
		return c.Send("Operation cancelled", mainMenu())
	case btnProfile:
		return b.sendProfile(c)
	case btnTopUp:
		b.setState(c.Sender().ID, stateAwaitingAmount)
		return c.Send("Enter the top-up amount (50₽ to 15000₽):", cancelMenu())
	case btnHistory:
		return b.sendHistory(c)
	case btnReview:
		b.setState(c.Sender().ID, stateAwaitingReview)
		return c.Send("Send your rating and a comment, e.g.:\n5 fast delivery, thanks!", cancelMenu())
	case btnOrder:
		return c.Send("Top up your balance first, then pick an item — the admin will contact you.", mainMenu())
	case btnRules:
		return c.Send(welcomeText, mainMenu())
	}

	if b.state(c.Sender().ID) == stateAwaitingReview {
		return b.handleReviewText(c, text)
	}

	// Any other text is treated as a top-up amount, matching the
	// keyboard-driven flow.
	return b.handleAmountText(c, text)
}

func (b *Bot) handleAmountText(c tele.Context, text string) error {
	ctx := context.Background()
	sender := c.Sender()

	amount, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return c.Send("Please enter a valid amount (50₽ to 15000₽)")
	}

	topUp, err := b.services.PaymentService.RequestTopUp(ctx, sender.ID, amount)
	if err != nil {
		if errors.Is(err, paymentservice.ErrInvalidAmount) {
			return c.Send("Please enter a valid amount (50₽ to 15000₽)")
		}
		return c.Send(genericErrText)
	}

	b.setState(sender.ID, stateIdle)

	text = fmt.Sprintf("⚠ Pay within 5 minutes!\n\nAmount: %d₽\nPayment ID: %s", topUp.Amount, topUp.PaymentID)
	return c.Send(text, payMarkup(topUp.URL))
}

func (b *Bot) handleReviewText(c tele.Context, text string) error {
	ctx := context.Background()
	sender := c.Sender()

	parts := strings.SplitN(text, " ", 2)
	rating, err := strconv.Atoi(parts[0])
	if err != nil {
		return c.Send("Start your review with a rating from 1 to 5")
	}
	comment := ""
	if len(parts) > 1 {
		comment = parts[1]
	}

	if err := b.services.ReviewService.Add(ctx, sender.ID, rating, comment, ""); err != nil {
		return c.Send("Start your review with a rating from 1 to 5")
	}

	b.setState(sender.ID, stateIdle)
	return c.Send("Thanks for your review! ⭐", mainMenu())
}

func (b *Bot) sendProfile(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()

	profile, err := b.services.UserService.Profile(ctx, sender.ID)
	if err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			return c.Send("Press /start to register first")
		}
		return c.Send(genericErrText)
	}

	text := fmt.Sprintf("%s <b>[%s]</b>\n👤 <b>Your profile</b>:\n├ ID: <code>%d</code>\n├ Balance: <b>%d₽</b>\n├ Orders: <b>%d</b>\n├ Total spent: <b>%d₽</b>\n└ Progress: [%s] %d%%\n\n",
		profile.Rank.Icon, profile.Rank.Name,
		profile.User.ID, profile.User.Balance, profile.User.OrdersCount, profile.User.TotalSpent,
		profile.ProgressBar, profile.Progress)

	if profile.Rank.NextRank != "" {
		text += fmt.Sprintf("To %s rank: <b>%d₽</b>", profile.Rank.NextRank, profile.Rank.Required)
	} else {
		text += "You reached the top rank! 🎉"
	}

	return c.Send(text, tele.ModeHTML)
}

func (b *Bot) sendHistory(c tele.Context) error {
	ctx := context.Background()

	orders, err := b.services.UserService.History(ctx, c.Sender().ID)
	if err != nil {
		return c.Send(genericErrText)
	}
	if len(orders) == 0 {
		return c.Send("You have no orders yet")
	}

	var sb strings.Builder
	sb.WriteString("📜 <b>Recent orders</b>:\n\n")
	for i, order := range orders {
		game := order.Game
		if game == "" {
			game = "not set"
		}
		fmt.Fprintf(&sb, "#%d %s\n├ Amount: %d₽\n├ Game: %s\n└ Status: %s %s\n\n",
			i+1, order.CreatedAt.Format("02.01.2006 15:04"), order.Amount, game,
			statusEmoji(order.Status), order.Status)
	}

	return c.Send(sb.String(), tele.ModeHTML)
}

func (b *Bot) handlePhoto(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()

	photo := c.Message().Photo
	if photo == nil {
		return nil
	}

	rc, err := b.tb.File(&photo.File)
	if err != nil {
		zap.L().Error("can't download proof photo", zap.Int64("user_id", sender.ID), zap.Error(err))
		return c.Send(genericErrText)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		zap.L().Error("can't read proof photo", zap.Int64("user_id", sender.ID), zap.Error(err))
		return c.Send(genericErrText)
	}

	payment, ambiguous, err := b.services.PaymentService.SubmitProof(ctx, sender.ID, sender.Username, photo.FileID, data)
	if err != nil {
		if errors.Is(err, paymentservice.ErrNoOpenPayment) {
			return c.Send("You have no pending payments")
		}
		return c.Send(genericErrText)
	}

	text := "The receipt was sent for review. Please wait for confirmation."
	if ambiguous {
		text = fmt.Sprintf("The receipt was attached to payment %s and sent for review. Please wait for confirmation.", payment.PaymentID)
	}
	return c.Send(text, mainMenu())
}

func (b *Bot) handleCallback(c tele.Context) error {
	data := strings.TrimPrefix(strings.TrimSpace(c.Callback().Data), "\f")

	if data == "cancel_payment" {
		return c.Respond(&tele.CallbackResponse{Text: "Just ignore the link if you changed your mind"})
	}

	// Payment decisions are for the admin chat only.
	if c.Sender().ID != b.adminChatID {
		return c.Respond(&tele.CallbackResponse{Text: "Not allowed"})
	}

	ctx := context.Background()
	switch {
	case strings.HasPrefix(data, "confirm_"):
		return b.handleConfirm(ctx, c, strings.TrimPrefix(data, "confirm_"))
	case strings.HasPrefix(data, "reject_"):
		return b.handleReject(ctx, c, strings.TrimPrefix(data, "reject_"))
	}
	return c.Respond(&tele.CallbackResponse{})
}

func (b *Bot) handleConfirm(ctx context.Context, c tele.Context, paymentID string) error {
	decided, err := b.services.PaymentService.Confirm(ctx, paymentID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Confirmation failed, try again"})
	}
	if !decided {
		return c.Respond(&tele.CallbackResponse{Text: "Payment already decided"})
	}

	if _, err := b.tb.EditCaption(c.Message(), "✅ Payment confirmed"); err != nil {
		zap.L().Error("can't edit review caption", zap.String("payment_id", paymentID), zap.Error(err))
	}
	return c.Respond(&tele.CallbackResponse{Text: "Payment confirmed"})
}

func (b *Bot) handleReject(ctx context.Context, c tele.Context, paymentID string) error {
	decided, err := b.services.PaymentService.Reject(ctx, paymentID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Rejection failed, try again"})
	}
	if !decided {
		return c.Respond(&tele.CallbackResponse{Text: "Payment already decided"})
	}

	if _, err := b.tb.EditCaption(c.Message(), "❌ Payment rejected"); err != nil {
		zap.L().Error("can't edit review caption", zap.String("payment_id", paymentID), zap.Error(err))
	}
	return c.Respond(&tele.CallbackResponse{Text: "Payment rejected"})
}

func statusEmoji(status string) string {
	switch status {
	case "completed":
		return "✅"
	case "pending":
		return "⏳"
	case "cancelled":
		return "❌"
	default:
		return "❓"
	}
}
