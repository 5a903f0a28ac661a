// Package bot is the Telegram transport. It turns inbound messages, photos
// and callback taps into workflow calls and implements the notifier the
// workflow engine sends through.
package bot

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/holkiv/topupbot/internal/config"
	"github.com/holkiv/topupbot/internal/service"
	"github.com/holkiv/topupbot/internal/service/paymentservice"
)

type Bot struct {
	tb          *tele.Bot
	services    *service.Services
	adminChatID int64

	mu     sync.Mutex
	states map[int64]chatState
}

type chatState int

const (
	stateIdle chatState = iota
	stateAwaitingAmount
	stateAwaitingReview
)

func New(cfg *config.Config) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			zap.L().Error("telebot error", zap.Error(err))
		},
	}

	tb, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		tb:          tb,
		adminChatID: cfg.AdminChatID,
		states:      make(map[int64]chatState),
	}
	b.registerHandlers()

	return b, nil
}

// AttachServices wires the workflow services in after construction. The bot
// has to exist first because it is also the notifier the services send
// through.
func (b *Bot) AttachServices(services *service.Services) {
	b.services = services
}

func (b *Bot) registerHandlers() {
	b.tb.Handle("/start", b.handleStart)
	b.tb.Handle(tele.OnText, b.handleText)
	b.tb.Handle(tele.OnPhoto, b.handlePhoto)
	b.tb.Handle(tele.OnCallback, b.handleCallback)
}

// Start runs the long poller until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		b.tb.Stop()
	}()

	zap.L().Info("bot started", zap.String("username", b.tb.Me.Username))
	b.tb.Start()
}

func (b *Bot) setState(chatID int64, s chatState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.states[chatID] = s
}

func (b *Bot) state(chatID int64) chatState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.states[chatID]
}

// SendMessage implements the workflow notifier.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := b.tb.Send(tele.ChatID(chatID), text)
	return err
}

// SendPhoto re-sends a photo by its Telegram file id, with optional inline
// decision buttons.
func (b *Bot) SendPhoto(ctx context.Context, chatID int64, fileID, caption string, actions ...paymentservice.Action) error {
	photo := &tele.Photo{
		File:    tele.File{FileID: fileID},
		Caption: caption,
	}

	if len(actions) == 0 {
		_, err := b.tb.Send(tele.ChatID(chatID), photo)
		return err
	}

	row := make([]tele.InlineButton, 0, len(actions))
	for _, a := range actions {
		row = append(row, tele.InlineButton{Text: a.Label, Data: a.Data})
	}
	markup := &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{row}}

	_, err := b.tb.Send(tele.ChatID(chatID), photo, markup)
	return err
}
