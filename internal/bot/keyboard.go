package bot

import tele "gopkg.in/telebot.v3"

const (
	btnProfile = "👤 Profile"
	btnTopUp   = "💰 Top up balance"
	btnOrder   = "🎮 Order donation"
	btnHistory = "📜 Order history"
	btnReview  = "⭐ Leave a review"
	btnRules   = "📋 Rules"
	btnCancel  = "Cancel"
)

func mainMenu() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(
		menu.Row(menu.Text(btnProfile), menu.Text(btnTopUp)),
		menu.Row(menu.Text(btnOrder), menu.Text(btnHistory)),
		menu.Row(menu.Text(btnReview), menu.Text(btnRules)),
	)
	return menu
}

func cancelMenu() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(menu.Row(menu.Text(btnCancel)))
	return menu
}

func payMarkup(url string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.InlineKeyboard = [][]tele.InlineButton{{
		{Text: "💳 Pay", URL: url},
		{Text: "❌ Cancel", Data: "cancel_payment"},
	}}
	return markup
}
