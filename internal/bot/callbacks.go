package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	cmdFilter  = "filter"
	cmdFilters = "filters"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	chatID := cb.Message.Chat.ID

	callback := tgbotapi.NewCallback(cb.ID, "")
	if _, err := b.api.Request(callback); err != nil {
		b.log.Error("send callback ack", "error", err)
	}

	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 {
		return
	}

	action := parts[0]
	arg := parts[1]

	b.log.Info("callback",
		"action", action,
		"arg", arg,
		"chat_id", chatID,
		"user_id", cb.From.ID,
	)

	switch action {
	case cmdFilter:
		cat, err := ParseCategoryArg(arg)
		if err != nil {
			return
		}
		b.enterFilterEditor(ctx, chatID, cat)
	case cmdFilters:
		b.handleFilters(ctx, chatID, arg)
	case "remove_confirm":
		doc, err := b.store.LoadUser(ctx, chatID)
		if err != nil {
			return
		}
		name, ok := doc.Games[arg]
		if !ok {
			b.reply(chatID, fmt.Sprintf("Game [ %s ] is not in your list.", arg))
			return
		}
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Remove [ %s ] \"%s\" from tracking? Its monitoring state will be dropped.", arg, name))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Yes, remove", "remove:"+arg),
				tgbotapi.NewInlineKeyboardButtonData("Cancel", "noop:0"),
			),
		)
		if _, err := b.api.Send(msg); err != nil {
			b.log.Error("send remove confirmation", "error", err)
		}
	case "remove":
		b.handleRemove(ctx, chatID, arg)
	}
}
