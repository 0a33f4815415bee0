// Package bot implements the Telegram command surface of the workshop
// notifier.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"workshop_bot/internal/config"
	"workshop_bot/internal/monitor"
	"workshop_bot/internal/steam"
	"workshop_bot/internal/storage"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot is the Telegram bot that handles user commands and delivers
// workshop notifications.
type Bot struct {
	api     telegramAPI
	store   storage.Storage
	steam   *steam.Client
	monitor *monitor.Manager
	cfg     *config.Config
	log     *slog.Logger
	limiter *rate.Limiter
}

// New creates a Bot with the given Telegram token, storage, Steam client,
// and config. The monitor manager is attached afterwards via SetMonitor
// because it needs the bot as its notification sender.
func New(token string, store storage.Storage, sc *steam.Client, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:     api,
		store:   store,
		steam:   sc,
		cfg:     cfg,
		log:     log,
		limiter: newSendLimiter(),
	}, nil
}

// Telegram allows bursts but sustained sending is capped around 20
// messages per second.
func newSendLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(20), 20)
}

// SetMonitor attaches the monitor manager. Must be called before Run.
func (b *Bot) SetMonitor(m *monitor.Manager) {
	b.monitor = m
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.CallbackQuery != nil {
				b.handleCallback(ctx, update.CallbackQuery)
				continue
			}
			if update.Message == nil {
				continue
			}
			if !b.cfg.IsUserAllowed(update.Message.From.ID) {
				b.reply(update.Message.Chat.ID, "Access denied.")
				continue
			}
			if update.Message.IsCommand() {
				b.handleCommand(ctx, update.Message)
				continue
			}
			b.handleText(ctx, update.Message)
		}
	}
}

// SendMessage sends a text message to the given chat, rate limited.
func (b *Bot) SendMessage(chatID int64, text string) {
	if err := b.limiter.Wait(context.Background()); err != nil {
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.SendMessage(chatID, text)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "args", args, "chat_id", chatID)

	switch cmd {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.handleHelp(chatID)
	case "add":
		b.handleAdd(ctx, chatID, args)
	case "remove":
		b.handleRemove(ctx, chatID, args)
	case "games":
		b.handleGames(ctx, chatID)
	case "run":
		b.handleRun(ctx, chatID)
	case "stop":
		b.handleStop(ctx, chatID)
	case cmdFilters:
		b.handleFilters(ctx, chatID, args)
	case cmdFilter:
		b.handleFilter(ctx, chatID, args)
	case "resetfilters":
		b.handleResetFilters(ctx, chatID, args)
	case "toggle":
		b.handleToggle(ctx, chatID, args)
	default:
		b.reply(chatID, "Unknown command. Use /help for a list of commands.")
	}
}
