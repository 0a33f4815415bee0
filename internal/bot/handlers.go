package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"workshop_bot/internal/model"
	"workshop_bot/internal/monitor"
	"workshop_bot/internal/steam"
)

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, `Welcome to Workshop Notify Bot!

Track Steam games and get notified when their workshop items are updated or newly published.

Quick start:
1. /add <app_id or store URL> — track a game
2. /run — start monitoring
3. /filter updated — set thresholds to mute minor items

Use /help for the full command reference.`)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Game management:
/add <app_id|url> — track a game's workshop
/remove <app_id> — stop tracking a game
/games — show tracked games

Monitoring:
/run — start monitoring all tracked games
/stop — stop monitoring
/toggle <updated|new> — enable/disable a notification stream

Filter management:
/filters <updated|new> — show filters for a stream
/filter <updated|new> <metric> <op> <value> — set a filter
/filter <updated|new> — open the filter editor (free text)
/resetfilters <updated|new> — clear all filters for a stream

Metrics: size, subscriptions, favorites, lifetime_subscriptions, lifetime_favorites
Operators: >= or <= (inclusive). Size values accept kb/mb/gb suffixes.`)
}

func (b *Bot) handleAdd(ctx context.Context, chatID int64, args string) {
	if args == "" {
		b.reply(chatID, "Usage: /add <app_id or store URL>")
		return
	}

	appID, err := steam.AppIDFromArg(args)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Invalid game ID [ %s ]. Use a numeric app id or a store URL.", args))
		return
	}

	doc, err := b.store.LoadUser(ctx, chatID)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	if name, ok := doc.Games[appID]; ok {
		b.reply(chatID, fmt.Sprintf("Game [ %s ] \"%s\" is already in your list.", appID, name))
		return
	}

	name, err := b.steam.ValidateGame(ctx, appID)
	if err != nil {
		if errors.Is(err, steam.ErrGameNotFound) {
			b.reply(chatID, fmt.Sprintf("Invalid game ID [ %s ]. No such game found on Steam.", appID))
		} else {
			b.reply(chatID, fmt.Sprintf("Failed to look up game [ %s ]: %v", appID, err))
		}
		return
	}

	hasWorkshop, err := b.steam.HasWorkshop(ctx, appID)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Failed to check the workshop of \"%s\": %v", name, err))
		return
	}
	if !hasWorkshop {
		b.reply(chatID, fmt.Sprintf("Game [ %s ] \"%s\" has no Steam Workshop.", appID, name))
		return
	}

	err = b.store.UpdateUser(ctx, chatID, func(doc *model.UserDocument) error {
		doc.Games[appID] = name
		return nil
	})
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Failed to save game: %v", err))
		return
	}

	b.reply(chatID, fmt.Sprintf("Game [ %s ] \"%s\" has been added to your list.", appID, name))
}

func (b *Bot) handleRemove(ctx context.Context, chatID int64, args string) {
	if args == "" {
		b.reply(chatID, "Usage: /remove <app_id>")
		return
	}

	appID, err := steam.AppIDFromArg(args)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Invalid game ID [ %s ].", args))
		return
	}

	var (
		name    string
		removed bool
	)
	err = b.store.UpdateUser(ctx, chatID, func(doc *model.UserDocument) error {
		name, removed = doc.DropGame(appID)
		return nil
	})
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	if !removed {
		b.reply(chatID, fmt.Sprintf("Game [ %s ] is not in your list.", appID))
		return
	}
	b.reply(chatID, fmt.Sprintf("Game [ %s ] \"%s\" has been removed from your list.", appID, name))
}

func (b *Bot) handleGames(ctx context.Context, chatID int64) {
	doc, err := b.store.LoadUser(ctx, chatID)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.replaceMenu(ctx, chatID, menuGames, FormatGameList(doc))
}

func (b *Bot) handleRun(ctx context.Context, chatID int64) {
	err := b.monitor.Start(ctx, chatID)
	switch {
	case errors.Is(err, monitor.ErrAlreadyRunning):
		b.reply(chatID, "Monitoring is already running.")
	case errors.Is(err, monitor.ErrNoGames):
		b.reply(chatID, "No games configured. Use /add to track a game first.")
	case err != nil:
		b.reply(chatID, fmt.Sprintf("Failed to start monitoring: %v", err))
	default:
		b.reply(chatID, "Monitoring started. You will be notified about workshop changes.")
	}
}

func (b *Bot) handleStop(ctx context.Context, chatID int64) {
	err := b.monitor.Stop(ctx, chatID)
	switch {
	case errors.Is(err, monitor.ErrNotRunning):
		b.reply(chatID, "Monitoring is not running.")
	case err != nil:
		b.reply(chatID, fmt.Sprintf("Failed to stop monitoring: %v", err))
	default:
		b.reply(chatID, "Monitoring stopped.")
	}
}

func (b *Bot) handleFilters(ctx context.Context, chatID int64, args string) {
	cat, err := ParseCategoryArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /filters <updated|new>")
		return
	}

	doc, err := b.store.LoadUser(ctx, chatID)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, FormatFilterList(cat, doc.Filters[cat]))
}

// handleFilter either applies a filter given inline or switches the user
// into the free-text filter editor for a category. With no arguments an
// inline keyboard asks which category to edit.
func (b *Bot) handleFilter(ctx context.Context, chatID int64, args string) {
	if args == "" {
		msg := tgbotapi.NewMessage(chatID, "Which stream do you want to filter?")
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("updated", "filter:updated"),
				tgbotapi.NewInlineKeyboardButtonData("new", "filter:new"),
			),
		)
		if _, err := b.api.Send(msg); err != nil {
			b.log.Error("send filter keyboard", "chat_id", chatID, "error", err)
		}
		return
	}

	cat, rest, err := SplitCategoryArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /filter <updated|new> [<metric> <op> <value>]")
		return
	}

	if rest == "" {
		b.enterFilterEditor(ctx, chatID, cat)
		return
	}

	input, err := ParseFilterInput(rest)
	if err != nil || input.Filter == nil {
		b.reply(chatID, "Cannot parse filter: use <metric> <op> <value>, e.g. subscriptions >= 1000")
		return
	}
	b.applyFilter(ctx, chatID, cat, *input.Filter)
}

func (b *Bot) enterFilterEditor(ctx context.Context, chatID int64, cat model.Category) {
	err := b.store.UpdateUser(ctx, chatID, func(doc *model.UserDocument) error {
		doc.UIMode = model.EditModeFor(cat)
		return nil
	})
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, FormatFilterEditorHelp(cat))
}

func (b *Bot) applyFilter(ctx context.Context, chatID int64, cat model.Category, f model.Filter) {
	err := b.store.UpdateUser(ctx, chatID, func(doc *model.UserDocument) error {
		doc.SetFilter(cat, f)
		return nil
	})
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Filter set for %s: %s. Monitoring state for this stream was reset.",
		cat, FormatFilter(f)))
}

func (b *Bot) handleResetFilters(ctx context.Context, chatID int64, args string) {
	cat, err := ParseCategoryArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /resetfilters <updated|new>")
		return
	}

	err = b.store.UpdateUser(ctx, chatID, func(doc *model.UserDocument) error {
		doc.ResetFilters(cat)
		return nil
	})
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("All %s filters cleared. Monitoring state for this stream was reset.", cat))
}

func (b *Bot) handleToggle(ctx context.Context, chatID int64, args string) {
	cat, err := ParseCategoryArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /toggle <updated|new>")
		return
	}

	var enabled bool
	err = b.store.UpdateUser(ctx, chatID, func(doc *model.UserDocument) error {
		enabled = doc.ToggleCategory(cat)
		return nil
	})
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	b.reply(chatID, fmt.Sprintf("Notifications for %s items are now %s.", cat, state))
}

// handleText routes free-text messages through the user's UI mode. Text
// outside any mode is ignored.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	doc, err := b.store.LoadUser(ctx, chatID)
	if err != nil {
		b.log.Error("load user", "chat_id", chatID, "error", err)
		return
	}
	cat, editing := model.EditModeCategory(doc.UIMode)
	if !editing {
		return
	}

	input, err := ParseFilterInput(msg.Text)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("%v\nSend <metric> <op> <value>, \"clear <metric>\", or \"done\".", err))
		return
	}

	switch {
	case input.Done:
		err = b.store.UpdateUser(ctx, chatID, func(doc *model.UserDocument) error {
			doc.UIMode = model.ModeIdle
			return nil
		})
		if err == nil {
			b.reply(chatID, fmt.Sprintf("Done editing %s filters.", cat))
		}
	case input.Clear != "":
		var cleared bool
		err = b.store.UpdateUser(ctx, chatID, func(doc *model.UserDocument) error {
			cleared = doc.ClearFilter(cat, input.Clear)
			return nil
		})
		if err != nil {
			b.reply(chatID, fmt.Sprintf("Error: %v", err))
			return
		}
		if !cleared {
			b.reply(chatID, fmt.Sprintf("No %s filter is set for %s.", input.Clear, cat))
			return
		}
		b.reply(chatID, fmt.Sprintf("Filter on %s cleared for %s. Monitoring state for this stream was reset.",
			input.Clear, cat))
	case input.Filter != nil:
		b.applyFilter(ctx, chatID, cat, *input.Filter)
	}
}

const menuGames = "games"

// replaceMenu deletes the previous rendering of a menu message, sends the
// new one, and records its id for the next replacement.
func (b *Bot) replaceMenu(ctx context.Context, chatID int64, kind, text string) {
	var prev int
	_ = b.store.UpdateUser(ctx, chatID, func(doc *model.UserDocument) error {
		prev = doc.LastMessages[kind]
		delete(doc.LastMessages, kind)
		return nil
	})
	if prev != 0 {
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, prev)); err != nil {
			b.log.Debug("delete stale menu", "chat_id", chatID, "message_id", prev, "error", err)
		}
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	sent, err := b.api.Send(msg)
	if err != nil {
		b.log.Error("send menu", "chat_id", chatID, "error", err)
		return
	}
	if sent.MessageID == 0 {
		return
	}
	_ = b.store.UpdateUser(ctx, chatID, func(doc *model.UserDocument) error {
		if doc.LastMessages == nil {
			doc.LastMessages = map[string]int{}
		}
		doc.LastMessages[kind] = sent.MessageID
		return nil
	})
}
