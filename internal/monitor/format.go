package monitor

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"workshop_bot/internal/model"
	"workshop_bot/internal/steam"
)

// FormatNotification renders one workshop item as a Telegram message.
func FormatNotification(gameName string, cat model.Category, item steam.Item) string {
	var b strings.Builder

	verb := "updated"
	if cat == model.CategoryNew {
		verb = "new"
	}
	fmt.Fprintf(&b, "[%s] %s workshop item\n\n", gameName, verb)
	b.WriteString(item.Title)
	b.WriteString("\n")

	if item.SizeBytes > 0 {
		fmt.Fprintf(&b, "\nSize: %s", humanize.IBytes(uint64(item.SizeBytes)))
	}
	fmt.Fprintf(&b, "\nSubscriptions: %s (lifetime %s)",
		humanize.Comma(item.Subscriptions), humanize.Comma(item.LifetimeSubscriptions))
	fmt.Fprintf(&b, "\nFavorites: %s (lifetime %s)",
		humanize.Comma(item.Favorites), humanize.Comma(item.LifetimeFavorites))
	if len(item.Tags) > 0 {
		fmt.Fprintf(&b, "\nTags: %s", strings.Join(item.Tags, ", "))
	}

	b.WriteString("\n\n")
	b.WriteString(item.URL)
	return b.String()
}
