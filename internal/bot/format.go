package bot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"workshop_bot/internal/model"
)

// FormatGameList formats the tracked-game list for display.
func FormatGameList(doc *model.UserDocument) string {
	if len(doc.Games) == 0 {
		return "No games added yet. Use /add <app_id> to track one."
	}

	ids := make([]string, 0, len(doc.Games))
	for id := range doc.Games {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString("Steam games list:\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "\n[ %s ] — %s", id, doc.Games[id])
	}
	b.WriteString("\n\nUse /add <app_id> to add and /remove <app_id> to remove a game.")
	return b.String()
}

// FormatFilter renders a single filter in editor syntax.
func FormatFilter(f model.Filter) string {
	op := ">="
	if f.Compare == model.CompareAtMost {
		op = "<="
	}
	value := humanize.Comma(f.Threshold)
	if f.Metric == model.MetricSize {
		value = humanize.IBytes(uint64(f.Threshold))
	}
	return fmt.Sprintf("%s %s %s", f.Metric, op, value)
}

// FormatFilterList formats a category's filter set for display.
func FormatFilterList(cat model.Category, filters map[model.Metric]model.Filter) string {
	if len(filters) == 0 {
		return fmt.Sprintf("No filters for %s items. Use /filter %s to add one.", cat, cat)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Filters for %s items (all must pass):\n", cat)
	for _, m := range model.Metrics() {
		f, ok := filters[m]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n  %s", FormatFilter(f))
	}
	return b.String()
}

// FormatFilterEditorHelp is the prompt shown when entering the free-text
// filter editor.
func FormatFilterEditorHelp(cat model.Category) string {
	return fmt.Sprintf(`Editing filters for %s items. Send lines like:

subscriptions >= 1000
size <= 10mb
clear favorites

Send "done" to finish. Setting or clearing a filter resets this stream's monitoring state so items are re-evaluated.`, cat)
}
