package monitor

import "workshop_bot/internal/steam"

// Detect computes which items of a freshly fetched page are new relative
// to the stored cursor, and the cursor to store for the next poll.
//
// The page is assumed sorted newest first. With no cursor the whole page
// is new (first run). Otherwise items are accumulated until the cursor id
// is reached, exclusive; if the cursor is not on the page, more than a
// full page changed since the last poll and only the fetched items are
// reported. A non-empty page always advances the cursor to the head item,
// even when nothing is new, so an unchanged head is never re-treated as a
// first run.
func Detect(page []steam.Item, cursor string) ([]steam.Item, string) {
	if len(page) == 0 {
		return nil, cursor
	}

	newCursor := page[0].ID
	if cursor == "" {
		return page, newCursor
	}

	var fresh []steam.Item
	for _, it := range page {
		if it.ID == cursor {
			break
		}
		fresh = append(fresh, it)
	}
	return fresh, newCursor
}
