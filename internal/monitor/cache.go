package monitor

import "workshop_bot/internal/model"

// seenCap bounds the per-(category, game) seen-item cache.
const seenCap = 100

// ShouldReport decides whether an item is worth notifying about and, if
// so, records its timestamp in the state's seen cache. An item is
// reported iff it was never seen or its timestamp strictly exceeds the
// recorded one; this suppresses duplicates across overlapping polls and
// feed reordering.
//
// When the cache grows past capacity the entry with the globally smallest
// timestamp is evicted, never the entry just inserted.
func ShouldReport(st *model.GameState, id string, ts int64) bool {
	if prev, ok := st.Seen[id]; ok && prev >= ts {
		return false
	}
	if st.Seen == nil {
		st.Seen = make(map[string]int64)
	}
	st.Seen[id] = ts
	if len(st.Seen) > seenCap {
		evictOldest(st, id)
	}
	return true
}

func evictOldest(st *model.GameState, keep string) {
	var oldestID string
	var oldestTS int64
	for id, ts := range st.Seen {
		if id == keep {
			continue
		}
		if oldestID == "" || ts < oldestTS {
			oldestID, oldestTS = id, ts
		}
	}
	if oldestID != "" {
		delete(st.Seen, oldestID)
	}
}
