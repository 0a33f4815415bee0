// Package model defines the domain types used across the application.
package model

// Category is an independent notification stream per game: recently
// updated items vs. newly published ones. Each category carries its own
// cursor, seen cache, and filter set.
type Category string

// Supported categories.
const (
	CategoryUpdated Category = "updated"
	CategoryNew     Category = "new"
)

// Categories returns all categories in a fixed order.
func Categories() []Category {
	return []Category{CategoryUpdated, CategoryNew}
}

// Metric names a numeric workshop item field a filter can test.
type Metric string

// Supported filter metrics.
const (
	MetricSize                  Metric = "size"
	MetricSubscriptions         Metric = "subscriptions"
	MetricFavorites             Metric = "favorites"
	MetricLifetimeSubscriptions Metric = "lifetime_subscriptions"
	MetricLifetimeFavorites     Metric = "lifetime_favorites"
)

// Metrics returns all filterable metrics in a fixed order.
func Metrics() []Metric {
	return []Metric{
		MetricSize,
		MetricSubscriptions,
		MetricFavorites,
		MetricLifetimeSubscriptions,
		MetricLifetimeFavorites,
	}
}

// Comparator defines how a filter threshold is compared against an item
// field. Both comparators are inclusive.
type Comparator string

// Supported comparators.
const (
	CompareAtLeast Comparator = "gte"
	CompareAtMost  Comparator = "lte"
)

// Filter is a single numeric threshold predicate. A user holds at most
// one filter per metric per category; size thresholds are stored in bytes.
type Filter struct {
	Metric    Metric     `json:"metric"`
	Compare   Comparator `json:"compare"`
	Threshold int64      `json:"threshold"`
}

// GameState is the per-(category, game) monitoring state: the resumable
// cursor and the bounded seen-item cache mapping item id to the last
// update timestamp reported for it.
type GameState struct {
	Cursor string           `json:"cursor,omitempty"`
	Seen   map[string]int64 `json:"seen,omitempty"`
}

// UIMode routes free-text input for a user. Empty means idle: plain text
// is ignored rather than interpreted.
type UIMode string

// Supported UI modes.
const (
	ModeIdle           UIMode = ""
	ModeEditFiltersUpd UIMode = "edit_filters_updated"
	ModeEditFiltersNew UIMode = "edit_filters_new"
)

// EditModeFor returns the filter-editing mode for a category.
func EditModeFor(cat Category) UIMode {
	if cat == CategoryNew {
		return ModeEditFiltersNew
	}
	return ModeEditFiltersUpd
}

// EditModeCategory returns the category a filter-editing mode targets.
func EditModeCategory(mode UIMode) (Category, bool) {
	switch mode {
	case ModeEditFiltersUpd:
		return CategoryUpdated, true
	case ModeEditFiltersNew:
		return CategoryNew, true
	}
	return "", false
}

// UserDocument is the full persisted state of one user. The persistence
// layer loads and saves it as a whole; all mutations go through a
// per-user read-modify-write.
type UserDocument struct {
	// Games maps Steam app id to the display name fetched at add time.
	Games map[string]string `json:"games"`
	// Disabled marks categories the user has toggled off. Absent means
	// enabled, so both categories default to on.
	Disabled map[Category]bool `json:"disabled,omitempty"`
	// Filters holds at most one filter per metric per category.
	Filters map[Category]map[Metric]Filter `json:"filters,omitempty"`
	// States holds monitoring state per category per game id.
	States map[Category]map[string]*GameState `json:"states,omitempty"`
	// Running records whether the user's monitor loop should be active;
	// it survives restarts so loops can be resumed.
	Running bool `json:"running,omitempty"`
	// UIMode routes the user's next free-text message.
	UIMode UIMode `json:"ui_mode,omitempty"`
	// LastMessages maps a menu kind to the last rendered Telegram
	// message id, so stale menus can be deleted before re-rendering.
	LastMessages map[string]int `json:"last_messages,omitempty"`
}

// NewUserDocument returns the default-empty document for a new user.
func NewUserDocument() *UserDocument {
	return &UserDocument{Games: map[string]string{}}
}

// CategoryEnabled reports whether notifications for a category are on.
func (d *UserDocument) CategoryEnabled(cat Category) bool {
	return !d.Disabled[cat]
}

// ToggleCategory flips a category on or off and returns the new state.
func (d *UserDocument) ToggleCategory(cat Category) bool {
	if d.Disabled == nil {
		d.Disabled = map[Category]bool{}
	}
	d.Disabled[cat] = !d.Disabled[cat]
	return !d.Disabled[cat]
}

// State returns the monitoring state for (category, game), creating it
// lazily on first poll.
func (d *UserDocument) State(cat Category, gameID string) *GameState {
	if d.States == nil {
		d.States = map[Category]map[string]*GameState{}
	}
	if d.States[cat] == nil {
		d.States[cat] = map[string]*GameState{}
	}
	st := d.States[cat][gameID]
	if st == nil {
		st = &GameState{}
		d.States[cat][gameID] = st
	}
	return st
}

// ClearStates drops all cursors and seen caches for a category, forcing
// the next poll to re-seed. Called whenever the category's filters change.
func (d *UserDocument) ClearStates(cat Category) {
	if d.States != nil {
		delete(d.States, cat)
	}
}

// DropGame removes a tracked game and its monitoring state in every
// category. Returns the display name and whether the game was tracked.
func (d *UserDocument) DropGame(gameID string) (string, bool) {
	name, ok := d.Games[gameID]
	if !ok {
		return "", false
	}
	delete(d.Games, gameID)
	for _, states := range d.States {
		delete(states, gameID)
	}
	return name, true
}

// SetFilter stores a filter, replacing any existing one for the same
// metric, and clears the category's monitoring state.
func (d *UserDocument) SetFilter(cat Category, f Filter) {
	if d.Filters == nil {
		d.Filters = map[Category]map[Metric]Filter{}
	}
	if d.Filters[cat] == nil {
		d.Filters[cat] = map[Metric]Filter{}
	}
	d.Filters[cat][f.Metric] = f
	d.ClearStates(cat)
}

// ClearFilter removes the filter for a metric. Returns false if none was
// set. The category's monitoring state is cleared on removal.
func (d *UserDocument) ClearFilter(cat Category, m Metric) bool {
	if _, ok := d.Filters[cat][m]; !ok {
		return false
	}
	delete(d.Filters[cat], m)
	d.ClearStates(cat)
	return true
}

// ResetFilters removes every filter in a category and clears its state.
func (d *UserDocument) ResetFilters(cat Category) {
	if d.Filters != nil {
		delete(d.Filters, cat)
	}
	d.ClearStates(cat)
}
