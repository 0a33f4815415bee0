// Package monitor runs the per-user workshop polling loops: change
// detection against the stored cursor, seen-item deduplication, filter
// evaluation, and notification dispatch.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"workshop_bot/internal/filter"
	"workshop_bot/internal/model"
	"workshop_bot/internal/steam"
	"workshop_bot/internal/storage"
)

// State-conflict errors reported to the command surface.
var (
	ErrAlreadyRunning = errors.New("monitoring is already running")
	ErrNotRunning     = errors.New("monitoring is not running")
	ErrNoGames        = errors.New("no games to monitor")
)

// pageSize is the fixed workshop query page size. Changes deeper than one
// page between polls are not backfilled.
const pageSize = 10

// Sender is the interface for sending Telegram messages.
type Sender interface {
	SendMessage(chatID int64, text string)
}

// Source fetches one page of workshop items for a game, newest first.
type Source interface {
	QueryItems(ctx context.Context, appID string, qt steam.QueryType, pageSize int) ([]steam.Item, error)
}

// Manager owns one polling loop per running user. It is the single
// process-wide registry of monitor tasks; no entry means stopped.
type Manager struct {
	store  storage.Storage
	source Source
	sender Sender
	log    *slog.Logger
	tick   time.Duration

	mu    sync.Mutex
	loops map[int64]context.CancelFunc
}

// New creates a Manager with the default 10-minute poll cadence.
func New(store storage.Storage, source Source, sender Sender, log *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		source: source,
		sender: sender,
		log:    log,
		tick:   10 * time.Minute,
		loops:  make(map[int64]context.CancelFunc),
	}
}

// SetTickInterval overrides the poll cadence.
func (m *Manager) SetTickInterval(d time.Duration) {
	m.tick = d
}

// IsRunning reports whether a loop is registered for the user.
func (m *Manager) IsRunning(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.loops[userID]
	return ok
}

// Start launches the user's monitor loop. It fails synchronously with
// ErrAlreadyRunning if a loop exists and ErrNoGames if the user tracks
// nothing. The running flag is persisted so loops survive restarts.
func (m *Manager) Start(ctx context.Context, userID int64) error {
	doc, err := m.store.LoadUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(doc.Games) == 0 {
		return ErrNoGames
	}

	m.mu.Lock()
	if _, ok := m.loops[userID]; ok {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	loopCtx, cancel := context.WithCancel(ctx)
	m.loops[userID] = cancel
	m.mu.Unlock()

	if err := m.store.UpdateUser(ctx, userID, func(doc *model.UserDocument) error {
		doc.Running = true
		return nil
	}); err != nil {
		m.log.Error("persist running flag", "user_id", userID, "error", err)
	}

	go m.run(loopCtx, userID)
	return nil
}

// Stop cancels the user's loop and clears the running flag immediately.
// A cycle already in flight may still deliver its notifications; the
// cancellation is observed at the next sleep point.
func (m *Manager) Stop(ctx context.Context, userID int64) error {
	m.mu.Lock()
	cancel, ok := m.loops[userID]
	if ok {
		delete(m.loops, userID)
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotRunning
	}
	cancel()

	if err := m.store.UpdateUser(ctx, userID, func(doc *model.UserDocument) error {
		doc.Running = false
		return nil
	}); err != nil {
		m.log.Error("persist running flag", "user_id", userID, "error", err)
	}
	return nil
}

// Resume restarts loops for every user whose persisted running flag is
// set. Called once at startup.
func (m *Manager) Resume(ctx context.Context) error {
	ids, err := m.store.ListUserIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		doc, err := m.store.LoadUser(ctx, id)
		if err != nil {
			m.log.Error("load user on resume", "user_id", id, "error", err)
			continue
		}
		if !doc.Running {
			continue
		}
		if err := m.Start(ctx, id); err != nil {
			m.log.Warn("resume monitoring", "user_id", id, "error", err)
		} else {
			m.log.Info("resumed monitoring", "user_id", id)
		}
	}
	return nil
}

func (m *Manager) run(ctx context.Context, userID int64) {
	m.log.Info("monitor loop started", "user_id", userID)

	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()

	m.checkUser(ctx, userID)
	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitor loop stopped", "user_id", userID)
			return
		case <-ticker.C:
			m.checkUser(ctx, userID)
		}
	}
}

// checkUser runs one poll cycle: the tracked-game list is re-read fresh
// so additions and removals take effect on the next cycle.
func (m *Manager) checkUser(ctx context.Context, userID int64) {
	doc, err := m.store.LoadUser(ctx, userID)
	if err != nil {
		m.log.Error("load user", "user_id", userID, "error", err)
		return
	}

	gameIDs := make([]string, 0, len(doc.Games))
	for id := range doc.Games {
		gameIDs = append(gameIDs, id)
	}
	sort.Strings(gameIDs)

	for _, gameID := range gameIDs {
		if ctx.Err() != nil {
			return
		}
		for _, cat := range model.Categories() {
			if !doc.CategoryEnabled(cat) {
				continue
			}
			m.checkGame(ctx, userID, gameID, doc.Games[gameID], cat)
		}
	}
}

// checkGame polls one (game, category) stream. A fetch failure is treated
// as zero items this cycle and never aborts the other games.
func (m *Manager) checkGame(ctx context.Context, userID int64, gameID, gameName string, cat model.Category) {
	page, err := m.source.QueryItems(ctx, gameID, steam.QueryTypeFor(cat), pageSize)
	if err != nil {
		m.log.Error("query workshop", "user_id", userID, "app_id", gameID, "category", cat, "error", err)
		return
	}
	if len(page) == 0 {
		return
	}

	var (
		fresh    []steam.Item
		firstRun bool
	)
	err = m.store.UpdateUser(ctx, userID, func(doc *model.UserDocument) error {
		st := doc.State(cat, gameID)
		firstRun = st.Cursor == ""
		fresh, st.Cursor = Detect(page, st.Cursor)
		return nil
	})
	if err != nil {
		m.log.Error("persist cursor", "user_id", userID, "app_id", gameID, "error", err)
		return
	}
	if len(fresh) == 0 {
		return
	}

	// Process oldest first so notifications arrive in chronological
	// order. On a first run only the newest item is notified; the rest
	// seed the cache silently.
	var toSend []steam.Item
	err = m.store.UpdateUser(ctx, userID, func(doc *model.UserDocument) error {
		st := doc.State(cat, gameID)
		for i := len(fresh) - 1; i >= 0; i-- {
			it := fresh[i]
			if !ShouldReport(st, it.ID, it.Timestamp(cat)) {
				continue
			}
			if firstRun && i != 0 {
				continue
			}
			if !filter.Passes(it, doc.Filters[cat]) {
				continue
			}
			toSend = append(toSend, it)
		}
		return nil
	})
	if err != nil {
		m.log.Error("persist seen cache", "user_id", userID, "app_id", gameID, "error", err)
		return
	}

	for _, it := range toSend {
		m.sender.SendMessage(userID, FormatNotification(gameName, cat, it))
	}
	if len(toSend) > 0 {
		m.log.Info("sent notifications",
			"user_id", userID, "app_id", gameID, "category", cat, "count", len(toSend))
	}
}
