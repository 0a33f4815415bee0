package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"workshop_bot/internal/model"
	"workshop_bot/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database. Each user's
// document is stored as one JSON blob row; per-user mutexes serialize
// read-modify-write cycles of the same user.
type SQLite struct {
	db *sql.DB

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db, locks: make(map[int64]*sync.Mutex)}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// LoadUser returns the stored document for a user. A missing row creates
// and persists a default-empty document; an unreadable one falls back to
// the default rather than failing the caller.
func (s *SQLite) LoadUser(ctx context.Context, userID int64) (*model.UserDocument, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM users WHERE user_id = ?`, userID,
	).Scan(&raw)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		doc := model.NewUserDocument()
		if err := s.SaveUser(ctx, userID, doc); err != nil {
			return nil, err
		}
		return doc, nil
	case err != nil:
		return nil, fmt.Errorf("query user: %w", err)
	}

	doc := model.NewUserDocument()
	if err := json.Unmarshal([]byte(raw), doc); err != nil {
		return model.NewUserDocument(), nil
	}
	if doc.Games == nil {
		doc.Games = map[string]string{}
	}
	return doc, nil
}

// SaveUser overwrites the user's document.
func (s *SQLite) SaveUser(ctx context.Context, userID int64, doc *model.UserDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal user document: %w", err)
	}
	now := time.Now().UTC().Format(timeLayout)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, doc, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		userID, string(raw), now,
	)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// UpdateUser performs an atomic read-modify-write of one user's document.
func (s *SQLite) UpdateUser(ctx context.Context, userID int64, fn func(*model.UserDocument) error) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	doc, err := s.LoadUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.SaveUser(ctx, userID, doc)
}

// ListUserIDs returns all known user ids.
func (s *SQLite) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
