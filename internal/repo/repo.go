package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"dropline/internal/domain"
	"dropline/internal/storage"
)

// Repo is the SQLite-backed store for named documents and the activity log.
type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

// GetDocument returns the body stored under key.
func (r Repo) GetDocument(ctx context.Context, key string) (string, error) {
	var body string
	err := r.DB.QueryRowContext(ctx, `SELECT body FROM documents WHERE key=?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return body, err
}

// PutDocument replaces the body stored under key.
func (r Repo) PutDocument(ctx context.Context, key, body string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.DB.ExecContext(ctx, `INSERT INTO documents(key,body,updated_at) VALUES (?,?,?)
ON CONFLICT(key) DO UPDATE SET body=excluded.body, updated_at=excluded.updated_at`, key, body, now)
	return err
}

// DocumentSlot exposes one document key as a storage.Slot.
func (r Repo) DocumentSlot(key string) storage.Slot {
	return documentSlot{repo: r, key: key}
}

type documentSlot struct {
	repo Repo
	key  string
}

func (s documentSlot) Read(ctx context.Context) ([]byte, error) {
	body, err := s.repo.GetDocument(ctx, s.key)
	if errors.Is(err, ErrNotFound) || (err == nil && body == "") {
		return nil, storage.ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", s.key, err)
	}
	return []byte(body), nil
}

func (s documentSlot) Write(ctx context.Context, data []byte) error {
	if err := s.repo.PutDocument(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("write document %s: %w", s.key, err)
	}
	return nil
}

// LatestEvents returns up to limit events, newest first, optionally filtered.
func (r Repo) LatestEvents(ctx context.Context, limit int, evtType, entityKind, entityID string) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	clauses := []string{"1=1"}
	var args []any
	if evtType != "" {
		clauses = append(clauses, "type=?")
		args = append(args, evtType)
	}
	if entityKind != "" {
		clauses = append(clauses, "entity_kind=?")
		args = append(args, entityKind)
	}
	if entityID != "" {
		clauses = append(clauses, "entity_id=?")
		args = append(args, entityID)
	}
	query := fmt.Sprintf(`SELECT id,ts,type,entity_kind,COALESCE(entity_id,''),payload_json FROM events WHERE %s ORDER BY id DESC LIMIT ?`,
		strings.Join(clauses, " AND "))
	args = append(args, limit)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.EntityKind, &e.EntityID, &e.Payload); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
