package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Recorder receives one activity record per successful mutation.
type Recorder interface {
	Append(ctx context.Context, evtType, entityKind, entityID string, payload EventPayload) error
}

type EventPayload map[string]any

// Writer appends activity records to the SQLite events table.
type Writer struct {
	DB  *sql.DB
	Now func() time.Time
}

func (w Writer) Append(ctx context.Context, evtType, entityKind, entityID string, payload EventPayload) error {
	if w.Now == nil {
		w.Now = time.Now
	}
	ts := w.Now().UTC().Format(time.RFC3339)
	if payload == nil {
		payload = EventPayload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = w.DB.ExecContext(ctx, `INSERT INTO events(ts,type,entity_kind,entity_id,payload_json) VALUES (?,?,?,?,?)`,
		ts, evtType, entityKind, nullable(entityID), string(data))
	return err
}

// Discard drops every record; used by backends without an events table.
type Discard struct{}

func (Discard) Append(context.Context, string, string, string, EventPayload) error { return nil }

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
