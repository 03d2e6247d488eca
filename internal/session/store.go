package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/lucky-universe/internal/db"
	"github.com/ziadkadry99/lucky-universe/internal/fortune"
	"github.com/ziadkadry99/lucky-universe/internal/talisman"
)

// Store persists sessions and chat messages in SQLite.
type Store struct {
	db  *db.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewStore creates a new session store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d, now: time.Now}
}

// Create inserts a fresh session on the home view.
func (s *Store) Create(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC().Truncate(time.Millisecond)
	sess := &Session{ID: uuid.NewString(), View: ViewHome, CreatedAt: now, UpdatedAt: now}
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return nil, fmt.Errorf("marshaling user data: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, view, user_data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		sess.ID, string(sess.View), string(userJSON), now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return sess, nil
}

// Get loads a session by ID.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	var (
		sess                         Session
		view, userJSON               string
		recordJSON, talismanJSON     sql.NullString
		createdMillis, updatedMillis int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, view, user_data, record, wish, talisman, last_error, revision, created_at, updated_at
		 FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &view, &userJSON, &recordJSON, &sess.Wish, &talismanJSON, &sess.LastError, &sess.Revision, &createdMillis, &updatedMillis)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}

	sess.View = View(view)
	if !sess.View.Valid() {
		return nil, fmt.Errorf("session %s has unknown view %q", id, view)
	}
	sess.CreatedAt = time.UnixMilli(createdMillis).UTC()
	sess.UpdatedAt = time.UnixMilli(updatedMillis).UTC()
	if err := json.Unmarshal([]byte(userJSON), &sess.User); err != nil {
		return nil, fmt.Errorf("unmarshaling user data: %w", err)
	}
	if recordJSON.Valid && recordJSON.String != "" {
		var rec fortune.Record
		if err := json.Unmarshal([]byte(recordJSON.String), &rec); err != nil {
			return nil, fmt.Errorf("unmarshaling record: %w", err)
		}
		sess.Record = &rec
	}
	if talismanJSON.Valid && talismanJSON.String != "" {
		var img talisman.Image
		if err := json.Unmarshal([]byte(talismanJSON.String), &img); err != nil {
			return nil, fmt.Errorf("unmarshaling talisman: %w", err)
		}
		sess.Talisman = &img
	}
	return &sess, nil
}

// Update writes sess back only if the stored view still equals expect.
// A concurrent change of view yields ErrIllegalTransition.
func (s *Store) Update(ctx context.Context, sess *Session, expect View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("marshaling user data: %w", err)
	}
	record, err := nullJSON(sess.Record)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	img, err := nullJSON(sess.Talisman)
	if err != nil {
		return fmt.Errorf("marshaling talisman: %w", err)
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET view = ?, user_data = ?, record = ?, wish = ?, talisman = ?, last_error = ?,
		 revision = revision + 1, updated_at = ?
		 WHERE id = ? AND view = ?`,
		string(sess.View), string(userJSON), record, sess.Wish, img, sess.LastError, now.UnixMilli(),
		sess.ID, string(expect),
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if n == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE id = ?`, sess.ID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking session: %w", err)
		}
		if exists == 0 {
			return ErrNotFound
		}
		return fmt.Errorf("%w: session left %s", ErrIllegalTransition, expect)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT revision FROM sessions WHERE id = ?`, sess.ID).Scan(&sess.Revision); err != nil {
		return fmt.Errorf("reading revision: %w", err)
	}
	sess.UpdatedAt = now
	return nil
}

// Delete removes a session and its chat history.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeIdle deletes sessions not updated since before and returns how
// many were removed.
func (s *Store) PurgeIdle(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purging sessions: %w", err)
	}
	return res.RowsAffected()
}

// AppendTurn stores a question and its answer together, but only while
// sess is still in the chat view at the revision it was loaded with. A
// reset or any other move in between yields ErrIllegalTransition and
// nothing is written. The answer message is returned.
func (s *Store) AppendTurn(ctx context.Context, sess *Session, question, answer string) (*Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("appending turn: %w", err)
	}
	defer tx.Rollback()

	var (
		view     string
		revision int64
	)
	err = tx.QueryRowContext(ctx, `SELECT view, revision FROM sessions WHERE id = ?`, sess.ID).Scan(&view, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking session: %w", err)
	}
	if View(view) != ViewChat || revision != sess.Revision {
		return nil, fmt.Errorf("%w: chat closed while answering (view %s)", ErrIllegalTransition, view)
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	var reply *Message
	for _, turn := range []struct {
		role Role
		text string
	}{{RoleUser, question}, {RoleAssistant, answer}} {
		m := &Message{
			ID:        uuid.NewString(),
			SessionID: sess.ID,
			Role:      turn.role,
			Content:   turn.text,
			CreatedAt: now,
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO chat_messages (id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
			m.ID, m.SessionID, string(m.Role), m.Content, m.CreatedAt.UnixMilli(),
		)
		if err != nil {
			return nil, fmt.Errorf("appending message: %w", err)
		}
		reply = m
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("appending turn: %w", err)
	}
	return reply, nil
}

// Messages returns a session's chat history, oldest first.
func (s *Store) Messages(ctx context.Context, sessionID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, created_at FROM chat_messages
		 WHERE session_id = ? ORDER BY created_at, rowid`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var (
			m      Message
			role   string
			millis int64
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &role, &m.Content, &millis); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.Role = Role(role)
		m.CreatedAt = time.UnixMilli(millis).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

// ClearMessages drops a session's chat history.
func (s *Store) ClearMessages(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clearing messages: %w", err)
	}
	return nil
}

func nullJSON[T any](v *T) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
