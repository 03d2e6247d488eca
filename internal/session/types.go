package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/lucky-universe/internal/fortune"
	"github.com/ziadkadry99/lucky-universe/internal/talisman"
)

var (
	// ErrNotFound is returned for unknown or expired sessions.
	ErrNotFound = errors.New("session not found")
	// ErrNoRecord is returned when an action needs a fortune that has not
	// been generated yet.
	ErrNoRecord = errors.New("no fortune record yet")
	// ErrBusy is the illegal transition of acting while a generation runs.
	ErrBusy = fmt.Errorf("%w: generation in progress", ErrIllegalTransition)
)

// Session is one visitor's pass through the app.
type Session struct {
	ID        string           `json:"id"`
	View      View             `json:"view"`
	User      fortune.UserData `json:"user"`
	Record    *fortune.Record  `json:"record,omitempty"`
	Wish      string           `json:"wish"`
	Talisman  *talisman.Image  `json:"talisman,omitempty"`
	LastError string           `json:"lastError,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`

	// Revision counts stored updates. Chat turns are only written against
	// the revision they were answered for.
	Revision int64 `json:"-"`
}

// Role of a chat message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
