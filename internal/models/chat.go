package models

import (
	"time"

	"gorm.io/datatypes"
)

// MaxSessionIDLength bounds client supplied session ids to the column size.
const MaxSessionIDLength = 128

// ChatSession is a persisted conversation keyed by an opaque session id.
// Turns are kept in insertion order through Position.
type ChatSession struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	SessionID        string    `gorm:"size:128;uniqueIndex;not null" json:"sessionId"`
	ContextRetention bool      `json:"contextRetention"`
	Language         string    `gorm:"size:8" json:"language"`
	Version          int64     `json:"-"`
	Turns            []Turn    `gorm:"foreignKey:ChatSessionID" json:"messages"`
	CreatedAt        time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Turn is one message within a session. Turns are only ever inserted.
type Turn struct {
	ID            uint                        `gorm:"primaryKey" json:"-"`
	ChatSessionID uint                        `gorm:"uniqueIndex:idx_turn_position;not null" json:"-"`
	Position      int                         `gorm:"uniqueIndex:idx_turn_position;not null" json:"-"`
	Role          Role                        `gorm:"size:16;not null" json:"role"`
	Content       string                      `gorm:"not null" json:"content"`
	Timestamp     time.Time                   `json:"timestamp"`
	Severity      Severity                    `gorm:"size:16;index" json:"severity,omitempty"`
	Resources     datatypes.JSONSlice[string] `json:"resources,omitempty"`
}

// Alert is published when a user message is classified as an emergency.
type Alert struct {
	SessionID string    `json:"sessionId"`
	Severity  Severity  `json:"severity"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
}
