package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Session is the persisted analysis session: the parsed inventory plus the
// phase results, all stored as JSON documents.
type Session struct {
	ID            uuid.UUID `gorm:"primaryKey;"`
	Name          string    `gorm:"not null"`
	VCenterID     string
	Inventory     []byte `gorm:"type:jsonb"`
	Scope         []byte `gorm:"type:jsonb"`
	Cost          []byte `gorm:"type:jsonb"`
	Modernization []byte `gorm:"type:jsonb"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type SessionList []Session

func (s Session) String() string {
	val, _ := json.Marshal(s)
	return string(val)
}

func NewSessionFromId(id uuid.UUID) *Session {
	return &Session{ID: id}
}

// MakeJSONField marshals a phase result for storage. Marshalling the API
// types cannot fail; a nil slice is stored for nil input.
func MakeJSONField[T any](value *T) []byte {
	if value == nil {
		return nil
	}
	val, _ := json.Marshal(value)
	return val
}
