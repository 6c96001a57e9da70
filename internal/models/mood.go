package models

import (
	"fmt"
	"time"
)

// Mood is a named tag used both as a playlist category and as a key into the
// fixed search-query table. Moods are created lazily the first time a
// playlist is generated for a previously unseen name.
type Mood struct {
	id          int64
	name        string
	description string
	createdAt   time.Time
}

// NewMood creates a Mood with the given name and free-text description.
func NewMood(name, description string) *Mood {
	return &Mood{
		name:        name,
		description: description,
		createdAt:   time.Now(),
	}
}

func (m *Mood) ID() int64            { return m.id }
func (m *Mood) Name() string         { return m.name }
func (m *Mood) Description() string  { return m.description }
func (m *Mood) CreatedAt() time.Time { return m.createdAt }

func (m *Mood) SetID(id int64)            { m.id = id }
func (m *Mood) SetCreatedAt(ts time.Time) { m.createdAt = ts }

// Validate checks that the mood has a name.
func (m *Mood) Validate() error {
	if m.name == "" {
		return fmt.Errorf("mood requires a name")
	}
	return nil
}
