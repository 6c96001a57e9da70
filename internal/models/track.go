package models

import (
	"fmt"
	"time"
)

// Track is a cached denormalized copy of a Spotify track. Rows are created
// lazily on first encounter of a given Spotify id and never updated
// afterwards; stale metadata is accepted.
//
// EnergyLevel and FocusRating are placeholder ratings synthesized as uniform
// random integers in [1,10] at insert time. They carry no relation to actual
// audio characteristics and must not be treated as meaningful signal.
type Track struct {
	id              int64
	title           string
	artist          string
	album           string
	durationSeconds int
	spotifyID       string
	energyLevel     int
	focusRating     int
	createdAt       time.Time
}

// NewTrack creates a Track from Spotify metadata plus the synthesized ratings.
func NewTrack(title, artist, album string, durationSeconds int, spotifyID string, energyLevel, focusRating int) *Track {
	return &Track{
		title:           title,
		artist:          artist,
		album:           album,
		durationSeconds: durationSeconds,
		spotifyID:       spotifyID,
		energyLevel:     energyLevel,
		focusRating:     focusRating,
		createdAt:       time.Now(),
	}
}

func (t *Track) ID() int64            { return t.id }
func (t *Track) Title() string        { return t.title }
func (t *Track) Artist() string       { return t.artist }
func (t *Track) Album() string        { return t.album }
func (t *Track) DurationSeconds() int { return t.durationSeconds }
func (t *Track) SpotifyID() string    { return t.spotifyID }
func (t *Track) EnergyLevel() int     { return t.energyLevel }
func (t *Track) FocusRating() int     { return t.focusRating }
func (t *Track) CreatedAt() time.Time { return t.createdAt }

func (t *Track) SetID(id int64)            { t.id = id }
func (t *Track) SetCreatedAt(ts time.Time) { t.createdAt = ts }

// Validate checks required metadata and rating bounds.
func (t *Track) Validate() error {
	if t.title == "" {
		return fmt.Errorf("track requires a title")
	}
	if t.artist == "" {
		return fmt.Errorf("track requires an artist")
	}
	if t.energyLevel < 1 || t.energyLevel > 10 {
		return fmt.Errorf("energy level out of range: %d", t.energyLevel)
	}
	if t.focusRating < 1 || t.focusRating > 10 {
		return fmt.Errorf("focus rating out of range: %d", t.focusRating)
	}
	return nil
}
