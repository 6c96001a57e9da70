package models

import (
	"fmt"
	"time"
)

// Playlist is a local, Spotify-independent playlist record keyed to a Mood.
// No current workflow writes these rows; the table exists for locally curated
// playlists alongside the Spotify-backed ones.
type Playlist struct {
	id                   int64
	name                 string
	moodID               *int64
	description          string
	trackCount           int
	totalDurationSeconds int
	createdAt            time.Time
}

// NewPlaylist creates a local playlist record.
func NewPlaylist(name string, moodID *int64, description string, trackCount, totalDurationSeconds int) *Playlist {
	return &Playlist{
		name:                 name,
		moodID:               moodID,
		description:          description,
		trackCount:           trackCount,
		totalDurationSeconds: totalDurationSeconds,
		createdAt:            time.Now(),
	}
}

func (p *Playlist) ID() int64                 { return p.id }
func (p *Playlist) Name() string              { return p.name }
func (p *Playlist) MoodID() *int64            { return p.moodID }
func (p *Playlist) Description() string       { return p.description }
func (p *Playlist) TrackCount() int           { return p.trackCount }
func (p *Playlist) TotalDurationSeconds() int { return p.totalDurationSeconds }
func (p *Playlist) CreatedAt() time.Time      { return p.createdAt }

func (p *Playlist) SetID(id int64)            { p.id = id }
func (p *Playlist) SetCreatedAt(ts time.Time) { p.createdAt = ts }

// Validate checks that the playlist has a name.
func (p *Playlist) Validate() error {
	if p.name == "" {
		return fmt.Errorf("playlist requires a name")
	}
	return nil
}

// MoodTrack associates a Mood with a Track, optionally weighted. The table is
// declared but not populated by any current workflow; it is reserved for
// future ranking use.
type MoodTrack struct {
	id      int64
	moodID  int64
	trackID int64
	weight  *int
}

// NewMoodTrack creates a mood/track association with an optional weight.
func NewMoodTrack(moodID, trackID int64, weight *int) *MoodTrack {
	return &MoodTrack{
		moodID:  moodID,
		trackID: trackID,
		weight:  weight,
	}
}

func (mt *MoodTrack) ID() int64      { return mt.id }
func (mt *MoodTrack) MoodID() int64  { return mt.moodID }
func (mt *MoodTrack) TrackID() int64 { return mt.trackID }
func (mt *MoodTrack) Weight() *int   { return mt.weight }

func (mt *MoodTrack) SetID(id int64) { mt.id = id }

// CreatedAt satisfies [Model]; associations carry no timestamp column.
func (mt *MoodTrack) CreatedAt() time.Time { return time.Time{} }

// Validate checks that both sides of the association are set.
func (mt *MoodTrack) Validate() error {
	if mt.moodID == 0 || mt.trackID == 0 {
		return fmt.Errorf("mood track requires mood and track ids")
	}
	return nil
}
