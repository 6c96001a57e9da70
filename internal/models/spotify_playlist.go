package models

import (
	"fmt"
	"time"
)

// SpotifyPlaylist is the bookkeeping record for a playlist created on
// Spotify. Each row is owned by exactly one User and optionally tagged with
// one Mood. The external playlist id is what a caller needs to open the
// playlist in a Spotify client.
type SpotifyPlaylist struct {
	id                int64
	userID            string
	spotifyPlaylistID string
	name              string
	description       string
	moodID            *int64
	trackCount        int
	isPublic          bool
	createdAt         time.Time
	updatedAt         time.Time
}

// NewSpotifyPlaylist creates a bookkeeping row for an externally created playlist.
func NewSpotifyPlaylist(userID, spotifyPlaylistID, name, description string, moodID *int64, trackCount int, isPublic bool) *SpotifyPlaylist {
	now := time.Now()
	return &SpotifyPlaylist{
		userID:            userID,
		spotifyPlaylistID: spotifyPlaylistID,
		name:              name,
		description:       description,
		moodID:            moodID,
		trackCount:        trackCount,
		isPublic:          isPublic,
		createdAt:         now,
		updatedAt:         now,
	}
}

func (sp *SpotifyPlaylist) ID() int64                 { return sp.id }
func (sp *SpotifyPlaylist) UserID() string            { return sp.userID }
func (sp *SpotifyPlaylist) SpotifyPlaylistID() string { return sp.spotifyPlaylistID }
func (sp *SpotifyPlaylist) Name() string              { return sp.name }
func (sp *SpotifyPlaylist) Description() string       { return sp.description }
func (sp *SpotifyPlaylist) MoodID() *int64            { return sp.moodID }
func (sp *SpotifyPlaylist) TrackCount() int           { return sp.trackCount }
func (sp *SpotifyPlaylist) IsPublic() bool            { return sp.isPublic }
func (sp *SpotifyPlaylist) CreatedAt() time.Time      { return sp.createdAt }
func (sp *SpotifyPlaylist) UpdatedAt() time.Time      { return sp.updatedAt }

func (sp *SpotifyPlaylist) SetID(id int64)            { sp.id = id }
func (sp *SpotifyPlaylist) SetCreatedAt(ts time.Time) { sp.createdAt = ts }
func (sp *SpotifyPlaylist) SetUpdatedAt(ts time.Time) { sp.updatedAt = ts }

// URL returns the public browse URL for the external playlist.
func (sp *SpotifyPlaylist) URL() string {
	return "https://open.spotify.com/playlist/" + sp.spotifyPlaylistID
}

// Validate checks ownership and the external playlist reference.
func (sp *SpotifyPlaylist) Validate() error {
	if sp.userID == "" {
		return fmt.Errorf("spotify playlist requires an owning user")
	}
	if sp.spotifyPlaylistID == "" {
		return fmt.Errorf("spotify playlist requires an external id")
	}
	if sp.name == "" {
		return fmt.Errorf("spotify playlist requires a name")
	}
	return nil
}

// PlaylistSummary is the read model for listing a user's playlists: the
// SpotifyPlaylist row left-joined with its mood name. MoodName is empty when
// the playlist carries no mood tag.
type PlaylistSummary struct {
	ID                int64
	Name              string
	Description       string
	TrackCount        int
	IsPublic          bool
	SpotifyPlaylistID string
	MoodName          string
	CreatedAt         time.Time
}

// URL returns the public browse URL for the summarized playlist.
func (ps PlaylistSummary) URL() string {
	return "https://open.spotify.com/playlist/" + ps.SpotifyPlaylistID
}
