// Package models defines domain entities and persistence interfaces for the focusfm playlist service.
//
// The package contains two categories of types:
//
// 1. Persistent entities: database-backed models with full lifecycle management
//   - [User] : Spotify-linked accounts holding the OAuth token pair
//   - [Mood] : named tags keying playlist generation
//   - [Track] : cached denormalized copies of Spotify tracks
//   - [MoodTrack] : mood/track association reserved for future ranking
//   - [Playlist] : local playlist records independent of Spotify
//   - [SpotifyPlaylist] : bookkeeping rows for externally created playlists
//
// 2. Read-model types: flat structs assembled by joins for display
//   - [PlaylistSummary] : a user's Spotify playlist joined with its mood name
//
// Persistent entities implement the Model interface providing timestamps and
// validation. The Repository[T, K] interface defines standard lookup
// operations for database access, keyed by the entity's natural key type.
package models
