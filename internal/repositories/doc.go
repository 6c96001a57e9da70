// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations against one table and maps rows to
// accessor-style entities from [models]. Writes that can race with concurrent
// requests (mood and track creation, user upserts) are conflict-tolerant:
// they insert with ON CONFLICT clauses and re-read the surviving row, so two
// racing creators both observe the same record.
//
// Key Implementations:
//   - [UserRepository] : user accounts keyed by UUID with spotify_id upserts
//   - [MoodRepository] : mood tags with get-or-create by unique name
//   - [TrackRepository] : cached track metadata keyed by spotify_id
//   - [MoodTrackRepository] : junction rows tagging tracks with moods
//   - [PlaylistRepository] : local playlist drafts
//   - [SpotifyPlaylistRepository] : playlists created upstream, with mood joins
package repositories
