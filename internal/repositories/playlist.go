package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/thornwyck/focusfm/internal/models"
)

// PlaylistRepository implements [models.Repository] for local
// [models.Playlist] drafts that have not been pushed upstream.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new [PlaylistRepository] with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist draft into the database
func (r *PlaylistRepository) Create(playlist *models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO playlists (name, mood_id, description, track_count, total_duration_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query, playlist.Name(), playlist.MoodID(), playlist.Description(),
		playlist.TrackCount(), playlist.TotalDurationSeconds(), playlist.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get playlist id: %w", err)
	}
	playlist.SetID(id)

	return nil
}

// Get retrieves a playlist draft by ID
func (r *PlaylistRepository) Get(id int64) (*models.Playlist, error) {
	query := `
		SELECT id, name, mood_id, description, track_count, total_duration_seconds, created_at
		FROM playlists
		WHERE id = ?
	`

	playlist, err := scanPlaylist(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("playlist not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist: %w", err)
	}

	return playlist, nil
}

// List retrieves playlist drafts, optionally filtered by mood
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.Playlist, error) {
	query := `
		SELECT id, name, mood_id, description, track_count, total_duration_seconds, created_at
		FROM playlists
	`
	args := []any{}

	if moodID, ok := criteria["mood_id"].(int64); ok && moodID != 0 {
		query += " WHERE mood_id = ?"
		args = append(args, moodID)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.Playlist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

func scanPlaylist(s scanner) (*models.Playlist, error) {
	var (
		id                   int64
		name                 string
		moodID               sql.NullInt64
		description          sql.NullString
		trackCount           sql.NullInt64
		totalDurationSeconds sql.NullInt64
		createdAt            time.Time
	)

	if err := s.Scan(&id, &name, &moodID, &description, &trackCount,
		&totalDurationSeconds, &createdAt); err != nil {
		return nil, err
	}

	var mood *int64
	if moodID.Valid {
		mood = &moodID.Int64
	}

	playlist := models.NewPlaylist(name, mood, description.String,
		int(trackCount.Int64), int(totalDurationSeconds.Int64))
	playlist.SetID(id)
	playlist.SetCreatedAt(createdAt)

	return playlist, nil
}

// MoodTrackRepository manages the junction table tagging cached tracks with
// moods.
type MoodTrackRepository struct {
	db *sql.DB
}

// NewMoodTrackRepository creates a new [MoodTrackRepository] with the given database connection
func NewMoodTrackRepository(db *sql.DB) *MoodTrackRepository {
	return &MoodTrackRepository{db: db}
}

// Create inserts a mood/track association
func (r *MoodTrackRepository) Create(moodTrack *models.MoodTrack) error {
	if err := moodTrack.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `INSERT INTO mood_tracks (mood_id, track_id, weight) VALUES (?, ?, ?)`

	result, err := r.db.Exec(query, moodTrack.MoodID(), moodTrack.TrackID(), moodTrack.Weight())
	if err != nil {
		return fmt.Errorf("failed to insert mood track: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get mood track id: %w", err)
	}
	moodTrack.SetID(id)

	return nil
}

// ListTrackIDs returns the IDs of all tracks tagged with the given mood
func (r *MoodTrackRepository) ListTrackIDs(moodID int64) ([]int64, error) {
	query := `SELECT track_id FROM mood_tracks WHERE mood_id = ? ORDER BY id ASC`

	rows, err := r.db.Query(query, moodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mood tracks: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan mood track: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// Count returns the number of associations for the given mood
func (r *MoodTrackRepository) Count(moodID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM mood_tracks WHERE mood_id = ?`
	if err := r.db.QueryRow(query, moodID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count mood tracks: %w", err)
	}
	return count, nil
}
