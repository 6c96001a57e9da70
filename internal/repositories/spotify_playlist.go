package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/thornwyck/focusfm/internal/models"
)

// SpotifyPlaylistRepository implements [models.Repository] for
// [models.SpotifyPlaylist] records, the bookkeeping rows for playlists
// created on the user's Spotify account.
type SpotifyPlaylistRepository struct {
	db *sql.DB
}

// NewSpotifyPlaylistRepository creates a new [SpotifyPlaylistRepository] with the given database connection
func NewSpotifyPlaylistRepository(db *sql.DB) *SpotifyPlaylistRepository {
	return &SpotifyPlaylistRepository{db: db}
}

// Create inserts a new spotify playlist record into the database
func (r *SpotifyPlaylistRepository) Create(playlist *models.SpotifyPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO spotify_playlists (user_id, spotify_playlist_id, name, description, mood_id, track_count, is_public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query, playlist.UserID(), playlist.SpotifyPlaylistID(), playlist.Name(),
		playlist.Description(), playlist.MoodID(), playlist.TrackCount(), playlist.IsPublic(),
		playlist.CreatedAt(), playlist.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert spotify playlist: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get spotify playlist id: %w", err)
	}
	playlist.SetID(id)

	return nil
}

// Get retrieves a spotify playlist record by ID
func (r *SpotifyPlaylistRepository) Get(id int64) (*models.SpotifyPlaylist, error) {
	query := spotifyPlaylistSelect + " WHERE id = ?"

	playlist, err := scanSpotifyPlaylist(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("spotify playlist not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query spotify playlist: %w", err)
	}

	return playlist, nil
}

// List retrieves spotify playlist records, optionally filtered by user
func (r *SpotifyPlaylistRepository) List(criteria map[string]any) ([]*models.SpotifyPlaylist, error) {
	query := spotifyPlaylistSelect
	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " WHERE user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query spotify playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.SpotifyPlaylist
	for rows.Next() {
		playlist, err := scanSpotifyPlaylist(rows)
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

// ListByUser returns the user's playlists in insertion order, each joined
// with its mood name when one is tagged.
func (r *SpotifyPlaylistRepository) ListByUser(userID string) ([]models.PlaylistSummary, error) {
	query := `
		SELECT sp.id, sp.name, sp.description, sp.track_count, sp.is_public, sp.spotify_playlist_id, m.name, sp.created_at
		FROM spotify_playlists sp
		LEFT JOIN moods m ON sp.mood_id = m.id
		WHERE sp.user_id = ?
		ORDER BY sp.id ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query spotify playlists: %w", err)
	}
	defer rows.Close()

	var summaries []models.PlaylistSummary
	for rows.Next() {
		var (
			summary     models.PlaylistSummary
			description sql.NullString
			trackCount  sql.NullInt64
			moodName    sql.NullString
		)

		if err := rows.Scan(&summary.ID, &summary.Name, &description, &trackCount,
			&summary.IsPublic, &summary.SpotifyPlaylistID, &moodName, &summary.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist summary: %w", err)
		}

		summary.Description = description.String
		summary.TrackCount = int(trackCount.Int64)
		summary.MoodName = moodName.String
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return summaries, nil
}

// Count returns the number of spotify playlist records for the given user
func (r *SpotifyPlaylistRepository) Count(userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM spotify_playlists WHERE user_id = ?`
	if err := r.db.QueryRow(query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count spotify playlists: %w", err)
	}
	return count, nil
}

const spotifyPlaylistSelect = `
	SELECT id, user_id, spotify_playlist_id, name, description, mood_id, track_count, is_public, created_at, updated_at
	FROM spotify_playlists
`

func scanSpotifyPlaylist(s scanner) (*models.SpotifyPlaylist, error) {
	var (
		id                int64
		userID            string
		spotifyPlaylistID string
		name              string
		description       sql.NullString
		moodID            sql.NullInt64
		trackCount        sql.NullInt64
		isPublic          bool
		createdAt         time.Time
		updatedAt         time.Time
	)

	if err := s.Scan(&id, &userID, &spotifyPlaylistID, &name, &description,
		&moodID, &trackCount, &isPublic, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var mood *int64
	if moodID.Valid {
		mood = &moodID.Int64
	}

	playlist := models.NewSpotifyPlaylist(userID, spotifyPlaylistID, name,
		description.String, mood, int(trackCount.Int64), isPublic)
	playlist.SetID(id)
	playlist.SetCreatedAt(createdAt)
	playlist.SetUpdatedAt(updatedAt)

	return playlist, nil
}
