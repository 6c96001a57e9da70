package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/thornwyck/focusfm/internal/models"
)

// TrackRepository implements [models.Repository] for [models.Track] persistence.
//
// Tracks are a metadata cache keyed by spotify_id. The same track seen in two
// playlist generations is stored once.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new [TrackRepository] with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Create inserts a new track into the database
func (r *TrackRepository) Create(track *models.Track) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tracks (title, artist, album, duration_seconds, spotify_id, energy_level, focus_rating, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query, track.Title(), track.Artist(), track.Album(),
		track.DurationSeconds(), track.SpotifyID(), track.EnergyLevel(), track.FocusRating(), track.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get track id: %w", err)
	}
	track.SetID(id)

	return nil
}

// CreateIfAbsent caches the track unless a row with the same spotify_id
// already exists. The track's ID is set to the surviving row either way, and
// an existing row is never overwritten.
func (r *TrackRepository) CreateIfAbsent(track *models.Track) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tracks (title, artist, album, duration_seconds, spotify_id, energy_level, focus_rating, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(spotify_id) DO NOTHING
	`

	if _, err := r.db.Exec(query, track.Title(), track.Artist(), track.Album(),
		track.DurationSeconds(), track.SpotifyID(), track.EnergyLevel(), track.FocusRating(), track.CreatedAt()); err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	existing, err := r.GetBySpotifyID(track.SpotifyID())
	if err != nil {
		return err
	}
	track.SetID(existing.ID())

	return nil
}

// Get retrieves a track by ID
func (r *TrackRepository) Get(id int64) (*models.Track, error) {
	query := trackSelect + " WHERE id = ?"
	return r.scanOne(r.db.QueryRow(query, id), fmt.Sprintf("%d", id))
}

// GetBySpotifyID retrieves a track by its Spotify catalogue id
func (r *TrackRepository) GetBySpotifyID(spotifyID string) (*models.Track, error) {
	query := trackSelect + " WHERE spotify_id = ?"
	return r.scanOne(r.db.QueryRow(query, spotifyID), spotifyID)
}

// List retrieves tracks, optionally filtered by artist
func (r *TrackRepository) List(criteria map[string]any) ([]*models.Track, error) {
	query := trackSelect
	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " WHERE artist = ?"
		args = append(args, artist)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

// Count returns the number of cached tracks
func (r *TrackRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM tracks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return count, nil
}

const trackSelect = `
	SELECT id, title, artist, album, duration_seconds, spotify_id, energy_level, focus_rating, created_at
	FROM tracks
`

func (r *TrackRepository) scanOne(row *sql.Row, key string) (*models.Track, error) {
	track, err := scanTrack(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("track not found: %s", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query track: %w", err)
	}
	return track, nil
}

func scanTrack(s scanner) (*models.Track, error) {
	var (
		id              int64
		title           string
		artist          string
		album           sql.NullString
		durationSeconds sql.NullInt64
		spotifyID       sql.NullString
		energyLevel     sql.NullInt64
		focusRating     sql.NullInt64
		createdAt       time.Time
	)

	if err := s.Scan(&id, &title, &artist, &album, &durationSeconds,
		&spotifyID, &energyLevel, &focusRating, &createdAt); err != nil {
		return nil, err
	}

	track := models.NewTrack(title, artist, album.String, int(durationSeconds.Int64),
		spotifyID.String, int(energyLevel.Int64), int(focusRating.Int64))
	track.SetID(id)
	track.SetCreatedAt(createdAt)

	return track, nil
}
