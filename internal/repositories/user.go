package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/thornwyck/focusfm/internal/models"
	"github.com/thornwyck/focusfm/internal/shared"
)

// UserRepository implements [models.Repository] for [models.User] persistence.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database with a generated ID
func (r *UserRepository) Create(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	user.SetID(id)

	query := `
		INSERT INTO users (id, spotify_id, email, display_name, access_token, refresh_token, token_expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, id, user.SpotifyID(), user.Email(), user.DisplayName(),
		user.AccessToken(), user.RefreshToken(), user.TokenExpiresAt(), user.CreatedAt(), user.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := userSelect + " WHERE id = ?"
	return r.scanOne(r.db.QueryRow(query, id), id)
}

// GetBySpotifyID retrieves a user by their Spotify account id
func (r *UserRepository) GetBySpotifyID(spotifyID string) (*models.User, error) {
	query := userSelect + " WHERE spotify_id = ?"
	return r.scanOne(r.db.QueryRow(query, spotifyID), spotifyID)
}

// UpsertBySpotifyID inserts the user or, when the spotify_id already exists,
// refreshes the stored profile and credentials in place. The returned user
// carries the canonical row ID either way, so re-authentication never forks
// a second account.
func (r *UserRepository) UpsertBySpotifyID(user *models.User) (*models.User, error) {
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO users (id, spotify_id, email, display_name, access_token, refresh_token, token_expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(spotify_id) DO UPDATE SET
			email = excluded.email,
			display_name = excluded.display_name,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_expires_at = excluded.token_expires_at,
			updated_at = excluded.updated_at
	`

	now := time.Now()
	_, err := r.db.Exec(query, shared.GenerateID(), user.SpotifyID(), user.Email(), user.DisplayName(),
		user.AccessToken(), user.RefreshToken(), user.TokenExpiresAt(), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return r.GetBySpotifyID(user.SpotifyID())
}

// Update persists the user's profile fields and credentials
func (r *UserRepository) Update(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	user.SetUpdatedAt(now)

	query := `
		UPDATE users
		SET email = ?, display_name = ?, access_token = ?, refresh_token = ?, token_expires_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, user.Email(), user.DisplayName(), user.AccessToken(),
		user.RefreshToken(), user.TokenExpiresAt(), now, user.ID())
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, user.ID())
	}

	return nil
}

// List retrieves users, optionally filtered by spotify_id
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := userSelect
	args := []any{}

	if spotifyID, ok := criteria["spotify_id"].(string); ok && spotifyID != "" {
		query += " WHERE spotify_id = ?"
		args = append(args, spotifyID)
	}

	query += " ORDER BY created_at ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

const userSelect = `
	SELECT id, spotify_id, email, display_name, access_token, refresh_token, token_expires_at, created_at, updated_at
	FROM users
`

// scanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanOne(row *sql.Row, key string) (*models.User, error) {
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func scanUser(s scanner) (*models.User, error) {
	var (
		id             string
		spotifyID      string
		email          sql.NullString
		displayName    sql.NullString
		accessToken    sql.NullString
		refreshToken   sql.NullString
		tokenExpiresAt sql.NullTime
		createdAt      time.Time
		updatedAt      time.Time
	)

	if err := s.Scan(&id, &spotifyID, &email, &displayName, &accessToken,
		&refreshToken, &tokenExpiresAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	user := models.NewUser(spotifyID, email.String, displayName.String)
	user.SetID(id)
	user.SetCreatedAt(createdAt)
	user.SetUpdatedAt(updatedAt)
	if accessToken.String != "" {
		expiry := time.Time{}
		if tokenExpiresAt.Valid {
			expiry = tokenExpiresAt.Time
		}
		user.SetTokens(accessToken.String, refreshToken.String, expiry)
	}

	return user, nil
}
