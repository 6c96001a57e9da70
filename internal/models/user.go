package models

import (
	"fmt"
	"time"
)

// User represents a local account linked to a Spotify identity.
//
// The Spotify account id is the natural key: re-authentication upserts the
// existing row rather than creating a duplicate. The access/refresh token
// pair and absolute expiry are persisted so later requests can reuse or
// refresh the credential without prompting the user again.
type User struct {
	id             string
	spotifyID      string
	email          string
	displayName    string
	accessToken    string
	refreshToken   string
	tokenExpiresAt *time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

// NewUser creates a User for the given Spotify identity and cached profile fields.
func NewUser(spotifyID, email, displayName string) *User {
	now := time.Now()
	return &User{
		spotifyID:   spotifyID,
		email:       email,
		displayName: displayName,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (u *User) ID() string                 { return u.id }
func (u *User) SpotifyID() string          { return u.spotifyID }
func (u *User) Email() string              { return u.email }
func (u *User) DisplayName() string        { return u.displayName }
func (u *User) AccessToken() string        { return u.accessToken }
func (u *User) RefreshToken() string       { return u.refreshToken }
func (u *User) TokenExpiresAt() *time.Time { return u.tokenExpiresAt }
func (u *User) CreatedAt() time.Time       { return u.createdAt }
func (u *User) UpdatedAt() time.Time       { return u.updatedAt }

func (u *User) SetID(id string)            { u.id = id }
func (u *User) SetEmail(email string)      { u.email = email }
func (u *User) SetDisplayName(name string) { u.displayName = name }
func (u *User) SetCreatedAt(ts time.Time)  { u.createdAt = ts }
func (u *User) SetUpdatedAt(ts time.Time)  { u.updatedAt = ts }

// SetTokens stores a new access token and absolute expiry. An empty refresh
// token means the provider did not rotate it, so the stored one is kept.
func (u *User) SetTokens(accessToken, refreshToken string, expiresAt time.Time) {
	u.accessToken = accessToken
	if refreshToken != "" {
		u.refreshToken = refreshToken
	}
	expiry := expiresAt
	u.tokenExpiresAt = &expiry
}

// TokenExpired reports whether the stored access token is unusable at the
// given instant. A missing expiry is treated as expired.
func (u *User) TokenExpired(now time.Time) bool {
	if u.tokenExpiresAt == nil {
		return true
	}
	return !now.Before(*u.tokenExpiresAt)
}

// Validate checks that the user carries a Spotify identity.
func (u *User) Validate() error {
	if u.spotifyID == "" {
		return fmt.Errorf("user requires a spotify id")
	}
	return nil
}
