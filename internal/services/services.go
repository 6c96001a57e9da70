// package services defines interface Service for interacting with the Spotify Web API
package services

import (
	"context"
	"time"
)

// Service defines the operations the playlist workflows need from the music
// provider. All operations are single-shot: no retries, no idempotence beyond
// what the provider itself guarantees.
type Service interface {
	// AuthURL builds the authorization-code-grant URL with the fixed scope
	// set. state is an opaque passthrough omitted from the query when empty.
	AuthURL(state string) string

	// Exchange trades an authorization code for a token pair.
	Exchange(ctx context.Context, code string) (*Token, error)

	// Refresh mints a new access token from a refresh token. The returned
	// refresh token equals the input when the provider did not rotate it.
	Refresh(ctx context.Context, refreshToken string) (*Token, error)

	// Profile fetches the authenticated user's Spotify profile.
	Profile(ctx context.Context, accessToken string) (*SpotifyUser, error)

	// SearchTracks runs a track search. An empty result slice means "no
	// matches" and is not an error.
	SearchTracks(ctx context.Context, accessToken, query string, limit int) ([]SpotifyTrack, error)

	// CreatePlaylist creates a playlist owned by the given Spotify user.
	CreatePlaylist(ctx context.Context, accessToken, ownerID, name, description string, public bool) (*SpotifyPlaylist, error)

	// AddTracks appends track URIs to a playlist in one batch call.
	AddTracks(ctx context.Context, accessToken, playlistID string, uris []string) error

	// Name returns the name of the service.
	Name() string
}

// Token is a provider-issued credential pair with an absolute expiry.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}
