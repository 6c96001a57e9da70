// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/thornwyck/focusfm/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// defaultRateLimit bounds outbound Web API calls; Spotify throttles bursty
// clients with 429s well below this.
const defaultRateLimit = 10.0

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	Name string `json:"name"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	URI        string          `json:"uri"`
}

// ArtistNames joins all artist names into a single display string.
func (t SpotifyTrack) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// TrackURI returns the spotify:track URI used when adding tracks to playlists.
func (t SpotifyTrack) TrackURI() string {
	if t.URI != "" {
		return t.URI
	}
	return "spotify:track:" + t.ID
}

type playlistTracks struct {
	Total int `json:"total"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Public      bool           `json:"public"`
	Tracks      playlistTracks `json:"tracks"`
}

type searchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
	} `json:"tracks"`
}

// SpotifyService implements the [Service] interface over the Spotify Web API.
// Uses [oauth2] for the authorization-code and refresh grants; data calls are
// plain bearer-token requests throttled by a client-side [rate.Limiter].
type SpotifyService struct {
	config     *oauth2.Config
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/auth/spotify/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-private",
			"user-read-email",
			"playlist-modify-public",
			"playlist-modify-private",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:   spotifyAuthURL,
			TokenURL:  spotifyTokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), 1),
		baseURL:    spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL returns the OAuth2 authorization URL for user login.
//
// An empty state is omitted from the query string.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token pair via a single POST
// with client credentials in the Authorization header.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*Token, error) {
	tok, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, authError("token exchange failed", err)
	}
	return fromOAuthToken(tok), nil
}

// Refresh mints a new access token from the stored refresh token. When the
// provider response omits a refresh token, the input one is carried forward
// unchanged (the oauth2 transport preserves it).
func (s *SpotifyService) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	src := s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, authError("token refresh failed", err)
	}
	return fromOAuthToken(tok), nil
}

// Profile retrieves the profile of the user the access token belongs to.
func (s *SpotifyService) Profile(ctx context.Context, accessToken string) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", accessToken, nil, &user, shared.ErrUpstreamAuth); err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchTracks runs a track search with the given query and result limit.
//
// A response with zero items is returned as an empty slice, not an error.
func (s *SpotifyService) SearchTracks(ctx context.Context, accessToken, query string, limit int) ([]SpotifyTrack, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", fmt.Sprintf("%d", limit))

	var response searchResponse
	endpoint := "/search?" + params.Encode()
	if err := s.doRequest(ctx, http.MethodGet, endpoint, accessToken, nil, &response, shared.ErrUpstreamAPI); err != nil {
		return nil, err
	}

	return response.Tracks.Items, nil
}

// CreatePlaylist creates a playlist owned by the given Spotify user id.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, accessToken, ownerID, name, description string, public bool) (*SpotifyPlaylist, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}

	var playlist SpotifyPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(ownerID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, accessToken, body, &playlist, shared.ErrUpstreamAPI); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// AddTracks appends the given track URIs to a playlist in one batch call.
func (s *SpotifyService) AddTracks(ctx context.Context, accessToken, playlistID string, uris []string) error {
	body := map[string]any{"uris": uris}
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return s.doRequest(ctx, http.MethodPost, endpoint, accessToken, body, nil, shared.ErrUpstreamAPI)
}

// doRequest performs an authenticated HTTP request against the Spotify Web API.
//
// Non-2xx responses are wrapped with the given sentinel, surfacing the
// upstream status text.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint, accessToken string, body any, result any, sentinel error) error {
	if accessToken == "" {
		return fmt.Errorf("%w: no access token", shared.ErrNotAuthenticated)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}

	apiURL := s.baseURL + endpoint

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s", sentinel, resp.Status)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// fromOAuthToken converts an [oauth2.Token] into the service-level [Token].
func fromOAuthToken(tok *oauth2.Token) *Token {
	return &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}
}

// authError wraps a failed token operation as [shared.ErrUpstreamAuth],
// surfacing the upstream status text when the provider returned one.
func authError(op string, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return fmt.Errorf("%w: %s: %s", shared.ErrUpstreamAuth, op, retrieveErr.Response.Status)
	}
	return fmt.Errorf("%w: %s: %v", shared.ErrUpstreamAuth, op, err)
}
