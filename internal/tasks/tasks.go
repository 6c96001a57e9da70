package tasks

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/thornwyck/focusfm/internal/models"
	"github.com/thornwyck/focusfm/internal/repositories"
	"github.com/thornwyck/focusfm/internal/services"
	"github.com/thornwyck/focusfm/internal/shared"
)

const (
	defaultTrackCount = 20
	maxTrackCount     = 50
)

// GenerateRequest describes one playlist generation run.
type GenerateRequest struct {
	UserID       string // Row ID of an authenticated user
	Mood         string // Mood label, well-known or free-form
	PlaylistName string // Name for the new Spotify playlist
	TrackCount   int    // Number of tracks to include, 0 means default
	Public       bool   // Whether the playlist is publicly visible
}

// GenerateResult contains all data from a completed generation run.
type GenerateResult struct {
	Playlist    *models.SpotifyPlaylist // Local record of the created playlist
	PlaylistURL string                  // Public browse URL on Spotify
	TrackCount  int                     // Tracks actually added
	Mood        *models.Mood            // Mood tag the playlist was filed under
}

// LibraryStats summarizes the local cache for health reporting.
type LibraryStats struct {
	Moods  int // Stored mood tags
	Tracks int // Cached tracks
}

// Engine defines the playlist generation operations exposed to transports.
type Engine interface {
	// AuthURL builds the Spotify authorization URL for the OAuth flow.
	AuthURL(state string) string

	// Authenticate exchanges an OAuth callback code and stores the resulting user.
	Authenticate(ctx context.Context, code string) (*models.User, error)

	// Generate searches Spotify by mood, creates a playlist on the user's account, and records it locally.
	Generate(ctx context.Context, progress chan<- ProgressUpdate, req GenerateRequest) (*GenerateResult, error)

	// ListMoods returns all stored mood tags in insertion order.
	ListMoods() ([]*models.Mood, error)

	// ListUserPlaylists returns the user's generated playlists with mood names.
	ListUserPlaylists(userID string) ([]models.PlaylistSummary, error)

	// Stats reports local cache counts for health checks.
	Stats() (*LibraryStats, error)
}

// PlaylistEngine implements [Engine] backed by the Spotify client and SQLite
// repositories.
type PlaylistEngine struct {
	spotify   services.Service
	tokens    *TokenManager
	users     *repositories.UserRepository
	moods     *repositories.MoodRepository
	tracks    *repositories.TrackRepository
	playlists *repositories.SpotifyPlaylistRepository
}

// NewPlaylistEngine creates a new [PlaylistEngine] with the provided service and repositories.
func NewPlaylistEngine(
	spotify services.Service,
	users *repositories.UserRepository,
	moods *repositories.MoodRepository,
	tracks *repositories.TrackRepository,
	playlists *repositories.SpotifyPlaylistRepository,
) *PlaylistEngine {
	return &PlaylistEngine{
		spotify:   spotify,
		tokens:    NewTokenManager(users, spotify),
		users:     users,
		moods:     moods,
		tracks:    tracks,
		playlists: playlists,
	}
}

// AuthURL builds the Spotify authorization URL for the OAuth flow.
func (e *PlaylistEngine) AuthURL(state string) string {
	return e.spotify.AuthURL(state)
}

// Authenticate exchanges the authorization code, fetches the Spotify profile,
// and upserts the user keyed by their Spotify account id. Re-authentication
// refreshes the stored profile and credentials on the existing row.
func (e *PlaylistEngine) Authenticate(ctx context.Context, code string) (*models.User, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", shared.ErrInvalidInput)
	}

	token, err := e.spotify.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	profile, err := e.spotify.Profile(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(profile.ID, profile.Email, profile.DisplayName)
	user.SetTokens(token.AccessToken, token.RefreshToken, token.ExpiresAt)

	stored, err := e.users.UpsertBySpotifyID(user)
	if err != nil {
		return nil, err
	}

	return stored, nil
}

// Generate runs a full playlist generation: mood-driven track search,
// playlist creation and population on the user's Spotify account, then local
// bookkeeping (playlist record, mood tag, track cache).
//
// Nothing is persisted when the search yields no tracks.
func (e *PlaylistEngine) Generate(ctx context.Context, progress chan<- ProgressUpdate, req GenerateRequest) (*GenerateResult, error) {
	mood := strings.TrimSpace(req.Mood)
	if mood == "" {
		return nil, fmt.Errorf("%w: mood is required", shared.ErrInvalidInput)
	}
	if req.PlaylistName == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	trackCount := req.TrackCount
	if trackCount == 0 {
		trackCount = defaultTrackCount
	}
	if trackCount < 1 || trackCount > maxTrackCount {
		return nil, fmt.Errorf("%w: track count must be between 1 and %d", shared.ErrInvalidInput, maxTrackCount)
	}

	e.sendProgress(progress, resolvingUserUpdate())

	user, err := e.users.Get(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, req.UserID)
	}

	accessToken, err := e.tokens.EnsureAccess(ctx, user)
	if err != nil {
		return nil, err
	}

	query := SearchQuery(mood)
	e.sendProgress(progress, searchingTracksUpdate(query))

	found, err := e.spotify.SearchTracks(ctx, accessToken, query, trackCount)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoTracksFound, mood)
	}

	e.sendProgress(progress, creatingPlaylistUpdate(req.PlaylistName))

	description := playlistDescription(mood)
	created, err := e.spotify.CreatePlaylist(ctx, accessToken, user.SpotifyID(), req.PlaylistName, description, req.Public)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, addingTracksUpdate(len(found)))

	uris := make([]string, len(found))
	for i, track := range found {
		uris[i] = track.TrackURI()
	}
	if err := e.spotify.AddTracks(ctx, accessToken, created.ID, uris); err != nil {
		return nil, err
	}

	e.sendProgress(progress, recordingResultsUpdate())

	moodRecord, err := e.moods.GetOrCreate(mood, moodDescription(mood))
	if err != nil {
		return nil, err
	}

	moodID := moodRecord.ID()
	record := models.NewSpotifyPlaylist(user.ID(), created.ID, req.PlaylistName, description, &moodID, len(found), req.Public)
	if err := e.playlists.Create(record); err != nil {
		return nil, err
	}

	if err := e.cacheTracks(found); err != nil {
		return nil, err
	}

	return &GenerateResult{
		Playlist:    record,
		PlaylistURL: record.URL(),
		TrackCount:  len(found),
		Mood:        moodRecord,
	}, nil
}

// ListMoods returns all stored mood tags in insertion order.
func (e *PlaylistEngine) ListMoods() ([]*models.Mood, error) {
	return e.moods.List(map[string]any{})
}

// ListUserPlaylists returns the user's generated playlists with mood names.
func (e *PlaylistEngine) ListUserPlaylists(userID string) ([]models.PlaylistSummary, error) {
	return e.playlists.ListByUser(userID)
}

// Stats reports local cache counts for health checks.
func (e *PlaylistEngine) Stats() (*LibraryStats, error) {
	moods, err := e.moods.Count()
	if err != nil {
		return nil, err
	}
	tracks, err := e.tracks.Count()
	if err != nil {
		return nil, err
	}
	return &LibraryStats{Moods: moods, Tracks: tracks}, nil
}

// cacheTracks stores search results in the local track cache, skipping
// tracks already cached. The energy and focus ratings are synthetic
// placeholders drawn uniformly from 1-10.
func (e *PlaylistEngine) cacheTracks(found []services.SpotifyTrack) error {
	for _, t := range found {
		track := models.NewTrack(t.Name, t.ArtistNames(), t.Album.Name,
			t.DurationMS/1000, t.ID, rand.IntN(10)+1, rand.IntN(10)+1)
		if err := e.tracks.CreateIfAbsent(track); err != nil {
			return fmt.Errorf("failed to cache track %s: %w", t.ID, err)
		}
	}
	return nil
}

// sendProgress sends a progress update through the channel without blocking.
// A full or absent channel drops the update rather than stalling the run.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
