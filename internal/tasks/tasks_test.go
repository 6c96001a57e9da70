package tasks

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/thornwyck/focusfm/internal/models"
	"github.com/thornwyck/focusfm/internal/repositories"
	"github.com/thornwyck/focusfm/internal/services"
	"github.com/thornwyck/focusfm/internal/shared"
)

type mockService struct {
	authURL         string
	exchangeToken   *services.Token
	exchangeErr     error
	profile         *services.SpotifyUser
	profileErr      error
	searchResults   []services.SpotifyTrack
	searchErr       error
	searchQuery     string
	searchLimit     int
	createdPlaylist *services.SpotifyPlaylist
	createErr       error
	createdName     string
	createdDesc     string
	createdPublic   bool
	addedURIs       []string
	addErr          error
	refreshResult   *services.Token
	refreshErr      error
	refreshCalls    int
}

func (m *mockService) Name() string { return "Spotify" }

func (m *mockService) AuthURL(state string) string {
	return m.authURL
}

func (m *mockService) Exchange(ctx context.Context, code string) (*services.Token, error) {
	if m.exchangeErr != nil {
		return nil, m.exchangeErr
	}
	return m.exchangeToken, nil
}

func (m *mockService) Refresh(ctx context.Context, refreshToken string) (*services.Token, error) {
	m.refreshCalls++
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	return m.refreshResult, nil
}

func (m *mockService) Profile(ctx context.Context, accessToken string) (*services.SpotifyUser, error) {
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	return m.profile, nil
}

func (m *mockService) SearchTracks(ctx context.Context, accessToken, query string, limit int) ([]services.SpotifyTrack, error) {
	m.searchQuery = query
	m.searchLimit = limit
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResults, nil
}

func (m *mockService) CreatePlaylist(ctx context.Context, accessToken, ownerID, name, description string, public bool) (*services.SpotifyPlaylist, error) {
	m.createdName = name
	m.createdDesc = description
	m.createdPublic = public
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.createdPlaylist, nil
}

func (m *mockService) AddTracks(ctx context.Context, accessToken, playlistID string, uris []string) error {
	m.addedURIs = uris
	return m.addErr
}

// setupEngine creates a PlaylistEngine over an in-memory database and the
// given mock service, returning the engine plus repositories for assertions.
func setupEngine(t *testing.T, svc services.Service) (*PlaylistEngine, *sql.DB) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	engine := NewPlaylistEngine(svc,
		repositories.NewUserRepository(db),
		repositories.NewMoodRepository(db),
		repositories.NewTrackRepository(db),
		repositories.NewSpotifyPlaylistRepository(db),
	)
	return engine, db
}

// seedUser stores an authenticated user with the given token expiry.
func seedUser(t *testing.T, db *sql.DB, expiresAt time.Time) *models.User {
	t.Helper()

	users := repositories.NewUserRepository(db)
	user := models.NewUser("spotify_user_1", "test@example.com", "Test User")
	user.SetTokens("stored_access", "stored_refresh", expiresAt)
	if err := users.Create(user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func sampleTracks() []services.SpotifyTrack {
	return []services.SpotifyTrack{
		{
			ID:         "t1",
			Name:       "Weightless",
			Artists:    []services.SpotifyArtist{{Name: "Marconi Union"}},
			Album:      services.SpotifyAlbum{Name: "Ambient 1"},
			DurationMS: 480000,
		},
		{
			ID:         "t2",
			Name:       "Intro",
			Artists:    []services.SpotifyArtist{{Name: "The xx"}},
			Album:      services.SpotifyAlbum{Name: "xx"},
			DurationMS: 128000,
		},
	}
}

func TestSearchQuery(t *testing.T) {
	cases := []struct {
		mood string
		want string
	}{
		{"focused", "instrumental focus ambient study"},
		{"energetic", "upbeat electronic dance workout"},
		{"calm", "acoustic chill relaxing peaceful"},
		{"creative", "indie experimental atmospheric ambient"},
		{"productive", "lo-fi beats study concentration"},
		{"motivated", "motivational uplifting energetic"},
		{"melancholy", "melancholy music"},
	}

	for _, tc := range cases {
		if got := SearchQuery(tc.mood); got != tc.want {
			t.Errorf("SearchQuery(%q) = %q, want %q", tc.mood, got, tc.want)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	t.Run("Stores New User", func(t *testing.T) {
		svc := &mockService{
			exchangeToken: &services.Token{
				AccessToken:  "access",
				RefreshToken: "refresh",
				ExpiresAt:    time.Now().Add(time.Hour),
			},
			profile: &services.SpotifyUser{ID: "spotify_user_1", DisplayName: "Ann", Email: "ann@example.com"},
		}
		engine, _ := setupEngine(t, svc)

		user, err := engine.Authenticate(context.Background(), "auth_code")
		if err != nil {
			t.Fatalf("authenticate failed: %v", err)
		}

		if user.ID() == "" {
			t.Error("stored user should carry a row ID")
		}
		if user.SpotifyID() != "spotify_user_1" || user.Email() != "ann@example.com" {
			t.Errorf("unexpected user: %s / %s", user.SpotifyID(), user.Email())
		}
		if user.AccessToken() != "access" {
			t.Errorf("expected stored access token, got %s", user.AccessToken())
		}
	})

	t.Run("Repeat Auth Keeps Row", func(t *testing.T) {
		svc := &mockService{
			exchangeToken: &services.Token{AccessToken: "a1", RefreshToken: "r1", ExpiresAt: time.Now().Add(time.Hour)},
			profile:       &services.SpotifyUser{ID: "spotify_user_1", DisplayName: "Ann", Email: "ann@example.com"},
		}
		engine, _ := setupEngine(t, svc)

		first, err := engine.Authenticate(context.Background(), "code_1")
		if err != nil {
			t.Fatalf("authenticate failed: %v", err)
		}

		svc.exchangeToken = &services.Token{AccessToken: "a2", RefreshToken: "r2", ExpiresAt: time.Now().Add(time.Hour)}
		second, err := engine.Authenticate(context.Background(), "code_2")
		if err != nil {
			t.Fatalf("repeat authenticate failed: %v", err)
		}

		if second.ID() != first.ID() {
			t.Error("re-authentication should reuse the existing user row")
		}
		if second.AccessToken() != "a2" {
			t.Errorf("expected rotated access token, got %s", second.AccessToken())
		}
	})

	t.Run("Missing Code", func(t *testing.T) {
		engine, _ := setupEngine(t, &mockService{})

		_, err := engine.Authenticate(context.Background(), "")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Exchange Failure", func(t *testing.T) {
		svc := &mockService{exchangeErr: shared.ErrUpstreamAuth}
		engine, _ := setupEngine(t, svc)

		_, err := engine.Authenticate(context.Background(), "bad_code")
		if !errors.Is(err, shared.ErrUpstreamAuth) {
			t.Errorf("expected ErrUpstreamAuth, got %v", err)
		}
	})
}

func TestGenerate(t *testing.T) {
	t.Run("Full Run", func(t *testing.T) {
		svc := &mockService{
			searchResults:   sampleTracks(),
			createdPlaylist: &services.SpotifyPlaylist{ID: "sp_pl_1", Name: "Deep Focus"},
		}
		engine, db := setupEngine(t, svc)
		user := seedUser(t, db, time.Now().Add(time.Hour))

		result, err := engine.Generate(context.Background(), nil, GenerateRequest{
			UserID:       user.ID(),
			Mood:         "focused",
			PlaylistName: "Deep Focus",
			TrackCount:   2,
		})
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}

		if svc.searchQuery != "instrumental focus ambient study" {
			t.Errorf("unexpected search query %q", svc.searchQuery)
		}
		if svc.createdDesc != "A focused playlist generated by focusfm" {
			t.Errorf("unexpected playlist description %q", svc.createdDesc)
		}
		if len(svc.addedURIs) != 2 || svc.addedURIs[0] != "spotify:track:t1" {
			t.Errorf("unexpected URIs %v", svc.addedURIs)
		}

		if result.TrackCount != 2 {
			t.Errorf("expected 2 tracks, got %d", result.TrackCount)
		}
		if result.PlaylistURL != "https://open.spotify.com/playlist/sp_pl_1" {
			t.Errorf("unexpected URL %s", result.PlaylistURL)
		}
		if result.Mood.Name() != "focused" {
			t.Errorf("unexpected mood %s", result.Mood.Name())
		}
		if result.Mood.Description() != "focused music for enhanced focus and productivity" {
			t.Errorf("unexpected mood description %q", result.Mood.Description())
		}

		summaries, err := engine.ListUserPlaylists(user.ID())
		if err != nil {
			t.Fatalf("failed to list playlists: %v", err)
		}
		if len(summaries) != 1 || summaries[0].MoodName != "focused" {
			t.Errorf("unexpected summaries %+v", summaries)
		}

		stats, err := engine.Stats()
		if err != nil {
			t.Fatalf("failed to get stats: %v", err)
		}
		if stats.Moods != 1 || stats.Tracks != 2 {
			t.Errorf("expected 1 mood and 2 cached tracks, got %+v", stats)
		}

		tracks := repositories.NewTrackRepository(db)
		cached, err := tracks.GetBySpotifyID("t1")
		if err != nil {
			t.Fatalf("failed to get cached track: %v", err)
		}
		if cached.EnergyLevel() < 1 || cached.EnergyLevel() > 10 {
			t.Errorf("energy level out of range: %d", cached.EnergyLevel())
		}
		if cached.FocusRating() < 1 || cached.FocusRating() > 10 {
			t.Errorf("focus rating out of range: %d", cached.FocusRating())
		}
	})

	t.Run("Default Track Count", func(t *testing.T) {
		svc := &mockService{
			searchResults:   sampleTracks(),
			createdPlaylist: &services.SpotifyPlaylist{ID: "sp_pl_1"},
		}
		engine, db := setupEngine(t, svc)
		user := seedUser(t, db, time.Now().Add(time.Hour))

		_, err := engine.Generate(context.Background(), nil, GenerateRequest{
			UserID:       user.ID(),
			Mood:         "calm",
			PlaylistName: "Calm Mix",
		})
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}

		if svc.searchLimit != defaultTrackCount {
			t.Errorf("expected default limit %d, got %d", defaultTrackCount, svc.searchLimit)
		}
	})

	t.Run("Invalid Track Count", func(t *testing.T) {
		engine, db := setupEngine(t, &mockService{})
		user := seedUser(t, db, time.Now().Add(time.Hour))

		for _, count := range []int{-1, 51, 100} {
			_, err := engine.Generate(context.Background(), nil, GenerateRequest{
				UserID:       user.ID(),
				Mood:         "calm",
				PlaylistName: "Calm Mix",
				TrackCount:   count,
			})
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("count %d: expected ErrInvalidInput, got %v", count, err)
			}
		}
	})

	t.Run("Missing Mood And Name", func(t *testing.T) {
		engine, _ := setupEngine(t, &mockService{})

		_, err := engine.Generate(context.Background(), nil, GenerateRequest{PlaylistName: "X"})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for missing mood, got %v", err)
		}

		_, err = engine.Generate(context.Background(), nil, GenerateRequest{Mood: "calm"})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for missing name, got %v", err)
		}
	})

	t.Run("Unknown User", func(t *testing.T) {
		engine, _ := setupEngine(t, &mockService{})

		_, err := engine.Generate(context.Background(), nil, GenerateRequest{
			UserID:       "nope",
			Mood:         "calm",
			PlaylistName: "Calm Mix",
		})
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("No Tracks Found", func(t *testing.T) {
		svc := &mockService{searchResults: nil}
		engine, db := setupEngine(t, svc)
		user := seedUser(t, db, time.Now().Add(time.Hour))

		_, err := engine.Generate(context.Background(), nil, GenerateRequest{
			UserID:       user.ID(),
			Mood:         "obscure",
			PlaylistName: "Obscure Mix",
		})
		if !errors.Is(err, shared.ErrNoTracksFound) {
			t.Errorf("expected ErrNoTracksFound, got %v", err)
		}

		// A failed search must leave no partial records behind.
		stats, err := engine.Stats()
		if err != nil {
			t.Fatalf("failed to get stats: %v", err)
		}
		if stats.Moods != 0 || stats.Tracks != 0 {
			t.Errorf("expected nothing persisted, got %+v", stats)
		}
	})

	t.Run("Refreshes Expired Token", func(t *testing.T) {
		svc := &mockService{
			searchResults:   sampleTracks(),
			createdPlaylist: &services.SpotifyPlaylist{ID: "sp_pl_1"},
			refreshResult: &services.Token{
				AccessToken:  "refreshed_access",
				RefreshToken: "stored_refresh",
				ExpiresAt:    time.Now().Add(time.Hour),
			},
		}
		engine, db := setupEngine(t, svc)
		user := seedUser(t, db, time.Now().Add(-time.Hour))

		_, err := engine.Generate(context.Background(), nil, GenerateRequest{
			UserID:       user.ID(),
			Mood:         "calm",
			PlaylistName: "Calm Mix",
		})
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}

		if svc.refreshCalls != 1 {
			t.Errorf("expected 1 refresh call, got %d", svc.refreshCalls)
		}

		users := repositories.NewUserRepository(db)
		stored, err := users.Get(user.ID())
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if stored.AccessToken() != "refreshed_access" {
			t.Errorf("refreshed token should be persisted, got %s", stored.AccessToken())
		}
		if stored.TokenExpired(time.Now()) {
			t.Error("persisted token should not be expired")
		}
	})

	t.Run("Expired Without Refresh Token", func(t *testing.T) {
		engine, db := setupEngine(t, &mockService{})

		users := repositories.NewUserRepository(db)
		user := models.NewUser("spotify_user_1", "test@example.com", "Test User")
		user.SetTokens("stored_access", "", time.Now().Add(-time.Hour))
		if err := users.Create(user); err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}

		_, err := engine.Generate(context.Background(), nil, GenerateRequest{
			UserID:       user.ID(),
			Mood:         "calm",
			PlaylistName: "Calm Mix",
		})
		if !errors.Is(err, shared.ErrReauthRequired) {
			t.Errorf("expected ErrReauthRequired, got %v", err)
		}
	})

	t.Run("Reuses Existing Mood", func(t *testing.T) {
		svc := &mockService{
			searchResults:   sampleTracks(),
			createdPlaylist: &services.SpotifyPlaylist{ID: "sp_pl_1"},
		}
		engine, db := setupEngine(t, svc)
		user := seedUser(t, db, time.Now().Add(time.Hour))

		for _, name := range []string{"First", "Second"} {
			svc.createdPlaylist = &services.SpotifyPlaylist{ID: "sp_" + name}
			_, err := engine.Generate(context.Background(), nil, GenerateRequest{
				UserID:       user.ID(),
				Mood:         "calm",
				PlaylistName: name,
			})
			if err != nil {
				t.Fatalf("generate failed: %v", err)
			}
		}

		moods := repositories.NewMoodRepository(db)
		count, err := moods.Count()
		if err != nil {
			t.Fatalf("failed to count moods: %v", err)
		}
		if count != 1 {
			t.Errorf("repeat generations should share one mood row, got %d", count)
		}
	})

	t.Run("Emits Progress", func(t *testing.T) {
		svc := &mockService{
			searchResults:   sampleTracks(),
			createdPlaylist: &services.SpotifyPlaylist{ID: "sp_pl_1"},
		}
		engine, db := setupEngine(t, svc)
		user := seedUser(t, db, time.Now().Add(time.Hour))

		progress := make(chan ProgressUpdate, 10)
		_, err := engine.Generate(context.Background(), progress, GenerateRequest{
			UserID:       user.ID(),
			Mood:         "calm",
			PlaylistName: "Calm Mix",
		})
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}
		if len(phases) != 5 {
			t.Fatalf("expected 5 progress updates, got %d", len(phases))
		}
		if phases[0] != ResolveUser || phases[4] != RecordResults {
			t.Errorf("unexpected phase order: %v", phases)
		}
	})
}
