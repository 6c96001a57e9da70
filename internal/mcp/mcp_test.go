package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/thornwyck/focusfm/internal/models"
	"github.com/thornwyck/focusfm/internal/shared"
	"github.com/thornwyck/focusfm/internal/tasks"
)

type stubEngine struct {
	authURL     string
	user        *models.User
	authErr     error
	generated   *tasks.GenerateResult
	generateErr error
	moods       []*models.Mood
	playlists   []models.PlaylistSummary
}

func (s *stubEngine) AuthURL(state string) string { return s.authURL }

func (s *stubEngine) Authenticate(ctx context.Context, code string) (*models.User, error) {
	if s.authErr != nil {
		return nil, s.authErr
	}
	return s.user, nil
}

func (s *stubEngine) Generate(ctx context.Context, progress chan<- tasks.ProgressUpdate, req tasks.GenerateRequest) (*tasks.GenerateResult, error) {
	if s.generateErr != nil {
		return nil, s.generateErr
	}
	return s.generated, nil
}

func (s *stubEngine) ListMoods() ([]*models.Mood, error) { return s.moods, nil }

func (s *stubEngine) ListUserPlaylists(userID string) ([]models.PlaylistSummary, error) {
	return s.playlists, nil
}

func (s *stubEngine) Stats() (*tasks.LibraryStats, error) { return &tasks.LibraryStats{}, nil }

// call posts a JSON-RPC request to the server and decodes the response.
func call(t *testing.T, srv *Server, body string) JSONRPCResponse {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp JSONRPCResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

// toolText extracts the first text content block from a tools/call result.
func toolText(t *testing.T, resp JSONRPCResponse) (string, bool) {
	t.Helper()

	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("result is not an object: %v", resp.Result)
	}

	content := result["content"].([]any)
	block := content[0].(map[string]any)
	isError, _ := result["isError"].(bool)
	return block["text"].(string), isError
}

func newTestServer(engine tasks.Engine) *Server {
	return NewServer(engine, log.New(io.Discard), "1.0.0")
}

func callBody(tool, arguments string) string {
	return fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":%q,"arguments":%s}}`, tool, arguments)
}

func TestInitialize(t *testing.T) {
	srv := newTestServer(&stubEngine{})

	resp := call(t, srv, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	result := resp.Result.(map[string]any)
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("unexpected protocol version %v", result["protocolVersion"])
	}
	info := result["serverInfo"].(map[string]any)
	if info["name"] != "focusfm" {
		t.Errorf("unexpected server name %v", info["name"])
	}
}

func TestListTools(t *testing.T) {
	srv := newTestServer(&stubEngine{})

	resp := call(t, srv, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	result := resp.Result.(map[string]any)
	tools := result["tools"].([]any)
	if len(tools) != 5 {
		t.Fatalf("expected 5 tools, got %d", len(tools))
	}

	names := make(map[string]bool)
	for _, tool := range tools {
		names[tool.(map[string]any)["name"].(string)] = true
	}
	for _, want := range []string{"get_spotify_auth_url", "authenticate_spotify", "generate_spotify_playlist", "get_available_moods", "get_user_playlists"} {
		if !names[want] {
			t.Errorf("missing tool %s", want)
		}
	}
}

func TestCallTool(t *testing.T) {
	t.Run("Auth URL", func(t *testing.T) {
		srv := newTestServer(&stubEngine{authURL: "https://accounts.spotify.com/authorize?x=1"})

		resp := call(t, srv, callBody("get_spotify_auth_url", `{"state":"s1"}`))
		text, isError := toolText(t, resp)
		if isError {
			t.Fatal("unexpected error result")
		}
		if !strings.Contains(text, "Please visit this URL to authenticate with Spotify: https://accounts.spotify.com") {
			t.Errorf("unexpected text %q", text)
		}
	})

	t.Run("Authenticate Success", func(t *testing.T) {
		user := models.NewUser("sp1", "ann@example.com", "Ann")
		srv := newTestServer(&stubEngine{user: user})

		resp := call(t, srv, callBody("authenticate_spotify", `{"code":"abc"}`))
		text, isError := toolText(t, resp)
		if isError {
			t.Fatal("unexpected error result")
		}
		if text != "Successfully authenticated! User: Ann (ann@example.com)" {
			t.Errorf("unexpected text %q", text)
		}
	})

	t.Run("Authenticate Failure", func(t *testing.T) {
		srv := newTestServer(&stubEngine{authErr: shared.ErrUpstreamAuth})

		resp := call(t, srv, callBody("authenticate_spotify", `{"code":"bad"}`))
		text, isError := toolText(t, resp)
		if !isError {
			t.Fatal("expected error result")
		}
		if !strings.HasPrefix(text, "Authentication failed:") {
			t.Errorf("unexpected text %q", text)
		}
	})

	t.Run("Generate Success", func(t *testing.T) {
		playlist := models.NewSpotifyPlaylist("u1", "sp_pl_1", "Deep Focus", "", nil, 20, false)
		srv := newTestServer(&stubEngine{generated: &tasks.GenerateResult{
			Playlist:    playlist,
			PlaylistURL: playlist.URL(),
			TrackCount:  20,
		}})

		resp := call(t, srv, callBody("generate_spotify_playlist",
			`{"userId":"u1","mood":"focused","playlistName":"Deep Focus"}`))
		text, isError := toolText(t, resp)
		if isError {
			t.Fatal("unexpected error result")
		}
		if !strings.Contains(text, `Successfully created Spotify playlist "Deep Focus" with 20 tracks!`) {
			t.Errorf("unexpected text %q", text)
		}
		if !strings.Contains(text, "Playlist URL: https://open.spotify.com/playlist/sp_pl_1") {
			t.Errorf("missing URL in %q", text)
		}
	})

	t.Run("Generate Error Taxonomy", func(t *testing.T) {
		cases := []struct {
			err  error
			want string
		}{
			{shared.ErrNotAuthenticated, "User not found or not authenticated with Spotify"},
			{shared.ErrReauthRequired, "Access token expired and no refresh token available. Please re-authenticate."},
			{shared.ErrNoTracksFound, "No tracks found for mood: obscure"},
			{fmt.Errorf("wrapped: %w", shared.ErrUpstreamAPI), "Failed to create playlist: wrapped: spotify API request rejected"},
		}

		for _, tc := range cases {
			srv := newTestServer(&stubEngine{generateErr: tc.err})

			resp := call(t, srv, callBody("generate_spotify_playlist",
				`{"userId":"u1","mood":"obscure","playlistName":"X"}`))
			text, isError := toolText(t, resp)
			if !isError {
				t.Errorf("%v: expected error result", tc.err)
			}
			if text != tc.want {
				t.Errorf("%v: got %q, want %q", tc.err, text, tc.want)
			}
		}
	})

	t.Run("Available Moods Empty", func(t *testing.T) {
		srv := newTestServer(&stubEngine{})

		resp := call(t, srv, callBody("get_available_moods", `{}`))
		text, isError := toolText(t, resp)
		if isError {
			t.Fatal("unexpected error result")
		}
		if !strings.Contains(text, "No moods available. Try creating a playlist first!") {
			t.Errorf("unexpected text %q", text)
		}
	})

	t.Run("User Playlists", func(t *testing.T) {
		srv := newTestServer(&stubEngine{playlists: []models.PlaylistSummary{
			{Name: "Deep Focus", TrackCount: 20, MoodName: "focused", SpotifyPlaylistID: "sp1"},
		}})

		resp := call(t, srv, callBody("get_user_playlists", `{"userId":"u1"}`))
		text, isError := toolText(t, resp)
		if isError {
			t.Fatal("unexpected error result")
		}
		if !strings.Contains(text, "- Deep Focus (20 tracks, focused)") {
			t.Errorf("unexpected text %q", text)
		}
	})

	t.Run("Unknown Tool", func(t *testing.T) {
		srv := newTestServer(&stubEngine{})

		resp := call(t, srv, callBody("no_such_tool", `{}`))
		if resp.Error == nil || resp.Error.Code != -32603 {
			t.Errorf("expected internal error, got %v", resp.Error)
		}
	})
}

func TestProtocolErrors(t *testing.T) {
	t.Run("Parse Error", func(t *testing.T) {
		srv := newTestServer(&stubEngine{})

		resp := call(t, srv, `{not json`)
		if resp.Error == nil || resp.Error.Code != -32700 {
			t.Errorf("expected parse error, got %v", resp.Error)
		}
	})

	t.Run("Method Not Found", func(t *testing.T) {
		srv := newTestServer(&stubEngine{})

		resp := call(t, srv, `{"jsonrpc":"2.0","id":1,"method":"nope"}`)
		if resp.Error == nil || resp.Error.Code != -32601 {
			t.Errorf("expected method not found, got %v", resp.Error)
		}
	})

	t.Run("RPC Requires POST", func(t *testing.T) {
		srv := newTestServer(&stubEngine{})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mcp", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}
