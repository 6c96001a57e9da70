package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/thornwyck/focusfm/internal/tasks"
)

// AppHandler serves the public HTTP surface: identification, health, and
// the browser-facing OAuth flow. Implements the [Handler] interface for
// registration with a [Router].
type AppHandler struct {
	engine tasks.Engine
	logger *log.Logger
}

// NewAppHandler creates a new [AppHandler] over the given engine.
func NewAppHandler(engine tasks.Engine, logger *log.Logger) *AppHandler {
	return &AppHandler{engine: engine, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *AppHandler) Routes() []string {
	return []string{"/", "/health", "/auth/spotify", "/auth/spotify/callback"}
}

// ServeHTTP dispatches to the route-specific handlers.
func (h *AppHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/":
		h.handleRoot(w, r)
	case "/health":
		h.handleHealth(w, r)
	case "/auth/spotify":
		h.handleAuthRedirect(w, r)
	case "/auth/spotify/callback":
		h.handleAuthCallback(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *AppHandler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "focusfm MCP server")
}

// handleHealth reports service status plus local cache counts.
func (h *AppHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	stats, err := h.engine.Stats()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"status":           "healthy",
		"moods_available":  stats.Moods,
		"tracks_available": stats.Tracks,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}

// handleAuthRedirect sends the browser to the Spotify authorization page.
func (h *AppHandler) handleAuthRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.engine.AuthURL(""), http.StatusFound)
}

// handleAuthCallback completes the authorization code flow and stores the
// user. The response echoes the row ID callers need for the MCP tools.
func (h *AppHandler) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		http.Error(w, fmt.Sprintf("Authentication error: %s", errParam), http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	user, err := h.engine.Authenticate(r.Context(), code)
	if err != nil {
		h.logger.Error("authentication failed", "error", err)
		http.Error(w, fmt.Sprintf("Authentication failed: %v", err), http.StatusInternalServerError)
		return
	}

	h.logger.Info("user authenticated", "user_id", user.ID(), "spotify_id", user.SpotifyID())
	fmt.Fprintf(w, "Successfully authenticated! Welcome %s. Your user ID is: %s", user.DisplayName(), user.ID())
}
