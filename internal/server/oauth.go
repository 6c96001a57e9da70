package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/thornwyck/focusfm/internal/models"
	"github.com/thornwyck/focusfm/internal/tasks"
)

// LoginResult contains the result of a CLI OAuth authorization flow.
type LoginResult struct {
	User *models.User
	err  error
}

func (l *LoginResult) Error() error {
	return l.err
}

// LoginHandler handles the OAuth2 callback for the CLI login flow.
// Implements the [Handler] interface for registration with a [Router].
//
// The handler validates the state parameter, completes authentication
// through the engine, and sends the stored user through a channel. It only
// processes one callback to prevent replay.
type LoginHandler struct {
	engine      tasks.Engine
	state       string
	resultChan  chan LoginResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewLoginHandler creates a new [LoginHandler] with the given engine and state token.
// The state token should be cryptographically random for CSRF protection.
func NewLoginHandler(engine tasks.Engine, state string) *LoginHandler {
	return &LoginHandler{
		engine:     engine,
		state:      state,
		resultChan: make(chan LoginResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *LoginHandler) Routes() []string {
	return []string{"/auth/spotify/callback"}
}

// ServeHTTP handles the OAuth callback request.
//
// Validates the state parameter, stores the authenticated user via the
// engine, and sends the result through the result channel.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	state := r.URL.Query().Get("state")
	if state != h.state {
		err := fmt.Errorf("invalid state parameter")
		h.Send(LoginResult{err: err})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		err := fmt.Errorf("authorization failed: %s", errParam)
		h.Send(LoginResult{err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	user, err := h.engine.Authenticate(r.Context(), code)
	if err != nil {
		h.Send(LoginResult{err: err})
		http.Error(w, "Authentication failed", http.StatusInternalServerError)
		return
	}

	h.Send(LoginResult{User: user})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`)
}

// Send sends the login result through the channel (only once).
func (h *LoginHandler) Send(result LoginResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving login flow completion.
//
// Channel will receive exactly one result and then be closed.
func (h *LoginHandler) Result() <-chan LoginResult {
	return h.resultChan
}
