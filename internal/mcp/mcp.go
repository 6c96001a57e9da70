// Package mcp exposes playlist generation as Model Context Protocol tools.
//
// The server speaks JSON-RPC 2.0 over HTTP (initialize, tools/list,
// tools/call) plus an SSE endpoint announcing the RPC path. Domain failures
// surface as isError tool results so agent callers can read them as text;
// protocol failures map to JSON-RPC error codes.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/thornwyck/focusfm/internal/formatter"
	"github.com/thornwyck/focusfm/internal/shared"
	"github.com/thornwyck/focusfm/internal/tasks"
)

const protocolVersion = "2024-11-05"

// Server implements the MCP tool surface over a playlist [tasks.Engine].
// Implements the server.Handler interface for registration with a router.
type Server struct {
	engine  tasks.Engine
	logger  *log.Logger
	version string
}

// NewServer creates a new MCP [Server] over the given engine.
func NewServer(engine tasks.Engine, logger *log.Logger, version string) *Server {
	return &Server{engine: engine, logger: logger, version: version}
}

// Tool represents an MCP tool definition.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// JSONRPCRequest represents a JSON-RPC 2.0 request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Routes returns the HTTP routes this handler serves.
func (s *Server) Routes() []string {
	return []string{"/mcp", "/mcp/sse"}
}

// ServeHTTP dispatches between the RPC and SSE endpoints.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/mcp":
		s.handleRPC(w, r)
	case "/mcp/sse":
		s.handleSSE(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, nil, -32700, "parse error")
		return
	}

	var result any
	var err error

	switch req.Method {
	case "tools/list":
		result = s.listTools()
	case "tools/call":
		result, err = s.callTool(r.Context(), req.Params)
	case "initialize":
		result = map[string]any{
			"protocolVersion": protocolVersion,
			"serverInfo": map[string]string{
				"name":    "focusfm",
				"version": s.version,
			},
			"capabilities": map[string]any{
				"tools": map[string]bool{"listChanged": false},
			},
		}
	default:
		writeError(w, req.ID, -32601, "method not found")
		return
	}

	if err != nil {
		writeError(w, req.ID, -32603, err.Error())
		return
	}

	writeResult(w, req.ID, result)
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Announce the RPC endpoint, then hold the stream open.
	fmt.Fprintf(w, "event: endpoint\ndata: /mcp\n\n")
	flusher.Flush()

	<-r.Context().Done()
}

func (s *Server) listTools() map[string]any {
	tools := []Tool{
		{
			Name:        "get_spotify_auth_url",
			Description: "Get the Spotify authorization URL to start the OAuth flow",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"state": {"type": "string", "description": "Optional state parameter for OAuth flow"}
				}
			}`),
		},
		{
			Name:        "authenticate_spotify",
			Description: "Exchange a Spotify OAuth callback code and store the authenticated user",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"code": {"type": "string", "description": "Authorization code from Spotify OAuth callback"}
				},
				"required": ["code"]
			}`),
		},
		{
			Name:        "generate_spotify_playlist",
			Description: "Generate a mood-based playlist on the user's Spotify account",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"userId": {"type": "string", "description": "User ID from the database"},
					"mood": {"type": "string", "description": "Mood for the playlist (e.g., 'focused', 'energetic', 'calm')"},
					"playlistName": {"type": "string", "description": "Name for the new Spotify playlist"},
					"trackCount": {"type": "number", "minimum": 1, "maximum": 50, "default": 20, "description": "Number of tracks to include"},
					"isPublic": {"type": "boolean", "default": false, "description": "Whether the playlist should be public"}
				},
				"required": ["userId", "mood", "playlistName"]
			}`),
		},
		{
			Name:        "get_available_moods",
			Description: "List all stored mood tags",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {}
			}`),
		},
		{
			Name:        "get_user_playlists",
			Description: "List the playlists generated for a user",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"userId": {"type": "string", "description": "User ID from the database"}
				},
				"required": ["userId"]
			}`),
		},
	}
	return map[string]any{"tools": tools}
}

func (s *Server) callTool(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	s.logger.Debug("tool call", "tool", req.Name)

	switch req.Name {
	case "get_spotify_auth_url":
		var args struct {
			State string `json:"state"`
		}
		json.Unmarshal(req.Arguments, &args)

		return textResult(formatter.FormatAuthURL(s.engine.AuthURL(args.State))), nil

	case "authenticate_spotify":
		var args struct {
			Code string `json:"code"`
		}
		json.Unmarshal(req.Arguments, &args)

		user, err := s.engine.Authenticate(ctx, args.Code)
		if err != nil {
			return errorResult(fmt.Sprintf("Authentication failed: %v", err)), nil
		}
		return textResult(formatter.FormatAuthSuccess(user)), nil

	case "generate_spotify_playlist":
		var args struct {
			UserID       string `json:"userId"`
			Mood         string `json:"mood"`
			PlaylistName string `json:"playlistName"`
			TrackCount   int    `json:"trackCount"`
			IsPublic     bool   `json:"isPublic"`
		}
		json.Unmarshal(req.Arguments, &args)

		result, err := s.engine.Generate(ctx, nil, tasks.GenerateRequest{
			UserID:       args.UserID,
			Mood:         args.Mood,
			PlaylistName: args.PlaylistName,
			TrackCount:   args.TrackCount,
			Public:       args.IsPublic,
		})
		if err != nil {
			return errorResult(generateErrorText(err, args.Mood)), nil
		}
		return textResult(formatter.FormatGenerateResult(result)), nil

	case "get_available_moods":
		moods, err := s.engine.ListMoods()
		if err != nil {
			return errorResult(fmt.Sprintf("Error fetching moods: %v", err)), nil
		}
		return textResult(formatter.FormatMoods(moods)), nil

	case "get_user_playlists":
		var args struct {
			UserID string `json:"userId"`
		}
		json.Unmarshal(req.Arguments, &args)

		playlists, err := s.engine.ListUserPlaylists(args.UserID)
		if err != nil {
			return errorResult(fmt.Sprintf("Error fetching playlists: %v", err)), nil
		}
		return textResult(formatter.FormatPlaylists(playlists)), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", req.Name)
	}
}

// generateErrorText maps the generation error taxonomy to the agent-facing
// messages.
func generateErrorText(err error, mood string) string {
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		return "User not found or not authenticated with Spotify"
	case errors.Is(err, shared.ErrReauthRequired):
		return "Access token expired and no refresh token available. Please re-authenticate."
	case errors.Is(err, shared.ErrNoTracksFound):
		return fmt.Sprintf("No tracks found for mood: %s", mood)
	default:
		return fmt.Sprintf("Failed to create playlist: %v", err)
	}
}

func textResult(text string) map[string]any {
	return map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
	}
}

func errorResult(text string) map[string]any {
	return map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
		"isError": true,
	}
}

func writeResult(w http.ResponseWriter, id any, result any) {
	resp := JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, id any, code int, message string) {
	resp := JSONRPCResponse{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
