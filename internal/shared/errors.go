package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Upstream errors. ErrUpstreamAuth covers rejected token operations at
	// the identity provider; ErrUpstreamAPI covers rejected data operations
	// at the music API. Both carry the upstream status text when wrapped.
	ErrUpstreamAuth = fmt.Errorf("spotify auth request rejected")
	ErrUpstreamAPI  = fmt.Errorf("spotify API request rejected")

	// Token lifecycle errors
	ErrNotAuthenticated = fmt.Errorf("user not found or not authenticated with Spotify")
	ErrReauthRequired   = fmt.Errorf("access token expired and no refresh token available")

	// Workflow errors
	ErrNoTracksFound = fmt.Errorf("no tracks found")
	ErrUserNotFound  = fmt.Errorf("user not found")
	ErrMoodNotFound  = fmt.Errorf("mood not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// CLI errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTimeout            = fmt.Errorf("operation timed out")
)
