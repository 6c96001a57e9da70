// Package tasks implements mood playlist generation against a user's Spotify
// account.
//
// The core abstraction is [Engine], which orchestrates authentication,
// track search, playlist creation, and local bookkeeping. Long-running
// operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
//
// Key Implementations:
//   - [PlaylistEngine] : the production engine backed by the Spotify client and SQLite repositories
//   - [TokenManager] : transparent access token refresh with per-user serialization
package tasks
