package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/thornwyck/focusfm/internal/models"
	"github.com/thornwyck/focusfm/internal/repositories"
	"github.com/thornwyck/focusfm/internal/services"
	"github.com/thornwyck/focusfm/internal/shared"
)

// TokenManager hands out usable access tokens, refreshing expired ones
// transparently. Refreshes for the same user are serialized with a per-user
// mutex so concurrent operations do not race the provider with the same
// refresh token.
type TokenManager struct {
	users   *repositories.UserRepository
	spotify services.Service

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTokenManager creates a [TokenManager] over the given user store and service.
func NewTokenManager(users *repositories.UserRepository, spotify services.Service) *TokenManager {
	return &TokenManager{
		users:   users,
		spotify: spotify,
		locks:   make(map[string]*sync.Mutex),
	}
}

// EnsureAccess returns a valid access token for the user, refreshing and
// persisting credentials first when the stored token has expired.
//
// A user without an access token maps to [shared.ErrNotAuthenticated]; an
// expired token with no refresh token maps to [shared.ErrReauthRequired].
func (tm *TokenManager) EnsureAccess(ctx context.Context, user *models.User) (string, error) {
	if user.AccessToken() == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, user.ID())
	}

	if !user.TokenExpired(time.Now()) {
		return user.AccessToken(), nil
	}

	lock := tm.userLock(user.ID())
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock: a concurrent caller may have refreshed already.
	fresh, err := tm.users.Get(user.ID())
	if err != nil {
		return "", err
	}
	if !fresh.TokenExpired(time.Now()) {
		user.SetTokens(fresh.AccessToken(), fresh.RefreshToken(), *fresh.TokenExpiresAt())
		return fresh.AccessToken(), nil
	}

	if fresh.RefreshToken() == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrReauthRequired, user.ID())
	}

	token, err := tm.spotify.Refresh(ctx, fresh.RefreshToken())
	if err != nil {
		return "", err
	}

	fresh.SetTokens(token.AccessToken, token.RefreshToken, token.ExpiresAt)
	if err := tm.users.Update(fresh); err != nil {
		return "", fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	user.SetTokens(token.AccessToken, token.RefreshToken, token.ExpiresAt)
	return token.AccessToken, nil
}

func (tm *TokenManager) userLock(userID string) *sync.Mutex {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	lock, ok := tm.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		tm.locks[userID] = lock
	}
	return lock
}
