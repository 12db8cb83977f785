package auth

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dekho-exam/prep-engine/internal/model"
	"github.com/dekho-exam/prep-engine/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
	keyProfile      = "userProfile"
	keyDeviceID     = "deviceId"
)

// TokenStore caches the session tokens and profile on device and hands the
// access token to the API client. It is the engine's stand-in for the app's
// async-storage auth cache.
type TokenStore struct {
	store storage.Store
	log   zerolog.Logger

	mu      sync.RWMutex
	access  string
	refresh string
	profile *model.Profile
}

// NewTokenStore creates a TokenStore over the given cache.
func NewTokenStore(store storage.Store, log zerolog.Logger) *TokenStore {
	return &TokenStore{
		store: store,
		log:   log.With().Str("component", "token_store").Logger(),
	}
}

// Bootstrap loads previously cached tokens and profile. A missing cache is
// not an error — the student simply is not logged in yet.
func (t *TokenStore) Bootstrap() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	access, err := t.store.Get(keyAccessToken)
	if err != nil && err != storage.ErrNotFound {
		return fmt.Errorf("load access token: %w", err)
	}
	refresh, err := t.store.Get(keyRefreshToken)
	if err != nil && err != storage.ErrNotFound {
		return fmt.Errorf("load refresh token: %w", err)
	}

	t.access = access
	t.refresh = refresh

	if raw, err := t.store.Get(keyProfile); err == nil {
		var p model.Profile
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			t.profile = &p
		}
	}
	return nil
}

// AccessToken implements api.TokenSource.
func (t *TokenStore) AccessToken() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.access
}

// RefreshToken returns the cached refresh token, if any.
func (t *TokenStore) RefreshToken() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.refresh
}

// SetTokens stores a fresh token pair in memory and on device.
func (t *TokenStore) SetTokens(access, refresh string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.access = access
	t.refresh = refresh

	if err := t.store.Set(keyAccessToken, access); err != nil {
		return fmt.Errorf("cache access token: %w", err)
	}
	if refresh != "" {
		if err := t.store.Set(keyRefreshToken, refresh); err != nil {
			return fmt.Errorf("cache refresh token: %w", err)
		}
	}
	return nil
}

// Profile returns the cached profile, or nil when not logged in.
func (t *TokenStore) Profile() *model.Profile {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.profile
}

// SetProfile caches the profile in memory and on device.
func (t *TokenStore) SetProfile(p *model.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.profile = p
	if err := t.store.Set(keyProfile, string(raw)); err != nil {
		return fmt.Errorf("cache profile: %w", err)
	}
	return nil
}

// Authenticated reports whether a usable, unexpired access token is cached.
// Expiry is read from the token's own claims — the client cannot verify the
// signature, only the server can.
func (t *TokenStore) Authenticated() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.access == "" {
		return false
	}
	return !tokenExpired(t.access)
}

// DeviceID returns the persisted device identifier, generating one on first
// use. The server pins OTP verifications to it.
func (t *TokenStore) DeviceID() (string, error) {
	id, err := t.store.Get(keyDeviceID)
	if err == nil {
		return id, nil
	}
	// Mint only when the id genuinely does not exist yet. A read failure must
	// not rotate the identity the server has pinned.
	if err != storage.ErrNotFound {
		return "", fmt.Errorf("load device id: %w", err)
	}

	id = uuid.NewString()
	if err := t.store.Set(keyDeviceID, id); err != nil {
		return "", fmt.Errorf("cache device id: %w", err)
	}
	t.log.Debug().Str("device_id", id).Msg("Generated device id")
	return id, nil
}

// Clear wipes tokens and profile (logout).
func (t *TokenStore) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.access = ""
	t.refresh = ""
	t.profile = nil

	for _, key := range []string{keyAccessToken, keyRefreshToken, keyProfile} {
		if err := t.store.Delete(key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}

func tokenExpired(token string) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		// Unparseable token is as good as expired.
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Now().After(claims.ExpiresAt.Time)
}
