package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dekho-exam/prep-engine/internal/api"
	"github.com/rs/zerolog"
)

// ErrNoChallenge is returned when VerifyOTP runs before RequestOTP.
var ErrNoChallenge = errors.New("auth: no pending otp challenge")

// Flow drives the phone/OTP login sequence: request a code, verify it, cache
// the resulting tokens and profile.
type Flow struct {
	client *api.Client
	tokens *TokenStore
	log    zerolog.Logger

	mu        sync.Mutex
	challenge string
}

// NewFlow creates a login Flow bound to the given client and token store.
func NewFlow(client *api.Client, tokens *TokenStore, log zerolog.Logger) *Flow {
	return &Flow{
		client: client,
		tokens: tokens,
		log:    log.With().Str("component", "auth_flow").Logger(),
	}
}

// RequestOTP submits the phone number and holds the verification challenge
// for the follow-up VerifyOTP call.
func (f *Flow) RequestOTP(ctx context.Context, phoneNumber string) error {
	challenge, err := f.client.Auth.SendOTP(ctx, phoneNumber)
	if err != nil {
		return fmt.Errorf("send otp: %w", err)
	}

	f.mu.Lock()
	f.challenge = challenge.VerificationToken
	f.mu.Unlock()

	f.log.Info().Msg("OTP sent")
	return nil
}

// VerifyOTP checks the code, stores the issued tokens and caches the profile.
func (f *Flow) VerifyOTP(ctx context.Context, otpCode string) error {
	f.mu.Lock()
	challenge := f.challenge
	f.mu.Unlock()

	if challenge == "" {
		return ErrNoChallenge
	}

	deviceID, err := f.tokens.DeviceID()
	if err != nil {
		return fmt.Errorf("device id: %w", err)
	}

	pair, err := f.client.Auth.VerifyOTP(ctx, otpCode, challenge, deviceID)
	if err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	if err := f.tokens.SetTokens(pair.AccessToken, pair.RefreshToken); err != nil {
		return err
	}

	f.mu.Lock()
	f.challenge = ""
	f.mu.Unlock()

	// Profile fetch is best effort — login already succeeded.
	if profile, err := f.client.Auth.Me(ctx); err != nil {
		f.log.Warn().Err(err).Msg("Profile fetch after login failed")
	} else if err := f.tokens.SetProfile(profile); err != nil {
		f.log.Warn().Err(err).Msg("Profile cache failed")
	}

	f.log.Info().Msg("Login verified")
	return nil
}

// Logout revokes the refresh token server-side and clears the local cache.
// The local cache is cleared even if the server call fails.
func (f *Flow) Logout(ctx context.Context) error {
	if refresh := f.tokens.RefreshToken(); refresh != "" {
		if err := f.client.Auth.Logout(ctx, refresh); err != nil {
			f.log.Warn().Err(err).Msg("Server logout failed")
		}
	}
	return f.tokens.Clear()
}
