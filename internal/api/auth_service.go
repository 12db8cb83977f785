package api

import (
	"context"
	"fmt"

	"github.com/dekho-exam/prep-engine/internal/model"
	"github.com/dekho-exam/prep-engine/internal/validator"
)

// AuthService covers the phone/OTP login endpoints.
type AuthService struct {
	c *Client
}

// SendOTP submits a phone number and returns the verification challenge.
func (s *AuthService) SendOTP(ctx context.Context, phoneNumber string) (*model.OTPChallenge, error) {
	body := map[string]string{"phoneNumber": phoneNumber}
	var out model.OTPChallenge
	if err := s.c.post(ctx, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	if fields := validator.Struct(&out); fields != nil {
		return nil, fmt.Errorf("otp challenge response: %v", fields)
	}
	return &out, nil
}

// VerifyOTP checks the code against the challenge. The challenge token takes
// the place of the session bearer, and the device id rides a custom header.
func (s *AuthService) VerifyOTP(ctx context.Context, otpCode, verificationToken, deviceID string) (*model.TokenPair, error) {
	body := map[string]string{"otpCode": otpCode}
	var out model.TokenPair
	err := s.c.post(ctx, "/auth/verify", body, &out,
		withBearer(verificationToken),
		withHeader("x-device-id", deviceID),
	)
	if err != nil {
		return nil, err
	}
	if fields := validator.Struct(&out); fields != nil {
		return nil, fmt.Errorf("token response: %v", fields)
	}
	return &out, nil
}

// Logout revokes the refresh token server-side.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.c.post(ctx, "/auth/logout", map[string]string{"refreshToken": refreshToken}, nil)
}

// Me fetches the authenticated student's profile.
func (s *AuthService) Me(ctx context.Context) (*model.Profile, error) {
	var out model.Profile
	if err := s.c.get(ctx, "/auth/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile edits the student's profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (*model.Profile, error) {
	if fields := validator.Struct(&req); fields != nil {
		return nil, fmt.Errorf("update profile payload: %v", fields)
	}
	var out model.Profile
	if err := s.c.put(ctx, "/user/update-profile", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
