package model

// OTPChallenge is returned after a phone number is submitted; the verification
// token authorizes the follow-up OTP check.
type OTPChallenge struct {
	VerificationToken string `json:"verificationToken" validate:"required"`
}

// TokenPair is issued once the OTP is verified.
type TokenPair struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken"`
}

// Profile is the authenticated student's account data.
type Profile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// UpdateProfileRequest carries editable profile fields.
type UpdateProfileRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}
