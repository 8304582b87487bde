// models/user.go
package models

import "time"

// User is a mini-app user, keyed by the Telegram account that opened the app.
type User struct {
	ID                 string    `bson:"id" json:"id"`
	TelegramID         int64     `bson:"telegram_id" json:"telegram_id"`
	FirstName          string    `bson:"first_name" json:"first_name"`
	LastName           string    `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Username           string    `bson:"username,omitempty" json:"username,omitempty"`
	Email              string    `bson:"email,omitempty" json:"email,omitempty"`
	PhoneNumber        *string   `bson:"phone_number,omitempty" json:"phone_number"`
	CompleteOnboarding bool      `bson:"complete_onboarding" json:"complete_onboarding"`
	LanguageCode       string    `bson:"language_code,omitempty" json:"language_code,omitempty"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}

// HasPhone reports whether a non-empty phone number is on file.
func (u *User) HasPhone() bool {
	return u != nil && u.PhoneNumber != nil && *u.PhoneNumber != ""
}

// DisplayName joins first and last name.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Auth is the access token handed to the mini app and forwarded to the backend.
type Auth struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Valid reports whether the token is present and not yet expired.
func (a Auth) Valid(now time.Time) bool {
	if a.AccessToken == "" {
		return false
	}
	return a.ExpiresAt.IsZero() || now.Before(a.ExpiresAt)
}

// AuthResponse is returned after a successful Telegram sign-in.
type AuthResponse struct {
	Auth
	SessionID  string `json:"session_id"`
	StartParam string `json:"start_param,omitempty"`
	User       *User  `json:"user"`
}
