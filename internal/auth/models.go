// Package auth provides first-party authentication: username/password
// registration and login, bcrypt credential hashing, and JWT access tokens
// with rotating opaque refresh tokens.
package auth

import (
	"errors"
	"strings"
	"time"
)

// Predefined auth errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWeakPassword       = errors.New("password too short")
	ErrInvalidUsername    = errors.New("invalid username")
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// User is a credential record. Profile data lives in the user package.
type User struct {
	// ID is the unique user identifier (format: usr_XXXX).
	ID string

	// Username is the unique login name.
	Username string

	// PasswordHash is the bcrypt hash of the password.
	PasswordHash string

	// CreatedAt is when the user registered.
	CreatedAt time.Time

	// UpdatedAt is when the credential record was last updated.
	UpdatedAt time.Time
}

// Credentials is a register or login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`

	// Phone is optional and only used at registration.
	Phone string `json:"phone,omitempty"`
}

// Validate checks a registration request.
func (c *Credentials) Validate() error {
	username := strings.TrimSpace(c.Username)
	if len(username) < 3 || len(username) > 64 {
		return ErrInvalidUsername
	}
	if len(c.Password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// TokenResponse is returned on successful register, login, or refresh.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
	Username     string `json:"username"`
}
