// Package idp abstracts the external identity provider that issues and
// verifies ID tokens and owns user credentials.
package idp

import (
	"context"
	"errors"
	"time"
)

var (
	ErrTokenExpired       = errors.New("idp: id token expired")
	ErrTokenMalformed     = errors.New("idp: id token malformed")
	ErrTokenInvalid       = errors.New("idp: id token invalid")
	ErrUserNotFound       = errors.New("idp: user not found")
	ErrInvalidCredentials = errors.New("idp: invalid credentials")
	ErrEmailExists        = errors.New("idp: email already exists")
)

// Token is a verified ID token.
type Token struct {
	UID       string
	Email     string
	IssuedAt  time.Time
	AuthTime  time.Time
	ExpiresAt time.Time
	Claims    map[string]any
}

// User is the provider's record of an identity.
type User struct {
	UID              string
	Email            string
	DisplayName      string
	PhotoURL         string
	Disabled         bool
	TokensValidAfter time.Time
}

// UserToCreate carries the attributes of a new identity.
type UserToCreate struct {
	Email       string
	Password    string
	DisplayName string
	PhotoURL    string
}

// UserToUpdate carries optional attribute changes. Nil fields are untouched.
type UserToUpdate struct {
	DisplayName *string
	PhotoURL    *string
}

// Session is the result of a password sign-in.
type Session struct {
	IDToken      string
	RefreshToken string
	ExpiresIn    time.Duration
	UID          string
	Email        string
}

// TokenVerifier is the part of a Provider the auth guard needs.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, rawToken string) (*Token, error)
	GetUser(ctx context.Context, uid string) (*User, error)
}

// Provider is the full identity provider contract.
type Provider interface {
	TokenVerifier
	CreateUser(ctx context.Context, user UserToCreate) (*User, error)
	UpdateUser(ctx context.Context, uid string, update UserToUpdate) (*User, error)
	DeleteUser(ctx context.Context, uid string) error
	RevokeRefreshTokens(ctx context.Context, uid string) error
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
}
