// Package mocks provides in-memory stand-ins for external services in tests.
package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"capstone_backend/internal/idp"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var signingKey = []byte("mock-identity-provider")

type account struct {
	user     idp.User
	password string
}

// IdentityProvider is an in-memory idp.Provider. Tokens are HS256 JWTs signed
// with a fixed key, so they pass the guard's structural check.
type IdentityProvider struct {
	mu       sync.Mutex
	accounts map[string]*account
	byEmail  map[string]string

	Now func() time.Time

	CreateErr error
	UpdateErr error
	RevokeErr error
	VerifyErr error

	Deleted []string
	Updated []string
}

// NewIdentityProvider returns an empty provider using the wall clock.
func NewIdentityProvider() *IdentityProvider {
	return &IdentityProvider{
		accounts: make(map[string]*account),
		byEmail:  make(map[string]string),
		Now:      time.Now,
	}
}

// AddUser seeds an identity.
func (m *IdentityProvider) AddUser(uid, email, password string) *idp.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc := &account{user: idp.User{UID: uid, Email: email}, password: password}
	m.accounts[uid] = acc
	m.byEmail[email] = uid
	u := acc.user
	return &u
}

// DisableUser marks an identity as disabled.
func (m *IdentityProvider) DisableUser(uid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[uid]; ok {
		acc.user.Disabled = true
	}
}

// User returns a copy of the stored identity.
func (m *IdentityProvider) User(uid string) (idp.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[uid]
	if !ok {
		return idp.User{}, false
	}
	return acc.user, true
}

// IssueToken signs a one hour token for uid issued now.
func (m *IdentityProvider) IssueToken(uid string) string {
	return m.IssueTokenAt(uid, m.Now(), time.Hour)
}

// IssueTokenAt signs a token for uid issued at issuedAt and valid for ttl.
// A negative ttl produces an already expired token.
func (m *IdentityProvider) IssueTokenAt(uid string, issuedAt time.Time, ttl time.Duration) string {
	m.mu.Lock()
	email := ""
	if acc, ok := m.accounts[uid]; ok {
		email = acc.user.Email
	}
	m.mu.Unlock()

	claims := jwt.MapClaims{
		"sub":       uid,
		"user_id":   uid,
		"email":     email,
		"iat":       issuedAt.Unix(),
		"auth_time": issuedAt.Unix(),
		"exp":       issuedAt.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return signed
}

func (m *IdentityProvider) VerifyIDToken(_ context.Context, rawToken string) (*idp.Token, error) {
	if m.VerifyErr != nil {
		return nil, m.VerifyErr
	}

	parsed, err := jwt.Parse(rawToken, func(*jwt.Token) (any, error) { return signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.Now),
		jwt.WithIssuedAt(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, idp.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, idp.ErrTokenMalformed
	case err != nil:
		return nil, idp.ErrTokenInvalid
	}

	claims := parsed.Claims.(jwt.MapClaims)
	uid, _ := claims.GetSubject()
	email, _ := claims["email"].(string)
	iat, _ := claims.GetIssuedAt()
	exp, _ := claims.GetExpirationTime()

	tok := &idp.Token{UID: uid, Email: email, Claims: claims}
	if iat != nil {
		tok.IssuedAt = iat.Time
		tok.AuthTime = iat.Time
	}
	if exp != nil {
		tok.ExpiresAt = exp.Time
	}
	return tok, nil
}

func (m *IdentityProvider) GetUser(_ context.Context, uid string) (*idp.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[uid]
	if !ok {
		return nil, idp.ErrUserNotFound
	}
	u := acc.user
	return &u, nil
}

func (m *IdentityProvider) CreateUser(_ context.Context, user idp.UserToCreate) (*idp.User, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[user.Email]; exists {
		return nil, idp.ErrEmailExists
	}
	uid := uuid.NewString()
	acc := &account{
		user:     idp.User{UID: uid, Email: user.Email, DisplayName: user.DisplayName, PhotoURL: user.PhotoURL},
		password: user.Password,
	}
	m.accounts[uid] = acc
	m.byEmail[user.Email] = uid
	u := acc.user
	return &u, nil
}

func (m *IdentityProvider) UpdateUser(_ context.Context, uid string, update idp.UserToUpdate) (*idp.User, error) {
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[uid]
	if !ok {
		return nil, idp.ErrUserNotFound
	}
	if update.DisplayName != nil {
		acc.user.DisplayName = *update.DisplayName
	}
	if update.PhotoURL != nil {
		acc.user.PhotoURL = *update.PhotoURL
	}
	m.Updated = append(m.Updated, uid)
	u := acc.user
	return &u, nil
}

func (m *IdentityProvider) DeleteUser(_ context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[uid]
	if !ok {
		return idp.ErrUserNotFound
	}
	delete(m.byEmail, acc.user.Email)
	delete(m.accounts, uid)
	m.Deleted = append(m.Deleted, uid)
	return nil
}

// RevokeRefreshTokens moves the user's watermark to now, at the second
// granularity the real provider uses.
func (m *IdentityProvider) RevokeRefreshTokens(_ context.Context, uid string) error {
	if m.RevokeErr != nil {
		return m.RevokeErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[uid]
	if !ok {
		return idp.ErrUserNotFound
	}
	acc.user.TokensValidAfter = m.Now().Truncate(time.Second)
	return nil
}

func (m *IdentityProvider) SignInWithPassword(_ context.Context, email, password string) (*idp.Session, error) {
	m.mu.Lock()
	uid, ok := m.byEmail[email]
	var acc *account
	if ok {
		acc = m.accounts[uid]
	}
	m.mu.Unlock()

	if !ok || acc.password != password || acc.user.Disabled {
		return nil, idp.ErrInvalidCredentials
	}
	return &idp.Session{
		IDToken:      m.IssueToken(uid),
		RefreshToken: "refresh-" + uid,
		ExpiresIn:    time.Hour,
		UID:          uid,
		Email:        email,
	}, nil
}

var _ idp.Provider = (*IdentityProvider)(nil)
