package firebase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"capstone_backend/internal/idp"
	"capstone_backend/platform/config"
	"capstone_backend/platform/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

// authClient is the subset of *auth.Client the provider calls.
type authClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	UpdateUser(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// Provider talks to Firebase Authentication: the admin SDK for token and user
// management, the Identity Toolkit REST API for password sign-in.
type Provider struct {
	auth   authClient
	signIn *PasswordSignIn
	log    *logger.Logger
}

// New builds a Provider from an initialised Firebase app.
func New(ctx context.Context, app *firebase.App, cfg config.FirebaseConfig, log *logger.Logger) (*Provider, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &Provider{
		auth:   client,
		signIn: NewPasswordSignIn(cfg.GetIdentityToolkitURL(), cfg.GetFirebaseAPIKey(), log),
		log:    log,
	}, nil
}

func (p *Provider) VerifyIDToken(ctx context.Context, rawToken string) (*idp.Token, error) {
	tok, err := p.auth.VerifyIDToken(ctx, rawToken)
	if err != nil {
		return nil, classifyVerifyError(err)
	}
	return toToken(tok), nil
}

func classifyVerifyError(err error) error {
	switch {
	case auth.IsIDTokenExpired(err):
		return fmt.Errorf("%w: %v", idp.ErrTokenExpired, err)
	case auth.IsCertificateFetchFailed(err):
		return fmt.Errorf("fetch token signing keys: %w", err)
	case auth.IsIDTokenInvalid(err):
		return fmt.Errorf("%w: %v", idp.ErrTokenInvalid, err)
	default:
		return fmt.Errorf("verify id token: %w", err)
	}
}

func toToken(tok *auth.Token) *idp.Token {
	email, _ := tok.Claims["email"].(string)
	out := &idp.Token{
		UID:       tok.UID,
		Email:     email,
		IssuedAt:  time.Unix(tok.IssuedAt, 0).UTC(),
		ExpiresAt: time.Unix(tok.Expires, 0).UTC(),
		Claims:    tok.Claims,
	}
	if tok.AuthTime > 0 {
		out.AuthTime = time.Unix(tok.AuthTime, 0).UTC()
	}
	return out
}

func (p *Provider) GetUser(ctx context.Context, uid string) (*idp.User, error) {
	rec, err := p.auth.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, idp.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return toUser(rec), nil
}

func toUser(rec *auth.UserRecord) *idp.User {
	out := &idp.User{Disabled: rec.Disabled}
	if rec.UserInfo != nil {
		out.UID = rec.UID
		out.Email = rec.Email
		out.DisplayName = rec.DisplayName
		out.PhotoURL = rec.PhotoURL
	}
	if rec.TokensValidAfterMillis > 0 {
		out.TokensValidAfter = time.UnixMilli(rec.TokensValidAfterMillis).UTC()
	}
	return out
}

func (p *Provider) CreateUser(ctx context.Context, user idp.UserToCreate) (*idp.User, error) {
	params := (&auth.UserToCreate{}).
		Email(user.Email).
		Password(user.Password).
		DisplayName(user.DisplayName)
	if user.PhotoURL != "" {
		params = params.PhotoURL(user.PhotoURL)
	}

	rec, err := p.auth.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, idp.ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return toUser(rec), nil
}

func (p *Provider) UpdateUser(ctx context.Context, uid string, update idp.UserToUpdate) (*idp.User, error) {
	params := &auth.UserToUpdate{}
	if update.DisplayName != nil {
		params = params.DisplayName(*update.DisplayName)
	}
	if update.PhotoURL != nil {
		params = params.PhotoURL(*update.PhotoURL)
	}

	rec, err := p.auth.UpdateUser(ctx, uid, params)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, idp.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return toUser(rec), nil
}

func (p *Provider) DeleteUser(ctx context.Context, uid string) error {
	if err := p.auth.DeleteUser(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return idp.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (p *Provider) RevokeRefreshTokens(ctx context.Context, uid string) error {
	if err := p.auth.RevokeRefreshTokens(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return idp.ErrUserNotFound
		}
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}

func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*idp.Session, error) {
	session, err := p.signIn.SignIn(ctx, email, password)
	if err != nil && !errors.Is(err, idp.ErrInvalidCredentials) {
		p.log.Error("identity toolkit sign-in failed", "error", err)
	}
	return session, err
}

var _ idp.Provider = (*Provider)(nil)
