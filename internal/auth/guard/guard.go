// Package guard authenticates requests: it turns an Authorization header into
// a verified principal or a typed 401.
package guard

import (
	"context"
	"errors"
	"strings"
	"time"

	"capstone_backend/internal/idp"
	"capstone_backend/platform/apperr"
	"capstone_backend/platform/httpkit"
	"capstone_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	bearerPrefix = "Bearer "

	msgMissingToken   = "authorization token is required"
	msgMalformedToken = "authorization token is malformed"
	msgExpiredToken   = "authorization token has expired"
	msgRevokedToken   = "authorization token has been revoked"
	msgInvalidToken   = "authorization token is invalid"
)

// Guard verifies ID tokens against the identity provider.
type Guard struct {
	verifier idp.TokenVerifier
	parser   *jwt.Parser
	log      *logger.Logger
}

// New creates a guard backed by verifier.
func New(verifier idp.TokenVerifier, log *logger.Logger) *Guard {
	return &Guard{verifier: verifier, parser: jwt.NewParser(), log: log}
}

// Authenticate checks, in order: header shape, token structure, provider
// signature and expiry, that the user still exists and is enabled, and that
// the token predates no revocation.
func (g *Guard) Authenticate(ctx context.Context, authorization string) (*httpkit.Principal, error) {
	raw, ok := bearerToken(authorization)
	if !ok {
		return nil, apperr.Unauthorized(msgMissingToken, apperr.ReasonMissingToken)
	}

	if !g.wellFormed(raw) {
		return nil, apperr.Unauthorized(msgMalformedToken, apperr.ReasonTokenMalformed)
	}

	tok, err := g.verifier.VerifyIDToken(ctx, raw)
	if err != nil {
		return nil, g.verifyError(err)
	}

	user, err := g.verifier.GetUser(ctx, tok.UID)
	if err != nil {
		if errors.Is(err, idp.ErrUserNotFound) {
			return nil, apperr.Unauthorized(msgInvalidToken, apperr.ReasonTokenInvalid)
		}
		return nil, apperr.Upstream("failed to verify token", err)
	}
	if user.Disabled {
		return nil, apperr.Unauthorized(msgInvalidToken, apperr.ReasonTokenInvalid)
	}

	if revoked(tok, user) {
		g.log.AuthEvent("token_rejected", tok.UID, false, apperr.ReasonTokenRevoked)
		return nil, apperr.Unauthorized(msgRevokedToken, apperr.ReasonTokenRevoked)
	}

	email := tok.Email
	if email == "" {
		email = user.Email
	}
	return &httpkit.Principal{
		UID:       tok.UID,
		EmailAddr: email,
		IssuedAt:  tok.IssuedAt,
		Claims:    tok.Claims,
	}, nil
}

// Middleware aborts with the error envelope unless the request authenticates.
func (g *Guard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := g.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			httpkit.AbortWithError(c, err)
			return
		}
		httpkit.SetPrincipal(c, principal)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	return raw, raw != ""
}

// wellFormed parses without verifying, so garbage never reaches the provider.
func (g *Guard) wellFormed(raw string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := g.parser.ParseUnverified(raw, claims); err != nil {
		return false
	}
	sub, _ := claims.GetSubject()
	if sub == "" {
		sub, _ = claims["user_id"].(string)
	}
	return sub != ""
}

func (g *Guard) verifyError(err error) error {
	switch {
	case errors.Is(err, idp.ErrTokenExpired):
		return apperr.Unauthorized(msgExpiredToken, apperr.ReasonTokenExpired)
	case errors.Is(err, idp.ErrTokenMalformed):
		return apperr.Unauthorized(msgMalformedToken, apperr.ReasonTokenMalformed)
	case errors.Is(err, idp.ErrTokenInvalid):
		return apperr.Unauthorized(msgInvalidToken, apperr.ReasonTokenInvalid)
	default:
		return apperr.Upstream("failed to verify token", err)
	}
}

// revoked compares the token's issue time with the provider watermark at
// second granularity, the precision of the iat claim. A token issued in the
// watermark's own second counts as revoked, so a re-login in that second has
// to be retried.
func revoked(tok *idp.Token, user *idp.User) bool {
	if user.TokensValidAfter.IsZero() {
		return false
	}
	issued := tok.IssuedAt
	if issued.IsZero() {
		issued = tok.AuthTime
	}
	return !issued.Truncate(time.Second).After(user.TokensValidAfter.Truncate(time.Second))
}
