package guard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"capstone_backend/internal/mocks"
	"capstone_backend/platform/apperr"
	"capstone_backend/platform/httpkit"
	"capstone_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuard() (*Guard, *mocks.IdentityProvider) {
	provider := mocks.NewIdentityProvider()
	provider.AddUser("uid-1", "ana@example.com", "Secret123")
	return New(provider, logger.Discard()), provider
}

func requireReason(t *testing.T, err error, reason string) {
	t.Helper()
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok, "expected typed error, got %v", err)
	assert.Equal(t, apperr.KindUnauthorized, e.Kind)
	assert.Equal(t, reason, e.Reason)
}

func TestAuthenticateValidToken(t *testing.T) {
	g, provider := newGuard()

	p, err := g.Authenticate(context.Background(), "Bearer "+provider.IssueToken("uid-1"))
	require.NoError(t, err)
	assert.Equal(t, "uid-1", p.UID)
	assert.Equal(t, "ana@example.com", p.Email())
	assert.False(t, p.IssuedAt.IsZero())
}

func TestAuthenticateMissingHeader(t *testing.T) {
	g, _ := newGuard()

	for _, header := range []string{"", "Basic abc", "Bearer ", "bearer abc"} {
		_, err := g.Authenticate(context.Background(), header)
		requireReason(t, err, apperr.ReasonMissingToken)
	}
}

func TestAuthenticateMalformedNeverReachesProvider(t *testing.T) {
	g, provider := newGuard()
	provider.VerifyErr = errors.New("provider must not be called")

	for _, raw := range []string{"abc", "a.b.c", "not-a-jwt-at-all"} {
		_, err := g.Authenticate(context.Background(), "Bearer "+raw)
		requireReason(t, err, apperr.ReasonTokenMalformed)
	}
}

func TestAuthenticateExpired(t *testing.T) {
	g, provider := newGuard()
	raw := provider.IssueTokenAt("uid-1", time.Now().Add(-2*time.Hour), time.Hour)

	_, err := g.Authenticate(context.Background(), "Bearer "+raw)
	requireReason(t, err, apperr.ReasonTokenExpired)
}

func TestAuthenticateBadSignatureIsInvalid(t *testing.T) {
	g, provider := newGuard()
	raw := provider.IssueToken("uid-1")
	tampered := raw[:len(raw)-4] + "AAAA"

	_, err := g.Authenticate(context.Background(), "Bearer "+tampered)
	requireReason(t, err, apperr.ReasonTokenInvalid)
}

func TestAuthenticateRevoked(t *testing.T) {
	g, provider := newGuard()
	clock := time.Now().Truncate(time.Second).Add(300 * time.Millisecond)
	provider.Now = func() time.Time { return clock }

	earlier := provider.IssueTokenAt("uid-1", clock.Add(-time.Minute), time.Hour)
	sameSecond := provider.IssueToken("uid-1")

	require.NoError(t, provider.RevokeRefreshTokens(context.Background(), "uid-1"))

	_, err := g.Authenticate(context.Background(), "Bearer "+earlier)
	requireReason(t, err, apperr.ReasonTokenRevoked)

	_, err = g.Authenticate(context.Background(), "Bearer "+sameSecond)
	requireReason(t, err, apperr.ReasonTokenRevoked)

	clock = clock.Add(time.Second)
	after := provider.IssueToken("uid-1")
	_, err = g.Authenticate(context.Background(), "Bearer "+after)
	assert.NoError(t, err)
}

func TestAuthenticateDeletedOrDisabledUser(t *testing.T) {
	g, provider := newGuard()
	raw := provider.IssueToken("uid-1")

	provider.DisableUser("uid-1")
	_, err := g.Authenticate(context.Background(), "Bearer "+raw)
	requireReason(t, err, apperr.ReasonTokenInvalid)

	require.NoError(t, provider.DeleteUser(context.Background(), "uid-1"))
	_, err = g.Authenticate(context.Background(), "Bearer "+raw)
	requireReason(t, err, apperr.ReasonTokenInvalid)
}

func TestAuthenticateProviderOutageIsUpstream(t *testing.T) {
	g, provider := newGuard()
	raw := provider.IssueToken("uid-1")
	provider.VerifyErr = errors.New("dial tcp: i/o timeout")

	_, err := g.Authenticate(context.Background(), "Bearer "+raw)
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g, provider := newGuard()

	r := gin.New()
	r.GET("/me", g.Middleware(), func(c *gin.Context) {
		id := httpkit.MustGetIdentity(c)
		httpkit.OK(c, "ok", gin.H{"uid": id.UserID()})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var errResp httpkit.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, apperr.ReasonMissingToken, errResp.Error.Reason)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+provider.IssueToken("uid-1"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":"uid-1"`)
}
