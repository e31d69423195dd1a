package firebase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"capstone_backend/internal/idp"
	"capstone_backend/platform/logger"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSignInServer(t *testing.T, handler http.HandlerFunc) *PasswordSignIn {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewPasswordSignIn(srv.URL+"/", "test-key", logger.Discard())
}

func TestSignInSuccess(t *testing.T) {
	client := newSignInServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, signInPath, r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body signInRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body.Email)
		assert.True(t, body.ReturnSecureToken)

		_ = json.NewEncoder(w).Encode(signInResponse{
			LocalID:      "uid-1",
			Email:        "ana@example.com",
			IDToken:      "id-token",
			RefreshToken: "refresh",
			ExpiresIn:    "3600",
		})
	})

	session, err := client.SignIn(context.Background(), "ana@example.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", session.UID)
	assert.Equal(t, "id-token", session.IDToken)
	assert.Equal(t, time.Hour, session.ExpiresIn)
}

func TestSignInCredentialFailures(t *testing.T) {
	for _, message := range []string{"INVALID_PASSWORD", "EMAIL_NOT_FOUND", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED"} {
		t.Run(message, func(t *testing.T) {
			client := newSignInServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"code":400,"message":"` + message + `"}}`))
			})

			_, err := client.SignIn(context.Background(), "ana@example.com", "wrong")
			assert.ErrorIs(t, err, idp.ErrInvalidCredentials)
		})
	}
}

func TestSignInUpstreamFailure(t *testing.T) {
	client := newSignInServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"TOO_MANY_ATTEMPTS_TRY_LATER : Access disabled"}}`))
	})

	_, err := client.SignIn(context.Background(), "ana@example.com", "x")
	require.Error(t, err)
	assert.False(t, errors.Is(err, idp.ErrInvalidCredentials))
	assert.Contains(t, err.Error(), "TOO_MANY_ATTEMPTS_TRY_LATER")

	broken := newSignInServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	_, err = broken.SignIn(context.Background(), "ana@example.com", "x")
	require.Error(t, err)
	assert.False(t, errors.Is(err, idp.ErrInvalidCredentials))
}

func TestToToken(t *testing.T) {
	tok := toToken(&auth.Token{
		UID:      "uid-1",
		IssuedAt: 1700000000,
		AuthTime: 1699999990,
		Expires:  1700003600,
		Claims:   map[string]interface{}{"email": "ana@example.com"},
	})

	assert.Equal(t, "uid-1", tok.UID)
	assert.Equal(t, "ana@example.com", tok.Email)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), tok.IssuedAt)
	assert.Equal(t, time.Unix(1699999990, 0).UTC(), tok.AuthTime)
}

func TestToUser(t *testing.T) {
	user := toUser(&auth.UserRecord{
		UserInfo:               &auth.UserInfo{UID: "uid-1", Email: "ana@example.com", DisplayName: "Ana"},
		Disabled:               true,
		TokensValidAfterMillis: 1700000000123,
	})

	assert.Equal(t, "uid-1", user.UID)
	assert.Equal(t, "Ana", user.DisplayName)
	assert.True(t, user.Disabled)
	assert.Equal(t, time.UnixMilli(1700000000123).UTC(), user.TokensValidAfter)
}

func TestClassifyVerifyErrorUnknownIsNotATokenError(t *testing.T) {
	err := classifyVerifyError(errors.New("connection reset"))
	assert.False(t, errors.Is(err, idp.ErrTokenExpired))
	assert.False(t, errors.Is(err, idp.ErrTokenInvalid))
}
