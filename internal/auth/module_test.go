package auth

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"capstone_backend/internal/auth/guard"
	"capstone_backend/internal/docstore/memory"
	apphttp "capstone_backend/internal/http"
	"capstone_backend/internal/http/router"
	"capstone_backend/internal/mocks"
	uploads "capstone_backend/internal/uploads/service"
	"capstone_backend/platform/config"
	"capstone_backend/platform/logger"
	"capstone_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	engine   *gin.Engine
	provider *mocks.IdentityProvider
	clock    time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Discard()

	e := &env{provider: mocks.NewIdentityProvider(), clock: time.Now().Add(-time.Minute)}
	e.provider.Now = func() time.Time { return e.clock }

	objects := mocks.NewObjectStore()
	module, err := NewModule(e.provider, memory.New(), uploads.New(objects, log), objects.MaxFileSize, validator.New(), log)
	require.NoError(t, err)
	e.engine = router.New(&apphttp.App{
		Config:         &config.Config{CORSOrigins: []string{"http://localhost"}},
		Logger:         log,
		AuthMiddleware: guard.New(e.provider, log).Middleware(),
		Modules:        []apphttp.Module{module},
	})
	return e
}

type response struct {
	Code    int
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Reason string `json:"reason"`
	} `json:"error"`
}

func (e *env) send(t *testing.T, req *http.Request, token string) response {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var res response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	res.Code = w.Code
	return res
}

func (e *env) json(t *testing.T, method, path, token, body string) response {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return e.send(t, req, token)
}

func (e *env) registerAndLogin(t *testing.T, email string) (uid, token string) {
	t.Helper()
	res := e.json(t, http.MethodPost, "/api/v1/register", "",
		`{"email":"`+email+`","password":"Secret123","displayName":"Tester"}`)
	require.Equal(t, http.StatusCreated, res.Code, res.Message)

	res = e.json(t, http.MethodPost, "/api/v1/login", "", `{"email":"`+email+`","password":"Secret123"}`)
	require.Equal(t, http.StatusOK, res.Code, res.Message)

	var login struct {
		Token   string `json:"token"`
		Biodata struct {
			UID string `json:"uid"`
		} `json:"biodata"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &login))
	return login.Biodata.UID, login.Token
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)

	res := e.json(t, http.MethodPost, "/api/v1/register", "", `{"email":"a@example.com","password":"short","displayName":"A"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "password_policy", res.Error.Reason)

	res = e.json(t, http.MethodPost, "/api/v1/register", "", `{"email":"not-an-email","password":"Secret123","displayName":"A"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = e.json(t, http.MethodPost, "/api/v1/register", "", `{"email":"a@example.com","password":"Secret123","displayName":"A","role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	e := newEnv(t)
	e.registerAndLogin(t, "alice@example.com")

	res := e.json(t, http.MethodPost, "/api/v1/login", "", `{"email":"alice@example.com","password":"Wrong1234"}`)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "invalid_credentials", res.Error.Reason)
}

func TestSessionLifecycle(t *testing.T) {
	e := newEnv(t)
	uid, token := e.registerAndLogin(t, "alice@example.com")

	res := e.json(t, http.MethodGet, "/api/v1/me", token, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(res.Data), uid)

	res = e.json(t, http.MethodGet, "/api/v1/profile/"+uid, token, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(res.Data), "alice@example.com")

	res = e.json(t, http.MethodPost, "/api/v1/logout", token, "")
	require.Equal(t, http.StatusOK, res.Code)

	res = e.json(t, http.MethodGet, "/api/v1/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "token_revoked", res.Error.Reason)

	e.clock = e.clock.Add(time.Second)
	res = e.json(t, http.MethodPost, "/api/v1/login", "", `{"email":"alice@example.com","password":"Secret123"}`)
	require.Equal(t, http.StatusOK, res.Code)
	var fresh struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &fresh))

	res = e.json(t, http.MethodGet, "/api/v1/me", fresh.Token, "")
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestProfileNotFound(t *testing.T) {
	e := newEnv(t)
	_, token := e.registerAndLogin(t, "alice@example.com")

	res := e.json(t, http.MethodGet, "/api/v1/profile/nobody", token, "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func editForm(t *testing.T, displayName string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if displayName != "" {
		require.NoError(t, w.WriteField("displayName", displayName))
	}
	if image != nil {
		part, err := w.CreateFormFile("imageProfile", "me.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestEditProfileOverHTTP(t *testing.T) {
	e := newEnv(t)
	uid, token := e.registerAndLogin(t, "alice@example.com")
	_, otherToken := e.registerAndLogin(t, "bob@example.com")

	body, ct := editForm(t, "Alice", nil)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile/"+uid, body)
	req.Header.Set("Content-Type", ct)
	res := e.send(t, req, otherToken)
	assert.Equal(t, http.StatusForbidden, res.Code)

	body, ct = editForm(t, "", nil)
	req = httptest.NewRequest(http.MethodPut, "/api/v1/profile/"+uid, body)
	req.Header.Set("Content-Type", ct)
	res = e.send(t, req, token)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	body, ct = editForm(t, "Alice Cooper", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	req = httptest.NewRequest(http.MethodPut, "/api/v1/profile/"+uid, body)
	req.Header.Set("Content-Type", ct)
	res = e.send(t, req, token)
	require.Equal(t, http.StatusOK, res.Code, res.Message)

	var edited struct {
		UID          string `json:"uid"`
		DisplayName  string `json:"displayName"`
		ImageProfile string `json:"imageProfile"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &edited))
	assert.Equal(t, "Alice Cooper", edited.DisplayName)
	assert.NotEmpty(t, edited.ImageProfile)
}

func TestMeWithoutPrincipalIsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.Discard()
	objects := mocks.NewObjectStore()
	module, err := NewModule(mocks.NewIdentityProvider(), memory.New(), uploads.New(objects, log), objects.MaxFileSize, validator.New(), log)
	require.NoError(t, err)

	engine := gin.New()
	engine.GET("/me", module.handler.Me)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing_token")
}
