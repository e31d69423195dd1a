package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"capstone_backend/internal/idp"
	"capstone_backend/platform/logger"
)

const signInPath = "/v1/accounts:signInWithPassword"

// PasswordSignIn calls the Identity Toolkit REST API, which the admin SDK
// does not cover.
type PasswordSignIn struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *logger.Logger
}

// NewPasswordSignIn creates a sign-in client. baseURL is the Identity Toolkit
// origin, or the emulator's http://host:port/identitytoolkit.googleapis.com.
func NewPasswordSignIn(baseURL, apiKey string, log *logger.Logger) *PasswordSignIn {
	return &PasswordSignIn{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		log:        log,
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Identity Toolkit messages that mean the caller got the credentials wrong.
var credentialFailures = map[string]struct{}{
	"EMAIL_NOT_FOUND":           {},
	"INVALID_PASSWORD":          {},
	"INVALID_LOGIN_CREDENTIALS": {},
	"INVALID_EMAIL":             {},
	"MISSING_PASSWORD":          {},
	"USER_DISABLED":             {},
}

// SignIn exchanges email and password for an ID token.
func (s *PasswordSignIn) SignIn(ctx context.Context, email, password string) (*idp.Session, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	reqURL := s.baseURL + signInPath + "?" + url.Values{"key": {s.apiKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, s.decodeFailure(resp)
	}

	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	expiresIn, _ := strconv.Atoi(out.ExpiresIn)
	return &idp.Session{
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    time.Duration(expiresIn) * time.Second,
		UID:          out.LocalID,
		Email:        out.Email,
	}, nil
}

func (s *PasswordSignIn) decodeFailure(resp *http.Response) error {
	var apiErr apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		return fmt.Errorf("upstream error: status %d", resp.StatusCode)
	}

	// Messages may carry a suffix, e.g. "TOO_MANY_ATTEMPTS_TRY_LATER : ...".
	code, _, _ := strings.Cut(apiErr.Error.Message, " ")
	if resp.StatusCode == http.StatusBadRequest {
		if _, ok := credentialFailures[code]; ok {
			s.log.Debug("identity toolkit rejected credentials", "code", code)
			return idp.ErrInvalidCredentials
		}
	}
	return fmt.Errorf("upstream error: status %d: %s", resp.StatusCode, code)
}
