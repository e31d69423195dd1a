package service

import (
	"context"
	"errors"
	"testing"

	"capstone_backend/internal/auth/repository"
	"capstone_backend/internal/auth/transport"
	"capstone_backend/internal/docstore/memory"
	"capstone_backend/internal/mocks"
	uploads "capstone_backend/internal/uploads/service"
	"capstone_backend/platform/apperr"
	"capstone_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	svc      *Service
	provider *mocks.IdentityProvider
	objects  *mocks.ObjectStore
	repo     *repository.Repository
}

func newHarness(t *testing.T, store *mocks.FailingStore) *harness {
	t.Helper()
	log := logger.Discard()
	if store == nil {
		store = &mocks.FailingStore{Store: memory.New()}
	}
	provider := mocks.NewIdentityProvider()
	objects := mocks.NewObjectStore()
	repo := repository.New(store)
	return &harness{
		svc:      New(provider, repo, uploads.New(objects, log), log),
		provider: provider,
		objects:  objects,
		repo:     repo,
	}
}

func register(t *testing.T, h *harness, email string) transport.RegisterResponse {
	t.Helper()
	res, err := h.svc.Register(context.Background(), transport.RegisterRequest{
		Email: email, Password: "Secret123", DisplayName: "Alice",
	})
	require.NoError(t, err)
	return res
}

func TestRegisterCreatesIdentityAndAccount(t *testing.T) {
	h := newHarness(t, nil)

	res := register(t, h, "alice@example.com")
	assert.NotEmpty(t, res.UID)
	assert.Nil(t, res.ImageProfile)

	acc, err := h.repo.GetByUID(context.Background(), res.UID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", acc.Email)
	assert.NotNil(t, acc.CreatedAt)

	_, ok := h.provider.User(res.UID)
	assert.True(t, ok)
}

func TestRegisterPasswordPolicyComesFirst(t *testing.T) {
	h := newHarness(t, nil)
	h.provider.CreateErr = errors.New("must not be called")

	_, err := h.svc.Register(context.Background(), transport.RegisterRequest{
		Email: "a@example.com", Password: "weakpass", DisplayName: "A",
	})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.ReasonPasswordPolicy, e.Reason)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newHarness(t, nil)
	register(t, h, "alice@example.com")

	_, err := h.svc.Register(context.Background(), transport.RegisterRequest{
		Email: "alice@example.com", Password: "Secret123", DisplayName: "Other",
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestRegisterRollsBackIdentityWhenAccountWriteFails(t *testing.T) {
	h := newHarness(t, &mocks.FailingStore{Store: memory.New(), SetErr: errors.New("unavailable")})

	_, err := h.svc.Register(context.Background(), transport.RegisterRequest{
		Email: "alice@example.com", Password: "Secret123", DisplayName: "Alice",
	})
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
	require.Len(t, h.provider.Deleted, 1)

	_, err = h.svc.Login(context.Background(), transport.LoginRequest{Email: "alice@example.com", Password: "Secret123"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestLogin(t *testing.T) {
	h := newHarness(t, nil)
	reg := register(t, h, "alice@example.com")

	res, err := h.svc.Login(context.Background(), transport.LoginRequest{Email: "alice@example.com", Password: "Secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, reg.UID, res.Biodata.UID)

	_, err = h.svc.Login(context.Background(), transport.LoginRequest{Email: "alice@example.com", Password: "nope"})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.ReasonInvalidCredentials, e.Reason)
}

func TestLogoutMovesWatermark(t *testing.T) {
	h := newHarness(t, nil)
	reg := register(t, h, "alice@example.com")

	_, err := h.svc.Logout(context.Background(), reg.UID)
	require.NoError(t, err)

	u, _ := h.provider.User(reg.UID)
	assert.False(t, u.TokensValidAfter.IsZero())

	h.provider.RevokeErr = errors.New("provider down")
	_, err = h.svc.Logout(context.Background(), reg.UID)
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
}

func TestEditProfile(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	reg := register(t, h, "alice@example.com")
	name := "Alice B."
	img := &uploads.Upload{Name: "me.png", ContentType: "image/png", Data: []byte("\x89PNG")}

	_, err := h.svc.EditProfile(ctx, "mallory", reg.UID, &name, nil)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = h.svc.EditProfile(ctx, reg.UID, reg.UID, nil, nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = h.svc.EditProfile(ctx, "ghost", "ghost", &name, nil)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	first, err := h.svc.EditProfile(ctx, reg.UID, reg.UID, &name, img)
	require.NoError(t, err)
	require.NotNil(t, first.ImageProfile)
	require.NotNil(t, first.DisplayName)
	assert.Equal(t, name, *first.DisplayName)
	u, _ := h.provider.User(reg.UID)
	assert.Equal(t, name, u.DisplayName)

	second, err := h.svc.EditProfile(ctx, reg.UID, reg.UID, nil, img)
	require.NoError(t, err)
	assert.Nil(t, second.DisplayName)
	assert.NotEqual(t, *first.ImageProfile, *second.ImageProfile)
	assert.Equal(t, 1, h.objects.Len(), "old picture is removed")

	acc, err := h.repo.GetByUID(ctx, reg.UID)
	require.NoError(t, err)
	assert.Equal(t, name, acc.DisplayName)
	assert.Equal(t, *second.ImageProfile, *acc.ImageProfile)
}

func TestEditProfileToleratesMissingOldPicture(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	gone := h.objects.BaseURL + "/already-gone.png"

	reg, err := h.svc.Register(ctx, transport.RegisterRequest{
		Email: "bob@example.com", Password: "Secret123", DisplayName: "Bob", ImageProfile: &gone,
	})
	require.NoError(t, err)

	res, err := h.svc.EditProfile(ctx, reg.UID, reg.UID, nil, &uploads.Upload{Name: "new.png", ContentType: "image/png", Data: []byte("png")})
	require.NoError(t, err)
	assert.NotNil(t, res.ImageProfile)
}

func TestEditProfileRejectsBadPictureBeforeRemovingOld(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	reg := register(t, h, "carol@example.com")

	first, err := h.svc.EditProfile(ctx, reg.UID, reg.UID, nil, &uploads.Upload{Name: "me.png", ContentType: "image/png", Data: []byte("\x89PNG")})
	require.NoError(t, err)
	key := h.objects.KeyFromURL(*first.ImageProfile)

	cases := map[string]uploads.Upload{
		"not an image": {Name: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF")},
		"too large":    {Name: "big.png", ContentType: "image/png", Data: make([]byte, h.objects.MaxFileSize+1)},
		"empty":        {Name: "none.png", ContentType: "image/png"},
	}
	for name, img := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.svc.EditProfile(ctx, reg.UID, reg.UID, nil, &img)
			assert.True(t, apperr.Is(err, apperr.KindValidation))

			assert.True(t, h.objects.Has(key), "old picture must survive a rejected edit")
			acc, err := h.repo.GetByUID(ctx, reg.UID)
			require.NoError(t, err)
			assert.Equal(t, *first.ImageProfile, *acc.ImageProfile)
		})
	}
}
