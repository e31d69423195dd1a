package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"capstone_backend/internal/docstore/memory"
	"capstone_backend/internal/mocks"
	"capstone_backend/internal/shared/policy"
	"capstone_backend/internal/topics/repository"
	"capstone_backend/internal/topics/transport"
	"capstone_backend/platform/apperr"
	"capstone_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 11, 20, 9, 30, 0, 0, time.UTC)

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New().WithClock(func() time.Time { return fixedNow })
	return New(repository.New(store), logger.Discard()), store
}

func strPtr(s string) *string { return &s }

func createReq(account, topic string) transport.CreateTopicRequest {
	return transport.CreateTopicRequest{AccountID: strPtr(account), Topic: strPtr(topic)}
}

func TestCreateStampsTopicDate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", createReq("alice", "Go generics"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go generics", got.Topic)
	require.NotNil(t, got.TopicDate)
	assert.True(t, got.TopicDate.Equal(fixedNow))
}

func TestCreateRejectsForeignAccount(t *testing.T) {
	svc, store := newService(t)

	_, err := svc.Create(context.Background(), "mallory", createReq("alice", "hi"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	docs, _ := store.List(context.Background(), "topics")
	assert.Empty(t, docs)
}

func TestCreateChecksLengthBeforeOwnership(t *testing.T) {
	svc, _ := newService(t)
	long := make([]rune, 256)
	for i := range long {
		long[i] = 'é'
	}

	_, err := svc.Create(context.Background(), "mallory", createReq("alice", string(long)))
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Equal(t, apperr.ReasonFieldTooLong, e.Reason)
}

func TestCreateAcceptsExactlyMaxCodePoints(t *testing.T) {
	svc, _ := newService(t)
	text := make([]rune, 255)
	for i := range text {
		text[i] = '字'
	}

	_, err := svc.Create(context.Background(), "alice", createReq("alice", string(text)))
	require.NoError(t, err)
}

func TestListEmptyIsNotAnError(t *testing.T) {
	svc, _ := newService(t)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestListByAccount(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.ListByAccount(ctx, "alice")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Create(ctx, "alice", createReq("alice", "one"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, "bob", createReq("bob", "two"))
	require.NoError(t, err)

	items, err := svc.ListByAccount(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "one", items[0].Topic)
}

func TestUpdateOrdering(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", createReq("alice", "before"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, "alice", "missing", transport.UpdateTopicRequest{Topic: strPtr("x")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Update(ctx, "bob", created.ID, transport.UpdateTopicRequest{Topic: strPtr("x")})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	res, err := svc.Update(ctx, "alice", created.ID, transport.UpdateTopicRequest{Topic: strPtr("after")})
	require.NoError(t, err)
	assert.Equal(t, created.ID, res.ID)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Topic)
	assert.Equal(t, "alice", got.AccountID)
}

func TestUpdateChecksLengthBeforeExistence(t *testing.T) {
	svc, _ := newService(t)
	long := strings.Repeat("a", policy.MaxTextLength+1)

	_, err := svc.Update(context.Background(), "alice", "missing", transport.UpdateTopicRequest{Topic: &long})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Equal(t, apperr.ReasonFieldTooLong, e.Reason)
}

func TestUpdateWithoutFieldsOnlyRestamps(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", createReq("alice", "same"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, "alice", created.ID, transport.UpdateTopicRequest{})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "same", got.Topic)
	assert.NotNil(t, got.TopicDate)
}

func TestDelete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", createReq("alice", "bye"))
	require.NoError(t, err)

	_, err = svc.Delete(ctx, "bob", created.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	res, err := svc.Delete(ctx, "alice", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, res.ID)

	_, err = svc.GetByID(ctx, created.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Delete(ctx, "alice", created.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestStoreFailureIsUpstream(t *testing.T) {
	boom := errors.New("connection reset")
	store := &mocks.FailingStore{Store: memory.New(), ListErr: boom, AddErr: boom}
	svc := New(repository.New(store), logger.Discard())

	_, err := svc.List(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
	assert.ErrorIs(t, err, boom)

	_, err = svc.Create(context.Background(), "alice", createReq("alice", "x"))
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
}
