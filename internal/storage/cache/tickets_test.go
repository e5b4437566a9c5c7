package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"job-board-api/internal/storage"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) *redis.Client {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping redis tests")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return rdb
}

func TestTicketStore_ConsumeOnce(t *testing.T) {
	ctx := context.Background()
	store := NewTicketStore(testRedis(t))

	ticket := &storage.UploadTicket{
		Token:     uuid.NewString(),
		UserID:    uuid.New(),
		FileName:  "cv.pdf",
		FileType:  "application/pdf",
		ExpiresAt: time.Now().Add(time.Minute).UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Issue(ctx, ticket, time.Minute))

	got, err := store.Consume(ctx, ticket.Token)
	require.NoError(t, err)
	assert.Equal(t, ticket.UserID, got.UserID)
	assert.Equal(t, ticket.FileName, got.FileName)

	_, err = store.Consume(ctx, ticket.Token)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTicketStore_Expired(t *testing.T) {
	ctx := context.Background()
	store := NewTicketStore(testRedis(t))

	ticket := &storage.UploadTicket{Token: uuid.NewString(), UserID: uuid.New()}
	require.NoError(t, store.Issue(ctx, ticket, 50*time.Millisecond))
	time.Sleep(150 * time.Millisecond)

	_, err := store.Consume(ctx, ticket.Token)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
