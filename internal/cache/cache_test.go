package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_SetGetDelete(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	mr.FastForward(2 * time.Minute)
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Delete(ctx, "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
}

func TestClient_FailsSafeWhenUnavailable(t *testing.T) {
	c, mr := newTestClient(t)
	mr.Close()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)

	release, err := c.Lock(ctx, "lock:job", time.Minute)
	assert.NoError(t, err)
	release()
}

func TestClient_NilIsEmptyCache(t *testing.T) {
	var c *Client
	ctx := context.Background()

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.Error(t, c.Ping(ctx))

	release, err := c.Lock(ctx, "lock:job", time.Minute)
	assert.NoError(t, err)
	release()
}

func TestClient_Lock(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	release, err := c.Lock(ctx, "lock:trash-purge", time.Minute)
	require.NoError(t, err)

	_, err = c.Lock(ctx, "lock:trash-purge", time.Minute)
	assert.ErrorIs(t, err, ErrLockNotObtained)

	release()
	release2, err := c.Lock(ctx, "lock:trash-purge", time.Minute)
	require.NoError(t, err)
	release2()
}
