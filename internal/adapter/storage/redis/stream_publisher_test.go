package redis

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return s, client
}

func TestStreamPublisher_Publish(t *testing.T) {
	_, client := newTestClient(t)
	pub := NewStreamPublisher(client, 0)
	ctx := context.Background()
	payload := []byte(`{"eventType":"DEPOSIT_COMPLETED","data":{"amount":"25.00"}}`)

	require.NoError(t, pub.Publish(ctx, "banking.transactions", "agg-1", payload))

	entries, err := client.XRange(ctx, "banking.transactions", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "agg-1", entries[0].Values[FieldKey])
	assert.Equal(t, string(payload), entries[0].Values[FieldPayload])
}

func TestStreamPublisher_TopicsAreSeparateStreams(t *testing.T) {
	_, client := newTestClient(t)
	pub := NewStreamPublisher(client, 0)
	ctx := context.Background()

	require.NoError(t, pub.Publish(ctx, "banking.accounts", "a", []byte(`{}`)))
	require.NoError(t, pub.Publish(ctx, "banking.transfers", "b", []byte(`{}`)))
	require.NoError(t, pub.Publish(ctx, "banking.transfers", "c", []byte(`{}`)))

	n, err := client.XLen(ctx, "banking.accounts").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = client.XLen(ctx, "banking.transfers").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStreamPublisher_TrimsStream(t *testing.T) {
	_, client := newTestClient(t)
	pub := NewStreamPublisher(client, 5)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		require.NoError(t, pub.Publish(ctx, "system.errors", fmt.Sprintf("k%d", i), []byte(`{}`)))
	}

	n, err := client.XLen(ctx, "system.errors").Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, n, int64(20))
	assert.GreaterOrEqual(t, n, int64(5))
}

func TestStreamPublisher_ServerDown(t *testing.T) {
	s, client := newTestClient(t)
	pub := NewStreamPublisher(client, 0)
	s.Close()

	err := pub.Publish(context.Background(), "banking.accounts", "a", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xadd banking.accounts")
}

func TestStreamPublisher_CancelledContext(t *testing.T) {
	_, client := newTestClient(t)
	pub := NewStreamPublisher(client, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, pub.Publish(ctx, "banking.accounts", "a", []byte(`{}`)))
}

func TestHealthCheck(t *testing.T) {
	s, client := newTestClient(t)
	hc := NewHealthCheck(client)

	assert.Equal(t, "redis", hc.Name())
	assert.NoError(t, hc.Ping(context.Background()))

	s.Close()
	assert.Error(t, hc.Ping(context.Background()))
}
