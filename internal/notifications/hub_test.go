package notifications

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(1, nil)
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, uint(1), client.UserID)
	assert.True(t, hub.IsOnline(1))
	assert.Equal(t, 1, hub.ConnectionCount())

	hub.UnregisterClient(client)
	assert.False(t, hub.IsOnline(1))
	assert.Zero(t, hub.ConnectionCount())

	// Unregistering twice must not corrupt the count.
	hub.UnregisterClient(client)
	assert.Zero(t, hub.ConnectionCount())
}

func TestHub_PerUserConnectionLimit(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(1, nil)
		require.NoError(t, err)
	}

	_, err := hub.Register(1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user connection limit")

	// Other users are unaffected.
	_, err = hub.Register(2, nil)
	assert.NoError(t, err)
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()

	first, err := hub.Register(1, nil)
	require.NoError(t, err)
	second, err := hub.Register(1, nil)
	require.NoError(t, err)
	other, err := hub.Register(2, nil)
	require.NoError(t, err)

	hub.Broadcast(1, []byte("hello"))

	assert.Equal(t, []byte("hello"), <-first.Send)
	assert.Equal(t, []byte("hello"), <-second.Send)
	select {
	case <-other.Send:
		t.Fatal("user 2 must not receive user 1's broadcast")
	default:
	}
}

func TestHub_BroadcastUnknownUser(t *testing.T) {
	hub := NewHub()
	// Must not panic or block.
	hub.Broadcast(42, []byte("into the void"))
}

func TestHub_BroadcastUsersDeduplicates(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(1, nil)
	require.NoError(t, err)

	// The same user listed twice still gets exactly one copy per connection.
	hub.BroadcastUsers([]uint{1, 1}, []byte("once"))

	assert.Equal(t, []byte("once"), <-client.Send)
	select {
	case <-client.Send:
		t.Fatal("duplicate listing must not deliver twice")
	default:
	}
}

func TestHub_SelfMessageSingleDelivery(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(7, nil)
	require.NoError(t, err)

	// A message to oneself targets sender and recipient, which are the same
	// user; the connection still sees it once.
	hub.BroadcastUsers([]uint{7, 7}, []byte("note to self"))

	assert.Len(t, client.Send, 1)
}

func TestClient_TrySendDropsWhenFull(t *testing.T) {
	hub := NewHub()
	client, err := hub.Register(1, nil)
	require.NoError(t, err)

	for i := 0; i < cap(client.Send); i++ {
		client.TrySend([]byte(fmt.Sprintf("msg %d", i)))
	}
	require.Len(t, client.Send, cap(client.Send))

	// The buffer is full; this must drop without blocking.
	client.TrySend([]byte("overflow"))
	assert.Len(t, client.Send, cap(client.Send))
}

func TestClient_TrySendClosedChannel(t *testing.T) {
	hub := NewHub()
	client, err := hub.Register(1, nil)
	require.NoError(t, err)

	close(client.Send)
	// Must recover from the send on a closed channel, not panic.
	assert.NotPanics(t, func() { client.TrySend([]byte("late")) })
}

func TestHub_Shutdown(t *testing.T) {
	hub := NewHub()
	_, err := hub.Register(1, nil)
	require.NoError(t, err)
	_, err = hub.Register(2, nil)
	require.NoError(t, err)

	require.NoError(t, hub.Shutdown(context.Background()))
	assert.Zero(t, hub.ConnectionCount())
	assert.False(t, hub.IsOnline(1))
}
