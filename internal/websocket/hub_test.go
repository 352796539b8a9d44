package websocket

import (
	"context"
	"testing"
	"time"

	"maumjari-counsel-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.done
	})
	return hub
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no frame delivered")
		return nil
	}
}

func TestHubDeliversToEverySocketOfSession(t *testing.T) {
	hub := startHub(t)
	a := NewClient(hub, nil, "s1")
	b := NewClient(hub, nil, "s1")
	other := NewClient(hub, nil, "s2")
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))
	require.True(t, hub.Register(other))

	hub.Deliver(context.Background(), "s1", []byte(`{"response":"안녕하세요"}`))

	assert.JSONEq(t, `{"response":"안녕하세요"}`, string(receive(t, a)))
	assert.JSONEq(t, `{"response":"안녕하세요"}`, string(receive(t, b)))
	assert.Empty(t, other.Send)
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	c := NewClient(hub, nil, "s1")
	require.True(t, hub.Register(c))

	hub.Unregister(c)

	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}

	// Delivering to a session with no sockets is a no-op.
	hub.Deliver(context.Background(), "s1", []byte(`{}`))
}

func TestHubDropsClientWithFullBuffer(t *testing.T) {
	hub := startHub(t)
	c := NewClient(hub, nil, "slow")
	require.True(t, hub.Register(c))

	for i := 0; i < sendBuffer; i++ {
		require.True(t, c.enqueue([]byte(`{}`)))
	}
	hub.Deliver(context.Background(), "slow", []byte(`{}`))

	assert.Eventually(t, func() bool {
		return len(hub.sessionClients(context.Background(), "slow")) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHubStoppedRejectsRegister(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	cancel()
	<-hub.done

	assert.False(t, hub.Register(NewClient(hub, nil, "late")))
	assert.Nil(t, hub.sessionClients(context.Background(), "late"))
}

func TestErrorFrame(t *testing.T) {
	assert.JSONEq(t, `{"error":"메시지가 비어있습니다."}`, string(errorFrame("메시지가 비어있습니다.")))
}
