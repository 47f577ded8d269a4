package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(id string) *Client {
	return &Client{
		ID:   id,
		Send: make(chan *Message, 16),
	}
}

func TestHub_RegisterAndCount(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient("s1")
	client.Hub = hub
	hub.Register <- client

	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	got, ok := hub.GetClient("s1")
	assert.True(t, ok)
	assert.Equal(t, client, got)
}

func TestHub_RegisterReplacesExistingSession(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := newTestClient("s1")
	first.Hub = hub
	hub.Register <- first

	second := newTestClient("s1")
	second.Hub = hub
	hub.Register <- second

	require.Eventually(t, func() bool {
		got, ok := hub.GetClient("s1")
		return ok && got == second
	}, time.Second, 10*time.Millisecond)

	// The first client's send channel is closed on replacement
	_, open := <-first.Send
	assert.False(t, open)
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient("s1")
	client.Hub = hub
	hub.Register <- client

	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Unregister <- client

	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHub_DisconnectHandlerFires(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	gone := make(chan string, 1)
	hub.SetDisconnectHandler(func(sessionID string) {
		gone <- sessionID
	})

	client := newTestClient("s1")
	client.Hub = hub
	hub.Register <- client

	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Unregister <- client

	select {
	case id := <-gone:
		assert.Equal(t, "s1", id)
	case <-time.After(time.Second):
		t.Fatal("disconnect handler not called")
	}
}

func TestHub_SendToSession(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient("s1")
	client.Hub = hub
	hub.Register <- client

	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.SendToSession("s1", &Message{Type: "route_update"})

	select {
	case msg := <-client.Send:
		assert.Equal(t, "route_update", msg.Type)
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
}

func TestHub_SendToUnknownSessionDoesNotPanic(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	hub.SendToSession("missing", &Message{Type: "route_update"})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, hub.GetClientCount())
}

func TestHub_HandleMessageRoutesToHandler(t *testing.T) {
	hub := NewHub()

	received := make(chan *Message, 1)
	hub.RegisterHandler("set_endpoint", func(c *Client, msg *Message) {
		received <- msg
	})

	client := newTestClient("s1")
	client.Hub = hub
	hub.HandleMessage(client, &Message{Type: "set_endpoint", Data: map[string]interface{}{"lat": 48.62}})

	select {
	case msg := <-received:
		assert.Equal(t, 48.62, msg.Data["lat"])
	case <-time.After(time.Second):
		t.Fatal("handler not invoked")
	}
}

func TestHub_HandleMessageUnknownType(t *testing.T) {
	hub := NewHub()
	client := newTestClient("s1")
	client.Hub = hub

	// Must not panic with no handler registered
	hub.HandleMessage(client, &Message{Type: "unknown"})
}
