package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bookmytix/admin-core/internal/chat"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub()
	hub.Start(ctx)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if errServe := hub.ServeWS(w, r, 7); errServe != nil {
			t.Errorf("serve ws: %v", errServe)
		}
	}))
	t.Cleanup(server.Close)
	return hub, server
}

func dialTestHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, errDial := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, errDial)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubBroadcastsChatEvents(t *testing.T) {
	hub, server := startTestHub(t)
	first := dialTestHub(t, server)
	second := dialTestHub(t, server)

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	msg := chat.Message{ID: "m1", ConversationID: "conv-1", Sender: chat.SenderCustomer, Content: "hello"}
	hub.Notify(chat.Event{Type: chat.EventMessageAdded, ConversationID: "conv-1", Message: &msg, UnreadCount: 3})

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		_, data, errRead := conn.ReadMessage()
		require.NoError(t, errRead)

		var got chat.Event
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, chat.EventMessageAdded, got.Type)
		assert.Equal(t, "conv-1", got.ConversationID)
		assert.Equal(t, 3, got.UnreadCount)
		require.NotNil(t, got.Message)
		assert.Equal(t, "hello", got.Message.Content)
	}
}

func TestHubServeWSRequiresStart(t *testing.T) {
	hub := NewHub()
	result := make(chan error, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errServe := hub.ServeWS(w, r, 7)
		if errServe != nil {
			http.Error(w, errServe.Error(), http.StatusServiceUnavailable)
		}
		result <- errServe
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	_, resp, errDial := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, errDial)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	select {
	case errServe := <-result:
		assert.ErrorIs(t, errServe, ErrHubNotRunning)
	case <-time.After(time.Second):
		t.Fatal("ServeWS blocked on a hub that was never started")
	}
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubUnregistersClosedClients(t *testing.T) {
	hub, server := startTestHub(t)
	conn := dialTestHub(t, server)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubReceivesEventsFromChatStore(t *testing.T) {
	hub, server := startTestHub(t)
	conn := dialTestHub(t, server)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	store := chat.NewStore(chat.DefaultConversations(), chat.Options{Notifier: hub})
	defer store.Close()
	require.NoError(t, store.ResolveConversation("conv-2"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, errRead := conn.ReadMessage()
	require.NoError(t, errRead)

	var got chat.Event
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, chat.EventConversationResolved, got.Type)
	assert.Equal(t, chat.StatusResolved, got.Status)
}
