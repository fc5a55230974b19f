package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/CUknot/forum_backend/database"
	"github.com/CUknot/forum_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func setupRoom(t *testing.T) *models.Room {
	t.Helper()

	require.NoError(t, database.Open(sqlite.Open(":memory:")))
	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate())

	host := &models.User{Username: "host", Email: "host@example.com", Password: "s3cret-pass"}
	require.NoError(t, database.DB.Create(host).Error)

	room, err := database.CreateRoom(host.ID, "Python", "Lets learn", "")
	require.NoError(t, err)
	return room
}

func startHub(t *testing.T) *Hub {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	go h.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-h.done
	})
	return h
}

func startServer(t *testing.T, h *Hub) *httptest.Server {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws/rooms/:id", h.HandleRoomFeed)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server, roomID uint) *websocket.Conn {
	t.Helper()

	url := fmt.Sprintf("ws%s/ws/rooms/%d", strings.TrimPrefix(server.URL, "http"), roomID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_BroadcastReachesRoomSubscribers(t *testing.T) {
	room := setupRoom(t)
	h := startHub(t)
	server := startServer(t, h)

	conn := dial(t, server, room.ID)
	require.Eventually(t, func() bool { return h.Subscribers(room.ID) == 1 }, time.Second, 10*time.Millisecond)

	h.BroadcastToRoom(room.ID, EventMessageCreated, map[string]string{"body": "hello"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, EventMessageCreated, event.Type)
	assert.Equal(t, "hello", event.Payload["body"])
}

func TestHub_ClosedConnectionUnregisters(t *testing.T) {
	room := setupRoom(t)
	h := startHub(t)
	server := startServer(t, h)

	conn := dial(t, server, room.ID)
	require.Eventually(t, func() bool { return h.Subscribers(room.ID) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return h.Subscribers(room.ID) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_DropsSlowClients(t *testing.T) {
	h := NewHub()
	slow := &Client{hub: h, send: make(chan []byte, 1), roomID: 1}
	other := &Client{hub: h, send: make(chan []byte, 4), roomID: 2}
	h.add(slow)
	h.add(other)

	h.broadcastToRoom(1, []byte("one"))
	assert.Equal(t, 1, h.Subscribers(1))

	h.broadcastToRoom(1, []byte("two"))
	assert.Equal(t, 0, h.Subscribers(1))
	assert.Equal(t, 1, h.Subscribers(2))

	// The first event is still buffered, then the channel reports closed
	assert.Equal(t, []byte("one"), <-slow.send)
	_, open := <-slow.send
	assert.False(t, open)
	assert.Empty(t, other.send)
}

func TestHub_RemoveIsIdempotent(t *testing.T) {
	h := NewHub()
	client := &Client{hub: h, send: make(chan []byte, 1), roomID: 1}
	h.add(client)

	h.remove(client)
	assert.NotPanics(t, func() { h.remove(client) })
	assert.Equal(t, 0, h.Subscribers(1))
}

func TestHandleRoomFeed_Errors(t *testing.T) {
	setupRoom(t)
	h := startHub(t)
	server := startServer(t, h)

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "invalid id", path: "/ws/rooms/abc", want: http.StatusBadRequest},
		{name: "unknown room", path: "/ws/rooms/999", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(server.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestBroadcastToRoom_WithoutHub(t *testing.T) {
	previous := hub
	hub = nil
	t.Cleanup(func() { hub = previous })

	assert.NotPanics(t, func() { BroadcastToRoom(1, EventRoomDeleted, nil) })
}
