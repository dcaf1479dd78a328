package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Yinyue93/japanese-chat/internal/domain"
	"github.com/Yinyue93/japanese-chat/internal/service"
	"github.com/Yinyue93/japanese-chat/internal/session"
	"github.com/Yinyue93/japanese-chat/internal/storage/file"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, rooms ...domain.Room) *httptest.Server {
	t.Helper()

	dataDir := t.TempDir()
	roomRepo := file.NewRoomRepository(dataDir)
	require.NoError(t, roomRepo.SaveRooms(context.Background(), rooms))

	members := service.NewMembershipService(roomRepo)
	chat := service.NewChatService(file.NewMessageRepository(dataDir))
	coord := session.NewCoordinator(members, chat, file.NewImageStore(dataDir), 50*time.Millisecond, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go coord.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(NewServer(coord).HandleWS))
	t.Cleanup(srv.Close)
	return srv
}

type client struct {
	t  *testing.T
	ws *websocket.Conn
}

func dial(t *testing.T, srv *httptest.Server) *client {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	wsc, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { wsc.Close() })
	return &client{t: t, ws: wsc}
}

func (c *client) emit(event string, payload any) {
	c.t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(c.t, err)
	require.NoError(c.t, c.ws.WriteJSON(Frame{Event: event, Data: data}))
}

// expect reads frames until the wanted event arrives, skipping others.
func (c *client) expect(event string) json.RawMessage {
	c.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		require.NoError(c.t, c.ws.SetReadDeadline(deadline))
		_, data, err := c.ws.ReadMessage()
		require.NoError(c.t, err, "waiting for %q", event)

		var frame Frame
		require.NoError(c.t, json.Unmarshal(data, &frame))
		if frame.Event == event {
			return frame.Data
		}
	}
}

func (c *client) join(roomID, username string) {
	c.t.Helper()
	c.emit(TypeJoinRoom, JoinRoomPayload{RoomID: roomID, Username: username})
	c.expect(session.EventJoinedRoom)
}

func wsRoom(id string, capacity int) domain.Room {
	return domain.Room{ID: id, Name: "room " + id, Capacity: capacity, Users: []string{}, CreatedAt: time.Now()}
}

func TestJoinHappyPath(t *testing.T) {
	srv := newTestServer(t, wsRoom("r1", 5))
	c := dial(t, srv)

	c.emit(TypeJoinRoom, JoinRoomPayload{RoomID: "r1", Username: "alice"})

	var joined session.JoinedRoomPayload
	require.NoError(t, json.Unmarshal(c.expect(session.EventJoinedRoom), &joined))
	assert.Equal(t, "r1", joined.RoomID)
	assert.Equal(t, "room r1", joined.RoomName)

	var login session.PresencePayload
	require.NoError(t, json.Unmarshal(c.expect(session.EventLogin), &login))
	assert.Equal(t, "alice", login.Username)
	assert.Equal(t, 1, login.UserCount)

	var history []domain.Message
	require.NoError(t, json.Unmarshal(c.expect(session.EventRoomMessages), &history))
	assert.Empty(t, history)
}

func TestJoinErrors(t *testing.T) {
	srv := newTestServer(t, wsRoom("tiny", 1))

	t.Run("unknown room", func(t *testing.T) {
		c := dial(t, srv)
		c.emit(TypeJoinRoom, JoinRoomPayload{RoomID: "nope", Username: "alice"})

		var e session.ErrorPayload
		require.NoError(t, json.Unmarshal(c.expect(session.EventJoinError), &e))
		assert.Equal(t, errRoomNotFound, e.Error)
	})

	t.Run("full room", func(t *testing.T) {
		first := dial(t, srv)
		first.join("tiny", "alice")

		second := dial(t, srv)
		second.emit(TypeJoinRoom, JoinRoomPayload{RoomID: "tiny", Username: "bob"})

		var e session.ErrorPayload
		require.NoError(t, json.Unmarshal(second.expect(session.EventJoinError), &e))
		assert.Equal(t, errRoomFull, e.Error)
	})

	t.Run("blank username", func(t *testing.T) {
		c := dial(t, srv)
		c.emit(TypeJoinRoom, JoinRoomPayload{RoomID: "tiny", Username: "   "})
		c.expect(session.EventJoinError)
	})
}

func TestMessageRoundTrip(t *testing.T) {
	srv := newTestServer(t, wsRoom("r1", 5))

	alice := dial(t, srv)
	alice.join("r1", "alice")
	bob := dial(t, srv)
	bob.join("r1", "bob")

	alice.emit(TypeSendMessage, SendMessagePayload{Message: "こんにちは"})

	var msg domain.Message
	require.NoError(t, json.Unmarshal(bob.expect(session.EventNewMessage), &msg))
	assert.Equal(t, "alice", msg.Username)
	assert.Equal(t, "こんにちは", msg.Body)

	// sender receives their own message too
	require.NoError(t, json.Unmarshal(alice.expect(session.EventNewMessage), &msg))
	assert.Equal(t, "こんにちは", msg.Body)
}

func TestSendWithoutJoin(t *testing.T) {
	srv := newTestServer(t, wsRoom("r1", 5))
	c := dial(t, srv)

	c.emit(TypeSendMessage, SendMessagePayload{Message: "hello?"})

	var e session.ErrorPayload
	require.NoError(t, json.Unmarshal(c.expect(session.EventMessageError), &e))
	assert.Equal(t, errNotJoined, e.Error)
}

func TestTypingNotifiesOthersOnly(t *testing.T) {
	srv := newTestServer(t, wsRoom("r1", 5))

	alice := dial(t, srv)
	alice.join("r1", "alice")
	bob := dial(t, srv)
	bob.join("r1", "bob")

	alice.emit(TypeTyping, struct{}{})

	var typing session.TypingPayload
	require.NoError(t, json.Unmarshal(bob.expect(session.EventTyping), &typing))
	assert.Equal(t, "alice", typing.Username)

	alice.emit(TypeStopTyping, struct{}{})
	require.NoError(t, json.Unmarshal(bob.expect(session.EventStoppedTyping), &typing))
	assert.Equal(t, "alice", typing.Username)
}

func TestLeaveRoomBroadcastsLogout(t *testing.T) {
	srv := newTestServer(t, wsRoom("r1", 5))

	alice := dial(t, srv)
	alice.join("r1", "alice")
	bob := dial(t, srv)
	bob.join("r1", "bob")

	alice.emit(TypeLeaveRoom, struct{}{})

	var logout session.PresencePayload
	require.NoError(t, json.Unmarshal(bob.expect(session.EventLogout), &logout))
	assert.Equal(t, "alice", logout.Username)
	assert.Equal(t, 1, logout.UserCount)
}

func TestHistoryReplayOnJoin(t *testing.T) {
	srv := newTestServer(t, wsRoom("r1", 5))

	alice := dial(t, srv)
	alice.join("r1", "alice")
	alice.emit(TypeSendMessage, SendMessagePayload{Message: "first"})
	alice.expect(session.EventNewMessage)

	bob := dial(t, srv)
	bob.emit(TypeJoinRoom, JoinRoomPayload{RoomID: "r1", Username: "bob"})
	bob.expect(session.EventJoinedRoom)

	var history []domain.Message
	require.NoError(t, json.Unmarshal(bob.expect(session.EventRoomMessages), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "first", history[0].Body)
}
