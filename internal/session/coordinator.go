// Package session coordinates live connections, presence, typing state,
// and room lifecycle. Every mutation runs as a task on one serialized
// loop; grace-period timers re-enter the same loop, so nothing here needs
// a lock.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Yinyue93/japanese-chat/internal/domain"
	"github.com/Yinyue93/japanese-chat/internal/service"
)

type Coordinator struct {
	members *service.MembershipService
	chat    *service.ChatService
	images  domain.ImageStore

	logoutGrace time.Duration
	deleteGrace time.Duration

	tasks chan func()
	done  chan struct{}

	reg      *registry
	presence *presenceTracker
	typing   *typingSet
	timers   *timerSet
}

func NewCoordinator(
	members *service.MembershipService,
	chat *service.ChatService,
	images domain.ImageStore,
	logoutGrace, deleteGrace time.Duration,
) *Coordinator {
	c := &Coordinator{
		members:     members,
		chat:        chat,
		images:      images,
		logoutGrace: logoutGrace,
		deleteGrace: deleteGrace,
		tasks:       make(chan func(), 256),
		done:        make(chan struct{}),
		reg:         newRegistry(),
		presence:    newPresenceTracker(),
		typing:      newTypingSet(),
	}
	c.timers = newTimerSet(c.post)
	return c
}

// Run drains the task queue until ctx is cancelled. It must be running for
// any coordinator operation to make progress.
func (c *Coordinator) Run(ctx context.Context) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-c.tasks:
			fn()
		}
	}
}

// post enqueues a task on the serialized loop. Posting after shutdown is a
// no-op.
func (c *Coordinator) post(fn func()) {
	select {
	case <-c.done:
	case c.tasks <- fn:
	}
}

// call runs fn on the loop and waits for it to finish.
func (c *Coordinator) call(fn func()) {
	ran := make(chan struct{})
	c.post(func() {
		defer close(ran)
		fn()
	})
	select {
	case <-ran:
	case <-c.done:
	}
}

// Join binds the connection to (username, roomID): persists the roster
// membership, cancels any pending room deletion, updates presence, and
// replays the room's message history to the new connection.
func (c *Coordinator) Join(ctx context.Context, conn Conn, roomID, username string) error {
	var joinErr error
	c.call(func() {
		if prev := c.reg.lookup(conn.ID()); prev != nil {
			// a connection may only be bound once; treat a rejoin over the
			// same socket as an implicit departure from the previous room
			c.handleDisconnect(conn.ID())
		}

		room, err := c.members.Join(ctx, roomID, username)
		if err != nil {
			joinErr = err
			return
		}

		c.reg.register(conn, username, roomID)
		c.timers.cancel(roomDeleteKey(roomID))

		conn.Send(EventJoinedRoom, JoinedRoomPayload{RoomID: roomID, RoomName: room.Name})

		emitLogin, reconnected := c.presence.connect(presenceKey{roomID: roomID, username: username})
		if reconnected {
			c.timers.cancel(logoutKey(roomID, username))
		}
		if emitLogin {
			c.reg.broadcast(roomID, EventLogin, PresencePayload{
				Username:  username,
				UserCount: len(room.Users),
			}, "")
		}

		history, err := c.chat.History(ctx, roomID)
		if err != nil {
			slog.Error("load room history", "room", roomID, "err", err)
			history = []domain.Message{}
		}
		conn.Send(EventRoomMessages, history)

		slog.Info("user joined room", "room", roomID, "user", username, "conn", conn.ID())
	})
	return joinErr
}

// SendMessage appends a text message to the room log and broadcasts it.
// Sending implicitly ends the author's typing spell.
func (c *Coordinator) SendMessage(ctx context.Context, connID, body string) error {
	var sendErr error
	c.call(func() {
		b := c.reg.lookup(connID)
		if b == nil {
			sendErr = domain.ErrNotJoined
			return
		}

		c.clearTyping(b, connID)

		msg, err := c.chat.Append(ctx, b.roomID, b.username, body)
		if err != nil {
			// baseline behavior: persistence failures are logged, the
			// message is still delivered to the room
			slog.Error("persist message", "room", b.roomID, "user", b.username, "err", err)
		}
		c.reg.broadcast(b.roomID, EventNewMessage, msg, "")
	})
	return sendErr
}

// Typing marks the user as typing and notifies the rest of the room.
// Events from unbound connections are dropped.
func (c *Coordinator) Typing(connID string) {
	c.post(func() {
		b := c.reg.lookup(connID)
		if b == nil {
			return
		}
		c.typing.add(b.roomID, b.username)
		c.reg.broadcast(b.roomID, EventTyping, TypingPayload{Username: b.username}, connID)
	})
}

// StopTyping ends the user's typing spell, if any.
func (c *Coordinator) StopTyping(connID string) {
	c.post(func() {
		b := c.reg.lookup(connID)
		if b == nil {
			return
		}
		c.clearTyping(b, connID)
	})
}

// Leave is an explicit, user-initiated departure: the logout is emitted
// immediately, whatever the user's remaining connection count, and an
// emptied room is deleted without a grace period.
func (c *Coordinator) Leave(ctx context.Context, connID string) {
	c.call(func() {
		b := c.reg.unregister(connID)
		if b == nil {
			return
		}
		c.clearTyping(b, connID)

		key := presenceKey{roomID: b.roomID, username: b.username}
		c.presence.forceLogout(key)
		c.timers.cancel(logoutKey(b.roomID, b.username))

		count, err := c.members.Leave(ctx, b.roomID, b.username)
		if err != nil && !errors.Is(err, domain.ErrRoomNotFound) {
			slog.Error("persist leave", "room", b.roomID, "user", b.username, "err", err)
		}
		c.reg.broadcast(b.roomID, EventLogout, PresencePayload{
			Username:  b.username,
			UserCount: count,
		}, "")

		slog.Info("user left room", "room", b.roomID, "user", b.username, "conn", connID)

		if c.reg.roomEmpty(b.roomID) {
			c.deleteRoom(ctx, b.roomID)
		}
	})
}

// Disconnect is an implicit departure (network drop, closed tab). The
// user's logout and the room's deletion both wait out a grace window so a
// quick reconnect stays silent.
func (c *Coordinator) Disconnect(connID string) {
	c.call(func() {
		c.handleDisconnect(connID)
	})
}

func (c *Coordinator) handleDisconnect(connID string) {
	b := c.reg.unregister(connID)
	if b == nil {
		return
	}
	c.clearTyping(b, connID)

	key := presenceKey{roomID: b.roomID, username: b.username}
	if c.presence.disconnect(key) {
		// the originating request's context is gone by the time the timer
		// fires; deferred work runs on a fresh one
		c.timers.schedule(logoutKey(b.roomID, b.username), c.logoutGrace, func() {
			c.expireLogout(context.Background(), key)
		})
	}

	if c.reg.roomEmpty(b.roomID) {
		roomID := b.roomID
		c.timers.schedule(roomDeleteKey(roomID), c.deleteGrace, func() {
			// re-verify: a join may have landed between scheduling and firing
			if c.reg.roomEmpty(roomID) {
				c.deleteRoom(context.Background(), roomID)
			}
		})
	}

	slog.Info("user disconnected", "room", b.roomID, "user", b.username, "conn", connID)
}

// expireLogout completes a presence grace period on the loop.
func (c *Coordinator) expireLogout(ctx context.Context, key presenceKey) {
	if !c.presence.expireLogout(key) {
		return
	}
	count, err := c.members.Leave(ctx, key.roomID, key.username)
	if err != nil && !errors.Is(err, domain.ErrRoomNotFound) {
		slog.Error("persist logout", "room", key.roomID, "user", key.username, "err", err)
	}
	c.reg.broadcast(key.roomID, EventLogout, PresencePayload{
		Username:  key.username,
		UserCount: count,
	}, "")
	slog.Info("user logged out after grace period", "room", key.roomID, "user", key.username)
}

// DeleteRoom force-deletes a room, closing every connection bound to it.
// Used by the admin API.
func (c *Coordinator) DeleteRoom(ctx context.Context, roomID string) {
	c.call(func() {
		for _, b := range c.reg.roomConns(roomID) {
			c.reg.unregister(b.conn.ID())
			_ = b.conn.Close()
		}
		c.deleteRoom(ctx, roomID)
	})
}

// deleteRoom removes the room's persisted document, purges its message log,
// drops in-memory state, and asks the image store to clean up.
func (c *Coordinator) deleteRoom(ctx context.Context, roomID string) {
	c.timers.cancel(roomDeleteKey(roomID))
	for _, key := range c.presence.dropRoom(roomID) {
		c.timers.cancel(logoutKey(key.roomID, key.username))
	}
	c.typing.dropRoom(roomID)

	if err := c.members.RemoveRoom(ctx, roomID); err != nil {
		slog.Error("remove room", "room", roomID, "err", err)
	}
	if err := c.chat.Purge(ctx, roomID); err != nil {
		slog.Error("purge room messages", "room", roomID, "err", err)
	}
	if err := c.images.DeleteRoomAssets(ctx, roomID); err != nil {
		slog.Warn("delete room assets", "room", roomID, "err", err)
	}
	slog.Info("room deleted", "room", roomID)
}

// clearTyping removes the user from the room's typing set and broadcasts
// stopped-typing exactly once per typing spell.
func (c *Coordinator) clearTyping(b *binding, connID string) {
	if c.typing.remove(b.roomID, b.username) {
		c.reg.broadcast(b.roomID, EventStoppedTyping, TypingPayload{Username: b.username}, connID)
	}
}

func logoutKey(roomID, username string) string { return "logout:" + roomID + ":" + username }
func roomDeleteKey(roomID string) string       { return "room-delete:" + roomID }
