package session

import "log/slog"

// presenceKey identifies one logical user within one room.
type presenceKey struct {
	roomID   string
	username string
}

// presenceEntry holds the reference count of live connections the user has
// in the room. pendingLogout marks the grace window between the count
// reaching zero and the logout actually firing.
type presenceEntry struct {
	count         int
	pendingLogout bool
}

// presenceTracker is the per-(room,user) state machine:
//
//	ABSENT -> PRESENT(1) -> PRESENT(n) -> PENDING_LOGOUT -> ABSENT
//	                        PENDING_LOGOUT -> PRESENT on rejoin
//
// It decides which transitions warrant a broadcast; arming and cancelling
// the grace timers is the coordinator's job.
type presenceTracker struct {
	entries map[presenceKey]*presenceEntry
}

func newPresenceTracker() *presenceTracker {
	return &presenceTracker{entries: make(map[presenceKey]*presenceEntry)}
}

// connect registers one more live connection for the key. It returns
// emitLogin=true only on a genuine ABSENT -> PRESENT transition, and
// reconnected=true when a pending logout was cancelled (the caller must
// drop the grace timer and stay silent).
func (p *presenceTracker) connect(key presenceKey) (emitLogin, reconnected bool) {
	e, ok := p.entries[key]
	if !ok {
		p.entries[key] = &presenceEntry{count: 1}
		return true, false
	}
	reconnected = e.pendingLogout
	e.pendingLogout = false
	e.count++
	return false, reconnected
}

// disconnect drops one live connection for the key. It returns true when
// the count reached zero and a grace timer must be armed. A disconnect for
// an unknown key or a zero count is an accounting imbalance: clamped and
// logged, never negative.
func (p *presenceTracker) disconnect(key presenceKey) (armGrace bool) {
	e, ok := p.entries[key]
	if !ok {
		slog.Warn("presence imbalance: disconnect without entry",
			"room", key.roomID, "user", key.username)
		return false
	}
	if e.count <= 0 {
		slog.Warn("presence imbalance: count already zero",
			"room", key.roomID, "user", key.username)
		e.count = 0
	} else {
		e.count--
	}
	if e.count == 0 && !e.pendingLogout {
		e.pendingLogout = true
		return true
	}
	return false
}

// expireLogout completes the grace period. It returns true when the entry
// is still at zero and must produce a logout; a rejoin during the grace
// window makes this a no-op.
func (p *presenceTracker) expireLogout(key presenceKey) (emitLogout bool) {
	e, ok := p.entries[key]
	if !ok || !e.pendingLogout || e.count != 0 {
		return false
	}
	delete(p.entries, key)
	return true
}

// forceLogout removes the entry unconditionally (explicit leave bypasses
// the grace window, whatever the remaining count).
func (p *presenceTracker) forceLogout(key presenceKey) {
	delete(p.entries, key)
}

// dropRoom removes every entry of a deleted room and returns the affected
// keys so the coordinator can cancel their timers.
func (p *presenceTracker) dropRoom(roomID string) []presenceKey {
	var dropped []presenceKey
	for key := range p.entries {
		if key.roomID == roomID {
			dropped = append(dropped, key)
			delete(p.entries, key)
		}
	}
	return dropped
}
