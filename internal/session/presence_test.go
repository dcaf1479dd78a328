package session

import "testing"

func TestPresenceConnectDisconnect(t *testing.T) {
	p := newPresenceTracker()
	key := presenceKey{roomID: "r1", username: "alice"}

	emitLogin, reconnected := p.connect(key)
	if !emitLogin || reconnected {
		t.Fatalf("first connect: emitLogin=%v reconnected=%v, want true false", emitLogin, reconnected)
	}

	emitLogin, reconnected = p.connect(key)
	if emitLogin || reconnected {
		t.Fatalf("second connect: emitLogin=%v reconnected=%v, want false false", emitLogin, reconnected)
	}

	if p.disconnect(key) {
		t.Fatal("disconnect with one connection left should not arm grace")
	}
	if !p.disconnect(key) {
		t.Fatal("last disconnect should arm grace")
	}
}

func TestPresenceReconnectDuringGrace(t *testing.T) {
	p := newPresenceTracker()
	key := presenceKey{roomID: "r1", username: "alice"}

	p.connect(key)
	if !p.disconnect(key) {
		t.Fatal("disconnect should arm grace")
	}

	emitLogin, reconnected := p.connect(key)
	if emitLogin {
		t.Fatal("rejoin during grace must stay silent")
	}
	if !reconnected {
		t.Fatal("rejoin during grace must report a cancelled logout")
	}
	if p.expireLogout(key) {
		t.Fatal("grace expiry after rejoin must not emit a logout")
	}
}

func TestPresenceExpireLogout(t *testing.T) {
	p := newPresenceTracker()
	key := presenceKey{roomID: "r1", username: "alice"}

	if p.expireLogout(key) {
		t.Fatal("expiry for an absent key must be a no-op")
	}

	p.connect(key)
	p.disconnect(key)
	if !p.expireLogout(key) {
		t.Fatal("expiry after an unanswered grace period must emit a logout")
	}
	if p.expireLogout(key) {
		t.Fatal("second expiry must be a no-op")
	}

	// entry is gone: the next connect is a fresh login
	emitLogin, _ := p.connect(key)
	if !emitLogin {
		t.Fatal("connect after a completed logout must emit a login")
	}
}

func TestPresenceForceLogout(t *testing.T) {
	p := newPresenceTracker()
	key := presenceKey{roomID: "r1", username: "alice"}

	p.connect(key)
	p.connect(key) // two tabs
	p.forceLogout(key)

	// the surviving tab's disconnect is now an imbalance, clamped
	if p.disconnect(key) {
		t.Fatal("disconnect after force logout must not arm grace")
	}

	emitLogin, reconnected := p.connect(key)
	if !emitLogin || reconnected {
		t.Fatalf("connect after force logout: emitLogin=%v reconnected=%v, want true false", emitLogin, reconnected)
	}
}

func TestPresenceDisconnectClampsAtZero(t *testing.T) {
	p := newPresenceTracker()
	key := presenceKey{roomID: "r1", username: "alice"}

	p.connect(key)
	if !p.disconnect(key) {
		t.Fatal("first disconnect should arm grace")
	}
	if p.disconnect(key) {
		t.Fatal("extra disconnect at zero must not arm a second grace")
	}
	if !p.expireLogout(key) {
		t.Fatal("original grace must still be completable")
	}
}

func TestPresenceDropRoom(t *testing.T) {
	p := newPresenceTracker()
	a := presenceKey{roomID: "r1", username: "alice"}
	b := presenceKey{roomID: "r1", username: "bob"}
	other := presenceKey{roomID: "r2", username: "carol"}

	p.connect(a)
	p.connect(b)
	p.connect(other)

	dropped := p.dropRoom("r1")
	if len(dropped) != 2 {
		t.Fatalf("dropRoom returned %d keys, want 2", len(dropped))
	}
	for _, key := range dropped {
		if key.roomID != "r1" {
			t.Fatalf("dropRoom returned key for room %q", key.roomID)
		}
	}

	// r2 is untouched
	if emitLogin, _ := p.connect(other); emitLogin {
		t.Fatal("user in another room must keep their presence")
	}
}
