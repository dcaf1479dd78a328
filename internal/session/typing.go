package session

// typingSet holds the usernames currently typing in each room. Ephemeral:
// reset on restart, dropped with the room.
type typingSet struct {
	rooms map[string]map[string]struct{}
}

func newTypingSet() *typingSet {
	return &typingSet{rooms: make(map[string]map[string]struct{})}
}

func (t *typingSet) add(roomID, username string) {
	rm, ok := t.rooms[roomID]
	if !ok {
		rm = make(map[string]struct{})
		t.rooms[roomID] = rm
	}
	rm[username] = struct{}{}
}

// remove deletes the user from the room's typing set and reports whether
// the user was actually typing, so callers broadcast stopped-typing at
// most once per typing spell.
func (t *typingSet) remove(roomID, username string) bool {
	rm, ok := t.rooms[roomID]
	if !ok {
		return false
	}
	if _, was := rm[username]; !was {
		return false
	}
	delete(rm, username)
	if len(rm) == 0 {
		delete(t.rooms, roomID)
	}
	return true
}

func (t *typingSet) dropRoom(roomID string) {
	delete(t.rooms, roomID)
}
