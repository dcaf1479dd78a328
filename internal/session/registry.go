package session

// binding ties a live connection to the (user, room) pair it joined.
type binding struct {
	conn     Conn
	username string
	roomID   string
}

// registry maps live connections to their bindings, with a per-room index
// for broadcast. It is only touched from the coordinator loop, so it needs
// no locking.
type registry struct {
	conns map[string]*binding            // connID -> binding
	rooms map[string]map[string]*binding // roomID -> connID -> binding
}

func newRegistry() *registry {
	return &registry{
		conns: make(map[string]*binding),
		rooms: make(map[string]map[string]*binding),
	}
}

func (r *registry) register(conn Conn, username, roomID string) {
	b := &binding{conn: conn, username: username, roomID: roomID}
	r.conns[conn.ID()] = b
	rm, ok := r.rooms[roomID]
	if !ok {
		rm = make(map[string]*binding)
		r.rooms[roomID] = rm
	}
	rm[conn.ID()] = b
}

// unregister removes the connection's binding and returns it, or nil if the
// connection was never bound.
func (r *registry) unregister(connID string) *binding {
	b, ok := r.conns[connID]
	if !ok {
		return nil
	}
	delete(r.conns, connID)
	if rm, ok := r.rooms[b.roomID]; ok {
		delete(rm, connID)
		if len(rm) == 0 {
			delete(r.rooms, b.roomID)
		}
	}
	return b
}

func (r *registry) lookup(connID string) *binding {
	return r.conns[connID]
}

// roomEmpty reports whether no live connection is bound to the room.
func (r *registry) roomEmpty(roomID string) bool {
	return len(r.rooms[roomID]) == 0
}

// roomConns returns the bindings currently attached to the room.
func (r *registry) roomConns(roomID string) []*binding {
	rm := r.rooms[roomID]
	out := make([]*binding, 0, len(rm))
	for _, b := range rm {
		out = append(out, b)
	}
	return out
}

// broadcast fans the event out to every connection in the room, optionally
// skipping the originating connection.
func (r *registry) broadcast(roomID, event string, payload any, excludeConnID string) {
	for id, b := range r.rooms[roomID] {
		if id == excludeConnID {
			continue
		}
		b.conn.Send(event, payload)
	}
}
