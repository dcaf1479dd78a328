package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Yinyue93/japanese-chat/internal/domain"
	"github.com/Yinyue93/japanese-chat/internal/session"

	"github.com/gorilla/websocket"
)

// user-facing error strings match the original client
const (
	errRoomNotFound = "部屋が見つかりません"
	errRoomFull     = "部屋が満員です"
	errNotJoined    = "部屋に参加していません"
)

type Server struct {
	upgrader websocket.Upgrader
	coord    *session.Coordinator
}

func NewServer(coord *session.Coordinator) *Server {
	return &Server{
		coord: coord,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// WS endpoint: GET /ws
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	wsc, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newConn(wsc)
	slog.Debug("ws connected", "conn", c.ID(), "remote", wsc.RemoteAddr())

	go c.writePump()
	s.readLoop(r, c)

	s.coord.Disconnect(c.ID())
	_ = c.Close()
}

func (s *Server) readLoop(r *http.Request, c *conn) {
	c.ws.SetReadLimit(1 << 20)
	c.ws.SetReadDeadline(time.Now().Add(2 * pingEvery))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(2 * pingEvery))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("ws read error", "conn", c.ID(), "err", err)
			}
			return
		}
		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}
		s.dispatch(r, c, frame)
	}
}

func (s *Server) dispatch(r *http.Request, c *conn, frame Frame) {
	switch frame.Event {
	case TypeJoinRoom:
		var p JoinRoomPayload
		if json.Unmarshal(frame.Data, &p) != nil {
			return
		}
		p.Username = strings.TrimSpace(p.Username)
		if p.RoomID == "" || p.Username == "" {
			c.Send(session.EventJoinError, session.ErrorPayload{Error: errRoomNotFound})
			return
		}
		if err := s.coord.Join(r.Context(), c, p.RoomID, p.Username); err != nil {
			c.Send(session.EventJoinError, session.ErrorPayload{Error: joinErrorText(err)})
		}

	case TypeSendMessage:
		var p SendMessagePayload
		if json.Unmarshal(frame.Data, &p) != nil {
			return
		}
		if strings.TrimSpace(p.Message) == "" {
			return
		}
		if err := s.coord.SendMessage(r.Context(), c.ID(), p.Message); err != nil {
			c.Send(session.EventMessageError, session.ErrorPayload{Error: errNotJoined})
		}

	case TypeTyping:
		s.coord.Typing(c.ID())

	case TypeStopTyping:
		s.coord.StopTyping(c.ID())

	case TypeLeaveRoom:
		s.coord.Leave(r.Context(), c.ID())

	default:
		// unknown events are ignored
	}
}

func joinErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoomFull):
		return errRoomFull
	case errors.Is(err, domain.ErrRoomNotFound):
		return errRoomNotFound
	default:
		return errRoomNotFound
	}
}
