package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Yinyue93/japanese-chat/internal/domain"
	"github.com/Yinyue93/japanese-chat/internal/security"
	"github.com/Yinyue93/japanese-chat/internal/service"
	"github.com/Yinyue93/japanese-chat/internal/session"

	"github.com/go-chi/chi/v5"
)

// user-facing error strings match the original client
const (
	errUsernameRequired = "ユーザー名を入力してください"
	errAdminLoginFailed = "管理者IDまたはパスワードが間違っています"
	errRoomNameRequired = "部屋名を入力してください"
	errRoomCreateFailed = "部屋の作成に失敗しました"
	errRoomNotFound     = "部屋が見つかりません"
	errWrongPassword    = "パスワードが間違っています"
	errRoomFull         = "部屋が満員です"
)

type AdminCredentials struct {
	ID       string
	Password string
}

type Handler struct {
	roomSvc *service.RoomService
	coord   *session.Coordinator
	tokens  *security.TokenIssuer
	admin   AdminCredentials
}

func NewHandler(room *service.RoomService, coord *session.Coordinator, tokens *security.TokenIssuer, admin AdminCredentials) *Handler {
	return &Handler{
		roomSvc: room,
		coord:   coord,
		tokens:  tokens,
		admin:   admin,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// POST /api/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Username) == "" {
		writeJSON(w, http.StatusOK, Result{Success: false, Error: errUsernameRequired})
		return
	}
	writeJSON(w, http.StatusOK, Result{Success: true})
}

// POST /api/admin-login
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, Result{Success: false, Error: errAdminLoginFailed})
		return
	}
	if req.AdminID != h.admin.ID || req.Password != h.admin.Password {
		writeJSON(w, http.StatusOK, Result{Success: false, Error: errAdminLoginFailed})
		return
	}
	token, err := h.tokens.Issue(req.AdminID)
	if err != nil {
		slog.Error("handler.AdminLogin.Issue", "err", err)
		writeJSON(w, http.StatusInternalServerError, Result{Success: false, Error: errAdminLoginFailed})
		return
	}
	writeJSON(w, http.StatusOK, Result{Success: true, Token: token})
}

// GET /api/rooms
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomSvc.ListRooms(r.Context())
	if err != nil {
		slog.Error("handler.ListRooms", "err", err)
		writeJSON(w, http.StatusInternalServerError, Result{Success: false, Error: err.Error()})
		return
	}
	items := make([]RoomItem, 0, len(rooms))
	for _, rm := range rooms {
		items = append(items, roomItem(rm))
	}
	writeJSON(w, http.StatusOK, items)
}

// POST /api/rooms
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, Result{Success: false, Error: errRoomNameRequired})
		return
	}
	if strings.TrimSpace(req.RoomName) == "" {
		writeJSON(w, http.StatusOK, Result{Success: false, Error: errRoomNameRequired})
		return
	}
	room, err := h.roomSvc.CreateRoom(r.Context(), req.RoomName, req.Capacity, req.Password)
	if err != nil {
		slog.Error("handler.CreateRoom", "err", err)
		writeJSON(w, http.StatusOK, Result{Success: false, Error: errRoomCreateFailed})
		return
	}
	slog.Info("room created", "room", room.ID, "name", room.Name, "capacity", room.Capacity)
	writeJSON(w, http.StatusOK, Result{Success: true, RoomID: room.ID})
}

// POST /api/rooms/{id}/join: pre-flight validation before the socket join
func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	var req JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, Result{Success: false, Error: errRoomNotFound})
		return
	}
	err := h.roomSvc.CheckJoin(r.Context(), roomID, req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, Result{Success: true})
	case errors.Is(err, domain.ErrRoomNotFound):
		writeJSON(w, http.StatusOK, Result{Success: false, Error: errRoomNotFound})
	case errors.Is(err, domain.ErrWrongPassword):
		writeJSON(w, http.StatusOK, Result{Success: false, Error: errWrongPassword})
	case errors.Is(err, domain.ErrRoomFull):
		writeJSON(w, http.StatusOK, Result{Success: false, Error: errRoomFull})
	default:
		slog.Error("handler.JoinRoom", "room", roomID, "err", err)
		writeJSON(w, http.StatusInternalServerError, Result{Success: false, Error: err.Error()})
	}
}

// GET /api/admin/rooms
func (h *Handler) AdminListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomSvc.ListRooms(r.Context())
	if err != nil {
		slog.Error("handler.AdminListRooms", "err", err)
		writeJSON(w, http.StatusInternalServerError, Result{Success: false, Error: err.Error()})
		return
	}
	items := make([]AdminRoomItem, 0, len(rooms))
	for _, rm := range rooms {
		items = append(items, AdminRoomItem{RoomItem: roomItem(rm), Users: rm.Users})
	}
	writeJSON(w, http.StatusOK, items)
}

// DELETE /api/admin/rooms/{id}
func (h *Handler) AdminDeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	if _, err := h.roomSvc.GetRoom(r.Context(), roomID); err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			writeJSON(w, http.StatusNotFound, Result{Success: false, Error: errRoomNotFound})
			return
		}
		slog.Error("handler.AdminDeleteRoom", "room", roomID, "err", err)
		writeJSON(w, http.StatusInternalServerError, Result{Success: false, Error: err.Error()})
		return
	}
	h.coord.DeleteRoom(r.Context(), roomID)
	slog.Info("room force-deleted by admin", "room", roomID)
	writeJSON(w, http.StatusOK, Result{Success: true})
}

func roomItem(rm domain.Room) RoomItem {
	return RoomItem{
		ID:          rm.ID,
		Name:        rm.Name,
		Capacity:    rm.Capacity,
		UserCount:   len(rm.Users),
		HasPassword: rm.HasPassword(),
		CreatedAt:   rm.CreatedAt,
	}
}
