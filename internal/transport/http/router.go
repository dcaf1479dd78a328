package http

import (
	"net/http"
	"time"

	httpmw "github.com/Yinyue93/japanese-chat/internal/transport/http/middleware"
	"github.com/Yinyue93/japanese-chat/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *Handler, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// WS endpoint
	r.Get("/ws", wsServer.HandleWS)

	r.Route("/api", func(api chi.Router) {
		api.Use(middlewareChi.Timeout(30 * time.Second))

		api.Post("/login", h.Login)
		api.Post("/admin-login", h.AdminLogin)

		api.Route("/rooms", func(rm chi.Router) {
			rm.Get("/", h.ListRooms)
			rm.Post("/", h.CreateRoom)
			rm.Post("/{id}/join", h.JoinRoom)
		})

		api.Route("/admin", func(ad chi.Router) {
			ad.Use(httpmw.AdminAuth(h.tokens, h.admin.ID))
			ad.Get("/rooms", h.AdminListRooms)
			ad.Delete("/rooms/{id}", h.AdminDeleteRoom)
		})
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
