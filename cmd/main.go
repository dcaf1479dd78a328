package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwrk-planet/logger/pkg/logger"

	"github.com/Yinyue93/japanese-chat/config"
	"github.com/Yinyue93/japanese-chat/internal/domain"
	"github.com/Yinyue93/japanese-chat/internal/security"
	"github.com/Yinyue93/japanese-chat/internal/service"
	"github.com/Yinyue93/japanese-chat/internal/session"
	filestore "github.com/Yinyue93/japanese-chat/internal/storage/file"
	"github.com/Yinyue93/japanese-chat/internal/storage/postgres"
	httpx "github.com/Yinyue93/japanese-chat/internal/transport/http"
	"github.com/Yinyue93/japanese-chat/internal/transport/ws"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting japanese-chat",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version,
		"storage", cfg.Storage.Backend)

	ctx := context.Background()

	// --- repositories ---
	var (
		roomRepo    domain.RoomRepository
		messageRepo domain.MessageRepository
	)
	imageStore := filestore.NewImageStore(cfg.Storage.File.DataDir)

	switch cfg.Storage.Backend {
	case "postgres":
		db, err := postgres.New(ctx, cfg.Storage.Postgres.DSN)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer db.Close()
		roomRepo = postgres.NewRoomRepository(db.Pool)
		messageRepo = postgres.NewMessageRepository(db.Pool)
	default:
		roomRepo = filestore.NewRoomRepository(cfg.Storage.File.DataDir)
		messageRepo = filestore.NewMessageRepository(cfg.Storage.File.DataDir)
	}

	// --- services ---
	memberSvc := service.NewMembershipService(roomRepo)
	roomSvc := service.NewRoomService(memberSvc, cfg.Security.BcryptCost)
	chatSvc := service.NewChatService(messageRepo)

	// --- session coordinator ---
	coord := session.NewCoordinator(memberSvc, chatSvc, imageStore,
		cfg.LogoutGrace(), cfg.RoomDeleteGrace())

	coordCtx, stopCoord := context.WithCancel(ctx)
	defer stopCoord()
	go coord.Run(coordCtx)

	// --- transport ---
	wsServer := ws.NewServer(coord)
	tokens := security.NewTokenIssuer(cfg.Security.JWTSecret, 0)
	handler := httpx.NewHandler(roomSvc, coord, tokens, httpx.AdminCredentials{
		ID:       cfg.Security.AdminID,
		Password: cfg.Security.AdminPassword,
	})
	router := httpx.NewRouter(handler, wsServer)

	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	stopCoord()
	slog.Info("stopped")
}
