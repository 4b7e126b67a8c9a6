package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/siddharthray/chatApp-backend/internal/config"
	"github.com/siddharthray/chatApp-backend/internal/handler"
	"github.com/siddharthray/chatApp-backend/internal/hub"
	"github.com/siddharthray/chatApp-backend/internal/liveness"
	"github.com/siddharthray/chatApp-backend/internal/mux"
	"github.com/siddharthray/chatApp-backend/internal/service"
	"github.com/siddharthray/chatApp-backend/internal/store"
	"github.com/siddharthray/chatApp-backend/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log)
	logger := log.L()

	// Presence store: Redis when reachable, in-memory otherwise. A
	// missing store degrades history and presence persistence, it never
	// stops the relay from serving live traffic.
	var st store.PresenceStore
	st, err = store.NewRedisStore(cfg.Redis, cfg.History.Limit)
	if err != nil {
		logger.Error().Err(err).Str("address", cfg.Redis.Address).Msg("redis unreachable, using in-memory store")
		st = store.NewMemoryStore(cfg.History.Limit)
	} else {
		logger.Info().Str("address", cfg.Redis.Address).Msg("connected to redis")
	}
	defer st.Close()

	// One registry per protocol stack.
	nativeHub := hub.NewHub("native")
	eventsHub := hub.NewHub("events")
	go nativeHub.Run()
	go eventsHub.Run()

	supervisor := liveness.NewSupervisor(liveness.Config{
		Interval:   cfg.WebSocket.HeartbeatInterval,
		WarnAfter:  cfg.WebSocket.WarnAfter,
		CloseAfter: cfg.WebSocket.CloseAfter,
	})

	relaySvc := service.NewRelayService(eventsHub, st)
	roomSvc := service.NewRoomService(st)

	wsHandler := handler.NewWSHandler(nativeHub, relaySvc, supervisor, cfg.WebSocket)
	eventsHandler := handler.NewEventsHandler(eventsHub, relaySvc, supervisor, cfg.WebSocket)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(log.GinMiddleware(logger), gin.Recovery())
	handler.NewHTTPHandler(roomSvc).RegisterRoutes(engine)

	wsLog := log.HTTPMiddleware(logger)
	root := mux.New(
		wsLog(http.HandlerFunc(wsHandler.HandleWebSocket)),
		wsLog(http.HandlerFunc(eventsHandler.HandleWebSocket)),
		engine,
	)

	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     root,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("chat relay listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down chat relay")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("chat relay stopped")
}
