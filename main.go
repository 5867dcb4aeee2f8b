package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/nats-io/nats.go"

	"wchat/bot"
	"wchat/bus"
	"wchat/config"
	"wchat/handlers"
	"wchat/relay"
	"wchat/router"
	"wchat/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// --- NATS: broadcast bus + room bucket ---
	nc, err := nats.Connect(cfg.NatsURL)
	if err != nil {
		slog.Error("failed to connect to NATS", "url", cfg.NatsURL, "error", err)
		os.Exit(1)
	}
	defer nc.Close()
	slog.Info("connected to NATS", "url", cfg.NatsURL)

	msgBus := bus.New(nc, cfg.BusSubject)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	roomStore, err := store.NewKVStore(ctx, nc, cfg.RoomBucket)
	cancel()
	if err != nil {
		slog.Error("failed to open room store", "bucket", cfg.RoomBucket, "error", err)
		os.Exit(1)
	}

	// --- Core wiring ---
	bridge := bot.New(cfg.BotBaseURL, cfg.BotTimeout, msgBus)
	rt := router.New(roomStore, msgBus, bridge)

	registry := relay.NewRegistry()
	rel := relay.New(msgBus, registry)
	if err := rel.Start(); err != nil {
		slog.Error("failed to start delivery relay", "error", err)
		os.Exit(1)
	}
	defer rel.Stop()

	// --- HTTP + WebSocket surface ---
	app := fiber.New()
	app.Use(logger.New())

	roomHandler := &handlers.RoomHandler{Store: roomStore}
	app.Post("/chat/room", roomHandler.Create)
	app.Get("/chat/rooms", roomHandler.List)

	callbackHandler := &handlers.BotCallbackHandler{Bridge: bridge}
	app.Post("/chat/bot/callback", callbackHandler.Callback)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat/:roomID", websocket.New(func(c *websocket.Conn) {
		handlers.HandleWebSocket(c, rt, registry)
	}))

	// --- Start Server ---
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr)
		if err := app.Listen(cfg.ServerAddr); err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		slog.Error("error shutting down fiber", "error", err)
	}
	slog.Info("server stopped")
}
