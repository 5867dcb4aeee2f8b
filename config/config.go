package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// WebSocket timing and size limits shared by the connection handlers.
const (
	WriteWait      = 10 * time.Second // deadline for a single outbound frame
	PongWait       = 60 * time.Second // how long to wait for a pong before dropping
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 4096
)

// Config is the process configuration, loaded from the environment.
type Config struct {
	ServerAddr string        `env:"SERVER_ADDR" envDefault:":8080"`
	NatsURL    string        `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	BusSubject string        `env:"BUS_SUBJECT" envDefault:"chat.events"`
	RoomBucket string        `env:"ROOM_BUCKET" envDefault:"chat_rooms"`
	BotBaseURL string        `env:"BOT_BASE_URL" envDefault:"http://localhost:3000"`
	BotTimeout time.Duration `env:"BOT_TIMEOUT" envDefault:"10s"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
