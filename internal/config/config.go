package config

import (
	"time"

	"github.com/spf13/viper"

	pkgconfig "github.com/siddharthray/chatApp-backend/pkg/config"
	"github.com/siddharthray/chatApp-backend/pkg/log"
)

type Config struct {
	Server    ServerConfig
	WebSocket WebSocketConfig
	Redis     RedisConfig
	History   HistoryConfig
	Log       log.Config
}

type ServerConfig struct {
	Host string
	Port int
}

type WebSocketConfig struct {
	// HeartbeatInterval is how often a ping probe is sent to each peer.
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	// WarnAfter is the pending-probe count that flips a connection to WARNING.
	WarnAfter int `mapstructure:"warn_after"`
	// CloseAfter is the pending-probe count that force-closes the transport.
	CloseAfter     int           `mapstructure:"close_after"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type HistoryConfig struct {
	// Limit caps each room's retained message log.
	Limit int
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("websocket.heartbeat_interval", "30s")
	v.SetDefault("websocket.warn_after", 3)
	v.SetDefault("websocket.close_after", 5)
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("history.limit", 50)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.service_name", "chat-relay")

	// Override from environment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("websocket.heartbeat_interval", "HEARTBEAT_INTERVAL")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Parse durations
	cfg.WebSocket.HeartbeatInterval = parseDuration(v, "websocket.heartbeat_interval", 30*time.Second)
	cfg.WebSocket.WriteWait = parseDuration(v, "websocket.write_wait", 10*time.Second)

	return &cfg, nil
}

func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	str := v.GetString(key)
	d, err := time.ParseDuration(str)
	if err != nil {
		return defaultVal
	}
	return d
}
