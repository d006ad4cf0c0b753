package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/reman131/chat-app/internal/core"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	StaticDir         string        `mapstructure:"static_dir" yaml:"static_dir"`

	// DefaultRoom is joined by every new connection.
	DefaultRoom string `mapstructure:"default_room" yaml:"default_room"`
	// MessageRoomPolicy is "declared" (deliver to the room named in the message)
	// or "tracked" (deliver to the sender's current room).
	MessageRoomPolicy  string `mapstructure:"message_room_policy" yaml:"message_room_policy"`
	AnnounceDepartures bool   `mapstructure:"announce_departures" yaml:"announce_departures"`

	MaxMessageBytes   int64 `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	MessagesPerMinute int   `mapstructure:"messages_per_minute" yaml:"messages_per_minute"`
	ClientBuffer      int   `mapstructure:"client_buffer" yaml:"client_buffer"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":3000",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		StaticDir:         "public",
		DefaultRoom:       "Lobby",
		MessageRoomPolicy: "declared",
		MaxMessageBytes:   1 << 16,
		MessagesPerMinute: 120,
		ClientBuffer:      32,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.StaticDir != "" {
		c.StaticDir = other.StaticDir
	}
	if other.DefaultRoom != "" {
		c.DefaultRoom = other.DefaultRoom
	}
	if other.MessageRoomPolicy != "" {
		c.MessageRoomPolicy = other.MessageRoomPolicy
	}
	if other.AnnounceDepartures {
		c.AnnounceDepartures = true
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if other.MessagesPerMinute != 0 {
		c.MessagesPerMinute = other.MessagesPerMinute
	}
	if other.ClientBuffer != 0 {
		c.ClientBuffer = other.ClientBuffer
	}
}

// Validate reports settings the hub or transport cannot start with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.DefaultRoom == "" {
		return errors.New("default_room is required")
	}
	if _, err := core.ParseRoomPolicy(c.MessageRoomPolicy); err != nil {
		return fmt.Errorf("message_room_policy: %w", err)
	}
	if c.MaxMessageBytes < 0 {
		return fmt.Errorf("max_message_bytes must not be negative, got %d", c.MaxMessageBytes)
	}
	if c.MessagesPerMinute < 0 {
		return fmt.Errorf("messages_per_minute must not be negative, got %d", c.MessagesPerMinute)
	}
	if c.ClientBuffer < 0 {
		return fmt.Errorf("client_buffer must not be negative, got %d", c.ClientBuffer)
	}
	return nil
}
