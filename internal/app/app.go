package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/reman131/chat-app/internal/config"
	"github.com/reman131/chat-app/internal/core"
	transporthttp "github.com/reman131/chat-app/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	policy, err := core.ParseRoomPolicy(cfg.MessageRoomPolicy)
	if err != nil {
		return nil, fmt.Errorf("init hub: %w", err)
	}

	hub := core.NewHub(core.Options{
		DefaultRoom:        cfg.DefaultRoom,
		Policy:             policy,
		AnnounceDepartures: cfg.AnnounceDepartures,
	}, logger)

	logger.Info().
		Str("default_room", cfg.DefaultRoom).
		Stringer("message_room_policy", policy).
		Bool("announce_departures", cfg.AnnounceDepartures).
		Msg("hub configured")

	server := transporthttp.NewServer(hub, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		log:             logger,
	}, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() stdhttp.Handler {
	return a.server.Handler
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go a.hub.Run(hubCtx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
