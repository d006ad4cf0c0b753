package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reman131/chat-app/internal/app"
	"github.com/reman131/chat-app/internal/config"
	"github.com/reman131/chat-app/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	overrides  config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "chat-app",
		Short:         "Room-based chat server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bootLogger := log.New(opts.overrides.LogLevel)

			cfg, path, err := opts.load(cmd, bootLogger)
			if err != nil {
				bootLogger.Error().Err(err).Str("path", path).Msg("load config")
				return err
			}

			logger := log.New(cfg.LogLevel)
			logger.Info().Str("config", path).Msg("configuration loaded")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(&cfg, logger)
			if err != nil {
				logger.Error().Err(err).Msg("init app")
				return err
			}

			logger.Info().Str("addr", cfg.Addr).Msg("starting chat server")
			if err := application.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("server exited with error")
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	bindFlags(cmd, opts)
	return cmd
}

func bindFlags(cmd *cobra.Command, opts *rootOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "path to config.yaml (created with defaults if missing)")
	flags.StringVar(&opts.overrides.Addr, "addr", "", "HTTP listen address")
	flags.StringVar(&opts.overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.overrides.StaticDir, "static-dir", "", "directory served for non-API paths")
	flags.StringVar(&opts.overrides.MessageRoomPolicy, "message-room-policy", "", "declared or tracked")
	flags.BoolVar(&opts.overrides.AnnounceDepartures, "announce-departures", false, "broadcast when users leave a room")
}

// load resolves the config file and env, then applies flags the user set.
func (o *rootOptions) load(cmd *cobra.Command, logger *zerolog.Logger) (config.Config, string, error) {
	cfg, path, err := config.Load(logger, o.configPath)
	if err != nil {
		return cfg, path, err
	}
	cfg.UpdateFrom(o.overrides)
	// UpdateFrom skips false, so an explicit --announce-departures=false is applied here.
	if cmd.Flags().Changed("announce-departures") {
		cfg.AnnounceDepartures = o.overrides.AnnounceDepartures
	}
	if err := cfg.Validate(); err != nil {
		return cfg, path, err
	}
	return cfg, path, nil
}
