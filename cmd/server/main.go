package main

import (
	"context"
	"fmt"
	"net/http"
	"tarc-profile-bot/internal/bot"
	"tarc-profile-bot/internal/config"
	"tarc-profile-bot/internal/constants"
	fxmodules "tarc-profile-bot/internal/fx"
	"tarc-profile-bot/internal/server"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
		fx.Invoke(runBot),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	profileServer *server.ProfileServer,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           profileServer.Handler(),
		ReadHeaderTimeout: constants.ReadHeaderTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}

func runBot(lc fx.Lifecycle, b *bot.Bot, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := b.Start(ctx); err != nil {
				// chat is optional; ingest keeps running without it
				logger.Error().Err(err).Msg("discord bot failed to start")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := b.Stop(ctx); err != nil {
				logger.Warn().Err(err).Msg("error closing discord session")
			}
			return nil
		},
	})
}
