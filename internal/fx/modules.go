package fx

import (
	"tarc-profile-bot/internal/api"
	"tarc-profile-bot/internal/bot"
	"tarc-profile-bot/internal/config"
	"tarc-profile-bot/internal/logger"
	"tarc-profile-bot/internal/repository"
	"tarc-profile-bot/internal/server"
	"tarc-profile-bot/internal/service"

	"go.uber.org/fx"
)

func ProvideIdentityClient(client *api.RobloxClient) service.IdentityClient {
	return client
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	// cache
	fx.Provide(repository.NewStatsCache),
	// api client
	fx.Provide(api.NewRobloxClient),
	fx.Provide(ProvideIdentityClient),
	// svc
	fx.Provide(service.NewIngestService),
	fx.Provide(service.NewProfileService),
	// front ends
	fx.Provide(server.NewProfileServer),
	fx.Provide(bot.NewBot),
)
