package fx

import (
	"tarc-profile-bot/internal/bot"
	"tarc-profile-bot/internal/server"
	"testing"

	"go.uber.org/fx"
)

func TestModuleGraph(t *testing.T) {
	err := fx.ValidateApp(
		Module,
		fx.Invoke(func(*server.ProfileServer, *bot.Bot) {}),
	)
	if err != nil {
		t.Fatalf("dependency graph invalid: %v", err)
	}
}
