package bot

import (
	"context"
	"fmt"
	"tarc-profile-bot/internal/config"
	"tarc-profile-bot/internal/constants"
	"tarc-profile-bot/internal/domain"
	"tarc-profile-bot/internal/service"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const (
	commandName = "profile"
	optionName  = "username"
	prefixUsage = "Use: `!profile robloxUsername`"
)

type ProfileBuilder interface {
	BuildProfile(ctx context.Context, username string) (*domain.ProfileResult, error)
}

var _ ProfileBuilder = (*service.ProfileService)(nil)

// Bot is the Discord front end. With incomplete credentials it is built
// disabled and Start/Stop do nothing.
type Bot struct {
	session  *discordgo.Session
	profiles ProfileBuilder
	appID    string
	guildID  string
	logger   zerolog.Logger
}

func NewBot(cfg *config.Config, profiles *service.ProfileService, logger zerolog.Logger) (*Bot, error) {
	b := &Bot{
		profiles: profiles,
		appID:    cfg.DiscordAppID,
		guildID:  cfg.DiscordGuildID,
		logger:   logger.With().Str("component", "discord").Logger(),
	}
	if !cfg.DiscordEnabled() {
		return b, nil
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)
	session.AddHandler(b.onMessage)

	b.session = session
	return b, nil
}

func (b *Bot) Enabled() bool { return b.session != nil }

func (b *Bot) Start(ctx context.Context) error {
	if !b.Enabled() {
		b.logger.Warn().Msg("discord bot disabled")
		return nil
	}
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	return nil
}

func (b *Bot) Stop(ctx context.Context) error {
	if !b.Enabled() {
		return nil
	}
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info().Str("user", r.User.String()).Msg("logged in")

	commands := []*discordgo.ApplicationCommand{{
		Name:        commandName,
		Description: "Show a Roblox user's TARC profile",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        optionName,
			Description: "Roblox username",
			Required:    true,
		}},
	}}
	if _, err := s.ApplicationCommandBulkOverwrite(b.appID, b.guildID, commands); err != nil {
		b.logger.Error().Err(err).Msg("slash command register failed")
		return
	}
	b.logger.Info().Msg("slash commands registered")
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != commandName {
		return
	}

	var username string
	for _, opt := range data.Options {
		if opt.Name == optionName {
			username = opt.StringValue()
		}
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to defer interaction")
		return
	}

	content, embed := b.answer(context.Background(), username)
	edit := &discordgo.WebhookEdit{}
	if embed != nil {
		edit.Embeds = &[]*discordgo.MessageEmbed{embed}
	} else {
		edit.Content = &content
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, edit); err != nil {
		b.logger.Error().Err(err).Str("username", username).Msg("failed to edit interaction reply")
	}
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return
	}
	username, ok := parsePrefixCommand(m.Content)
	if !ok {
		return
	}

	msg := &discordgo.MessageSend{Reference: m.Reference()}
	if username == "" {
		msg.Content = prefixUsage
	} else {
		content, embed := b.answer(context.Background(), username)
		if embed != nil {
			msg.Embeds = []*discordgo.MessageEmbed{embed}
		} else {
			msg.Content = content
		}
	}
	if _, err := s.ChannelMessageSendComplex(m.ChannelID, msg); err != nil {
		b.logger.Error().Err(err).Str("username", username).Msg("failed to send reply")
	}
}

// answer builds the reply for username: an embed on success, text otherwise.
// Panics below this point become the generic internal error reply.
func (b *Bot) answer(ctx context.Context, username string) (content string, embed *discordgo.MessageEmbed) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().Interface("panic", r).Str("username", username).Msg("profile command panicked")
			content, embed = internalErrorReply, nil
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()
	ctx = b.logger.WithContext(ctx)

	profile, err := b.profiles.BuildProfile(ctx, username)
	if err != nil {
		return RenderError(username, err), nil
	}
	return "", RenderProfile(profile)
}
