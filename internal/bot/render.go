package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"tarc-profile-bot/internal/domain"
	"tarc-profile-bot/internal/service"
	"time"

	"github.com/bwmarrin/discordgo"
)

const internalErrorReply = "Profile failed (internal error)."

// RenderProfile turns an assembled profile into the reply embed.
func RenderProfile(p *domain.ProfileResult) *discordgo.MessageEmbed {
	divisions := "None"
	if len(p.Divisions) > 0 {
		lines := make([]string, 0, len(p.Divisions))
		for _, d := range p.Divisions {
			lines = append(lines, fmt.Sprintf("%s: **%s**", d.DisplayName, d.RoleName))
		}
		divisions = strings.Join(lines, "\n")
	}

	medals := "None"
	if len(p.Medals) > 0 {
		lines := make([]string, 0, len(p.Medals))
		for _, m := range p.Medals {
			lines = append(lines, "• "+m)
		}
		medals = strings.Join(lines, "\n")
	}

	onDuty := "🔴 Not in game"
	if p.OnDuty {
		onDuty = "🟢 In game"
	}

	joined := "N/A"
	if !p.Stats.FirstSeen.IsZero() {
		joined = fmt.Sprintf("<t:%d:F>", p.Stats.FirstSeen.Unix())
	}

	return &discordgo.MessageEmbed{
		Title:       p.DisplayName + " | TARC PROFILE",
		Description: "**Users info:**",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🪖 Rank", Value: "**" + p.MainRank.Role + "**"},
			{Name: "🟦 Division(s)", Value: divisions},
			{Name: "⏱ Time Played", Value: p.PlayTime, Inline: true},
			{Name: "🎯 XP", Value: strconv.FormatInt(p.Stats.XP, 10), Inline: true},
			{Name: "☠ Kills", Value: strconv.FormatInt(p.Stats.Kills, 10), Inline: true},
			{Name: "🏅 Medals", Value: medals},
			{Name: "On duty", Value: onDuty, Inline: true},
			{Name: "Joined game (first seen by bot)", Value: joined, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("UserId: %s • Last update: %s", p.PlayerID, p.Stats.LastUpdated.UTC().Format(time.RFC3339)),
		},
	}
}

// RenderError maps a BuildProfile failure to the text shown to the user.
func RenderError(username string, err error) string {
	var noData *service.NoGameDataError
	switch {
	case errors.As(err, &noData):
		return fmt.Sprintf("**%s** exists, but has **no saved game data** yet.\n"+
			"They need to **join the game once** so the server can send stats.", noData.DisplayName)
	case errors.Is(err, service.ErrUserNotFound):
		return fmt.Sprintf("Couldn’t find Roblox user **%s**.", username)
	default:
		return internalErrorReply
	}
}

// parsePrefixCommand recognises "!profile <username>". ok is false for any
// other message; an empty username means the command was used without one.
func parsePrefixCommand(content string) (username string, ok bool) {
	parts := strings.Fields(content)
	if len(parts) == 0 || !strings.EqualFold(parts[0], "!profile") {
		return "", false
	}
	if len(parts) < 2 {
		return "", true
	}
	return parts[1], true
}
