package presentation

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/notion-dday/internal/domain"
)

// DiscordMessenger posts text notices to Discord channels.
type DiscordMessenger struct {
	session *discordgo.Session
}

// NewDiscordMessenger wires a Discord session to the messenger interface expected by the use case layer.
func NewDiscordMessenger(session *discordgo.Session) *DiscordMessenger {
	return &DiscordMessenger{session: session}
}

// ResolveChannel checks that channelID is visible to the bot, preferring the gateway cache.
func (m *DiscordMessenger) ResolveChannel(ctx context.Context, channelID string) error {
	if m.session == nil {
		return fmt.Errorf("discord session is not initialised")
	}

	if m.session.State != nil {
		if _, err := m.session.State.Channel(channelID); err == nil {
			return nil
		}
	}

	if _, err := m.session.Channel(channelID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w: channel %s: %v", domain.ErrChannelUnavailable, channelID, err)
	}

	return nil
}

// SendMessage posts content to channelID.
func (m *DiscordMessenger) SendMessage(ctx context.Context, channelID, content string) error {
	if m.session == nil {
		return fmt.Errorf("discord session is not initialised")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := m.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}
