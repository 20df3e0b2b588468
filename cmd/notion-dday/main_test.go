package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_BOT_TOKEN", "discord-token")
	t.Setenv("DISCORD_CHANNEL_ID", "112233445566778899")
	t.Setenv("NOTION_API_KEY", "secret_notion")
	t.Setenv("NOTION_DATABASE_ID", "0123456789abcdef")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "discord-token", cfg.DiscordToken)
	assert.Equal(t, "112233445566778899", cfg.channelID())
	assert.Equal(t, "secret_notion", cfg.NotionAPIKey)
	assert.Equal(t, "0123456789abcdef", cfg.NotionDatabaseID)
	assert.Equal(t, "날짜", cfg.DateProperty)
	assert.Equal(t, "이름", cfg.TitleProperty)
	assert.Equal(t, "!", cfg.CommandPrefix)
	assert.Equal(t, 24*time.Hour, cfg.CheckInterval)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.Empty(t, cfg.HealthAddress)
}

func TestLoadConfigMissingValues(t *testing.T) {
	for _, name := range []string{
		"DISCORD_BOT_TOKEN",
		"DISCORD_CHANNEL_ID",
		"NOTION_API_KEY",
		"NOTION_DATABASE_ID",
	} {
		t.Run(name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(name, "")

			_, err := loadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestLoadConfigRejectsNonNumericChannel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DISCORD_CHANNEL_ID", "general")

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsNonPositiveInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CHECK_INTERVAL", "0s")

	_, err := loadConfig()
	assert.Error(t, err)
}
