package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("GUILD_CHANNELS", "guild-1=channel-1,guild-2=channel-2")
}

func TestLoad_AllRequiredVarsSet(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.DiscordToken)
	assert.Equal(t, "guild-1=channel-1,guild-2=channel-2", cfg.GuildChannels)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Second, cfg.RateLimitInterval)
	assert.Equal(t, 1.0, cfg.RateLimitTokens)
	assert.Equal(t, 30.0, cfg.RateLimitCapacity)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		skipEnv string
		wantErr string
	}{
		{"missing DISCORD_TOKEN", "DISCORD_TOKEN", "DISCORD_TOKEN is required"},
		{"missing GUILD_CHANNELS", "GUILD_CHANNELS", "GUILD_CHANNELS is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.skipEnv, "")

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestLoad_InvalidRateLimit(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RATE_LIMIT_CAPACITY", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_TOKENS and RATE_LIMIT_CAPACITY")
}

func TestParseGuildChannels(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "single pair",
			raw:  "g1=c1",
			want: map[string]string{"g1": "c1"},
		},
		{
			name: "multiple pairs with spaces",
			raw:  "g1=c1, g2=c2",
			want: map[string]string{"g1": "c1", "g2": "c2"},
		},
		{
			name:    "missing separator",
			raw:     "g1c1",
			wantErr: true,
		},
		{
			name:    "empty channel",
			raw:     "g1=",
			wantErr: true,
		},
		{
			name:    "duplicate guild",
			raw:     "g1=c1,g1=c2",
			wantErr: true,
		},
		{
			name:    "empty mapping",
			raw:     ",",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGuildChannels(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
