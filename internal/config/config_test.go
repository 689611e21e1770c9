package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sandevgo/everebot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EVERE_RUNTIME_PATH", dir)

	cfg, err := NewAppConfig()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.GetRuntimePath())
	assert.Equal(t, TransportDiscord, cfg.Transport)
	assert.Equal(t, 100, cfg.GetHistorySize())
	assert.Equal(t, "nl1027", cfg.ShutdownCommand)
	assert.Equal(t, "//clear", cfg.ClearCommand)
	assert.Equal(t, filepath.Join(dir, "memories"), cfg.GetMemoryDir())
	assert.Equal(t, filepath.Join(dir, "persona.yaml"), cfg.GetPersonaPath())
	assert.False(t, cfg.IsHTTPEnabled())
}

func TestNewAppConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown transport", env: map[string]string{"EVERE_TRANSPORT": "irc"}},
		{name: "zero history", env: map[string]string{"EVERE_HISTORY_SIZE": "0"}},
		{name: "non-numeric history", env: map[string]string{"EVERE_HISTORY_SIZE": "lots"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EVERE_RUNTIME_PATH", t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := NewAppConfig()
			var cfgErr *core.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "app", cfgErr.Section)
		})
	}
}

func TestNewDiscordConfig_RequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	_, err := NewDiscordConfig()
	var cfgErr *core.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "discord", cfgErr.Section)

	t.Setenv("DISCORD_TOKEN", "abc")
	cfg, err := NewDiscordConfig()
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.Token)
}

func TestNewTelegramConfig(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:xyz")

	cfg, err := NewTelegramConfig()
	require.NoError(t, err)
	assert.Equal(t, "123:xyz", cfg.Token)
	assert.Equal(t, int64(0), cfg.OwnerID)
}

func TestNewGeneratorConfig(t *testing.T) {
	t.Setenv("EVERE_GENERATOR", "OpenAI")
	t.Setenv("EVERE_GENERATOR_TIMEOUT", "90s")

	cfg, err := NewGeneratorConfig()
	require.NoError(t, err)
	assert.Equal(t, GeneratorOpenAI, cfg.Kind)
	assert.Equal(t, 90*time.Second, cfg.GetTimeout())
	assert.Equal(t, 16000, cfg.GetContextSize())
	assert.Equal(t, 4000, cfg.GetMaxReplyBytes())

	t.Setenv("EVERE_GENERATOR", "magic")
	_, err = NewGeneratorConfig()
	assert.Error(t, err)
}

func TestResolveRuntimePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "rt")
	assert.Equal(t, abs, ResolveRuntimePath(abs))
	assert.True(t, filepath.IsAbs(ResolveRuntimePath("relative")))
	assert.True(t, filepath.IsAbs(ResolveRuntimePath("")))
}
