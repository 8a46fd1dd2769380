package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderbot/internal/catalog"
)

const validYAML = `
telegram:
  token: "123456:test-token"
  run_mode: "longpoll"
logging:
  level: "debug"
  format: "kv"
rate_limit:
  interval_ms: 300
  exclude_updates: ["callback"]
forwarding:
  debug: true
  dev_chat_id: 99
  admin_chat_id: 11
catalog:
  - id: apple
    name: "Apples"
    unit_price: 120
  - id: milk
    name: "Milk"
    unit_price: 80
  - id: bread
    name: "Bread"
    unit_price: 40
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "123456:test-token", cfg.Telegram.Token)
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, 300, cfg.RateLimit.IntervalMS)
	assert.Equal(t, []string{"callback"}, cfg.RateLimit.ExcludeUpdates)
	assert.True(t, cfg.Forwarding.Debug)
	assert.Equal(t, int64(99), cfg.Forwarding.Target())
	require.Len(t, cfg.Catalog, 3)
	assert.Equal(t, "apple", cfg.Catalog[0].ID)
	assert.Equal(t, 120, cfg.Catalog[0].UnitPrice)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "telegram: ["))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse YAML")
}

func TestEnvOverridesToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "env:token")

	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)
	assert.Equal(t, "env:token", cfg.Telegram.Token)
}

func TestEnvOverridesForwardingDebug(t *testing.T) {
	t.Setenv("FORWARD_DEBUG", "false")

	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)
	assert.False(t, cfg.Forwarding.Debug)
	assert.Equal(t, int64(11), cfg.Forwarding.Target())
}

func baseConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123456:test-token"},
		Forwarding: ForwardingConfig{
			Debug:     true,
			DevChatID: 99,
		},
		Catalog: []catalog.Entry{
			{ID: "apple", Name: "Apples", UnitPrice: 120},
		},
	}
}

func TestNormalizeDefaultsToLongpoll(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.RunMode = ""
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
}

func TestNormalizeAcceptsPollingAlias(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.RunMode = "Polling"
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
}

func TestNormalizeRejectsUnknownRunMode(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	err := Normalize(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run_mode")
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.Token = ""
	assert.Error(t, Normalize(cfg))
}

func TestNormalizeWebhookRequirements(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	err := Normalize(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook.url")

	cfg.Webhook.URL = "https://bot.example.com/hook"
	err = Normalize(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook.listen")

	cfg.Webhook.Listen = "0.0.0.0"
	err = Normalize(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook.port")

	cfg.Webhook.Port = 8443
	assert.NoError(t, Normalize(cfg))
}

func TestNormalizeRejectsBadRateLimitExclusion(t *testing.T) {
	cfg := baseConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"inline_query"}
	err := Normalize(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exclude_updates")
}

func TestNormalizeCanonicalizesExclusions(t *testing.T) {
	cfg := baseConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback ", "MESSAGE"}
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, []string{"callback", "message"}, cfg.RateLimit.ExcludeUpdates)
}

func TestNormalizeRequiresForwardingTarget(t *testing.T) {
	cfg := baseConfig()
	cfg.Forwarding = ForwardingConfig{Debug: true, AdminChatID: 11}
	err := Normalize(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dev_chat_id")

	cfg.Forwarding = ForwardingConfig{Debug: false, DevChatID: 99}
	err = Normalize(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin_chat_id")
}

func TestNormalizeRequiresCatalog(t *testing.T) {
	cfg := baseConfig()
	cfg.Catalog = nil
	err := Normalize(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog")
}
