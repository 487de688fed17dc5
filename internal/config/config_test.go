package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN", "BASE_ADMIN_CHAT_ID", "DATABASE_URL", "LOG_LEVEL", "LOG_FILE",
		"HOLIDAYS_FILE", "STATS_CRON", "TIMEZONE", "WORK_ON_WEEKENDS",
		"INCLUDE_POLISH_HOLIDAYS", "INCLUDE_CUSTOM_HOLIDAYS", "BOT_DEBUG",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	// Пустые значения не парсятся как bool/int, поэтому действуют значения по умолчанию
	assert.Equal(t, int64(0), cfg.BaseAdminChatID)
	assert.True(t, cfg.IncludePolishHolidays)
	assert.True(t, cfg.IncludeCustomHolidays)
	assert.False(t, cfg.WorkOnWeekends)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingToken)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("BASE_ADMIN_CHAT_ID", "-100123")
	t.Setenv("DATABASE_URL", "/tmp/bot.db")
	t.Setenv("STATS_CRON", "*/5 * * * *")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("WORK_ON_WEEKENDS", "true")
	t.Setenv("INCLUDE_POLISH_HOLIDAYS", "false")

	cfg := Load()

	assert.Equal(t, "token", cfg.TelegramToken)
	assert.Equal(t, int64(-100123), cfg.BaseAdminChatID)
	assert.Equal(t, "/tmp/bot.db", cfg.DatabaseURL)
	assert.Equal(t, "*/5 * * * *", cfg.StatsCron)
	assert.True(t, cfg.WorkOnWeekends)
	assert.False(t, cfg.IncludePolishHolidays)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestValidate_MissingAdmin(t *testing.T) {
	cfg := &BotConfig{TelegramToken: "token"}
	assert.ErrorIs(t, cfg.Validate(), ErrMissingAdminChatID)
}

func TestLocation_Unknown(t *testing.T) {
	cfg := &BotConfig{Timezone: "Mars/Olympus"}
	assert.Equal(t, time.UTC, cfg.Location())
}
