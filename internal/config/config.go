package config

import (
	"errors"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingToken       = errors.New("TELEGRAM_BOT_TOKEN is not set")
	ErrMissingAdminChatID = errors.New("BASE_ADMIN_CHAT_ID is not set")
)

type BotConfig struct {
	TelegramToken   string
	BaseAdminChatID int64
	DatabaseURL     string
	BotDebug        bool

	LogLevel string
	LogFile  string

	HolidaysFile string
	StatsCron    string
	Timezone     string

	// Начальные значения строки настроек, применяются только при первом запуске
	WorkOnWeekends        bool
	IncludePolishHolidays bool
	IncludeCustomHolidays bool
}

var instance *BotConfig
var once sync.Once

func GetBotConfig() *BotConfig {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Infof("no .env file loaded: %s", err.Error())
		}
		instance = Load()
	})

	return instance
}

// Load читает конфигурацию из окружения без кеширования
func Load() *BotConfig {
	return &BotConfig{
		TelegramToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		BaseAdminChatID: getEnvAsInt("BASE_ADMIN_CHAT_ID", 0),
		DatabaseURL:     getEnv("DATABASE_URL", "worktime.db"),
		BotDebug:        getEnvAsBool("BOT_DEBUG", false),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		HolidaysFile: getEnv("HOLIDAYS_FILE", ""),
		StatsCron:    getEnv("STATS_CRON", "0 3 * * *"),
		Timezone:     getEnv("TIMEZONE", "Europe/Warsaw"),

		WorkOnWeekends:        getEnvAsBool("WORK_ON_WEEKENDS", false),
		IncludePolishHolidays: getEnvAsBool("INCLUDE_POLISH_HOLIDAYS", true),
		IncludeCustomHolidays: getEnvAsBool("INCLUDE_CUSTOM_HOLIDAYS", true),
	}
}

// Validate проверяет параметры, без которых бот не запустится
func (c *BotConfig) Validate() error {
	if c.TelegramToken == "" {
		return ErrMissingToken
	}
	if c.BaseAdminChatID == 0 {
		return ErrMissingAdminChatID
	}
	return nil
}

// Location - часовой пояс для "сегодня"; при ошибке UTC
func (c *BotConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		logrus.WithError(err).WithField("timezone", c.Timezone).Warn("Unknown timezone, using UTC")
		return time.UTC
	}
	return loc
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}

	return defaultVal
}
