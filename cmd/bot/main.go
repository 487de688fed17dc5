package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"worktime-bot/internal/config"
	"worktime-bot/internal/handler"
	"worktime-bot/internal/logging"
	"worktime-bot/internal/models"
	"worktime-bot/internal/repository"
	"worktime-bot/internal/service"
	"worktime-bot/pkg/telegram"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "worktime-bot",
		Short: "Telegram bot for working time, leave and holidays",
		// Без подкоманды запускаем бота
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(holidaysCmd())
	rootCmd.AddCommand(eligibleCmd())
	rootCmd.AddCommand(summaryCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

// app - собранные зависимости, общие для бота и CLI-команд
type app struct {
	cfg      *config.BotConfig
	logger   *logrus.Logger
	db       *gorm.DB
	loc      *time.Location
	services handler.Services
}

func newApp(cfg *config.BotConfig) (*app, error) {
	logger := logging.New(cfg.LogLevel, cfg.LogFile)

	db, err := repository.Open(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err := repository.NewRepositories(db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create repositories: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, db: db, loc: cfg.Location()}

	settings := service.NewSettingsService(repos.Settings, logger)
	err = settings.Init(models.Settings{
		WorkOnWeekends:        cfg.WorkOnWeekends,
		IncludePolishHolidays: cfg.IncludePolishHolidays,
		IncludeCustomHolidays: cfg.IncludeCustomHolidays,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize settings: %w", err)
	}

	// сводки подписываются на изменения настроек до загрузки праздников
	summaries := service.NewSummaryService(repos, settings, nil, a.loc, logger)

	if cfg.HolidaysFile != "" {
		n, err := settings.SeedFromFile(cfg.HolidaysFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load holidays file: %w", err)
		}
		logger.WithFields(logrus.Fields{
			"file":  cfg.HolidaysFile,
			"count": n,
		}).Info("Custom holidays loaded")
	}

	a.services = handler.Services{
		Users:     service.NewUserService(repos.Users, logger),
		Settings:  settings,
		Leaves:    service.NewLeaveService(repos, settings, summaries, nil, logger),
		Workdays:  service.NewWorkdayService(repos.Workdays, summaries, logger),
		Timers:    service.NewTimerService(repos, settings, summaries, a.clock, logger),
		Summaries: summaries,
	}

	return a, nil
}

// clock - текущее время в часовом поясе TIMEZONE, от него считается "сегодня"
func (a *app) clock() time.Time {
	return time.Now().In(a.loc)
}

func (a *app) close() {
	// Дожидаемся фоновых пересчетов сводок
	a.services.Summaries.Wait()

	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.logger.WithError(err).Warn("Error closing database")
		}
	}
}

func serve(ctx context.Context) error {
	cfg := config.GetBotConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	logger := a.logger

	// Инициализируем администратора из конфига
	if err := a.services.Users.InitializeAdmin(cfg.BaseAdminChatID); err != nil {
		logger.WithError(err).Warn("Failed to initialize admin")
	} else {
		logger.WithField("chat_id", cfg.BaseAdminChatID).Info("Admin initialized")
	}

	refresher, err := service.NewStatsRefresher(cfg.StatsCron, a.services.Summaries, a.clock, a.loc, logger)
	if err != nil {
		return fmt.Errorf("invalid STATS_CRON %q: %w", cfg.StatsCron, err)
	}
	refresher.Start()
	defer func() {
		<-refresher.Stop().Done()
	}()

	// Создаем клиент Telegram
	client, err := telegram.NewClient(telegram.Options{
		Token: cfg.TelegramToken,
		Debug: cfg.BotDebug,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create Telegram client: %w", err)
	}

	botHandler := handler.NewHandler(client.Bot, a.services, a.clock, logger)
	updates := client.Updates(ctx)

	// Уведомляем всех администраторов о запуске
	chatIDs := []int64{cfg.BaseAdminChatID}
	if admins, err := a.services.Users.GetAdmins(); err == nil {
		for _, admin := range admins {
			chatIDs = append(chatIDs, admin.ChatID)
		}
	}
	if err := client.Notify("🤖 Бот запущен", chatIDs...); err != nil {
		logger.WithError(err).Warn("Failed to notify admins about startup")
	}

	logger.Info("Bot started. Press Ctrl+C to stop.")
	botHandler.HandleUpdates(ctx, updates)

	logger.Info("Bot stopped gracefully")
	return nil
}
