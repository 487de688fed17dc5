package repository

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrInvalidData   = errors.New("invalid record data")
)

// Open открывает SQLite базу данных
func Open(dsn string, logger *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true, // SQLite ограничения
		TranslateError:                           true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Одно соединение: SQLite не любит параллельную запись
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		logger.WithError(err).Warn("Failed to enable foreign keys")
	}

	return db, nil
}

// Repositories - все репозитории приложения
type Repositories struct {
	Users     UserRepository
	Settings  SettingsRepository
	Plans     LeavePlanRepository
	Requests  LeaveRequestRepository
	Workdays  WorkdayEntryRepository
	Timers    TimerRepository
	Summaries MonthlySummaryRepository
}

// NewRepositories создает репозитории и выполняет автомиграцию
func NewRepositories(db *gorm.DB, logger *logrus.Logger) (*Repositories, error) {
	users, err := NewGormUserRepository(db, logger)
	if err != nil {
		return nil, err
	}
	settings, err := NewGormSettingsRepository(db, logger)
	if err != nil {
		return nil, err
	}
	plans, err := NewGormLeavePlanRepository(db, logger)
	if err != nil {
		return nil, err
	}
	requests, err := NewGormLeaveRequestRepository(db, logger)
	if err != nil {
		return nil, err
	}
	workdays, err := NewGormWorkdayEntryRepository(db, logger)
	if err != nil {
		return nil, err
	}
	timers, err := NewGormTimerRepository(db, logger)
	if err != nil {
		return nil, err
	}
	summaries, err := NewGormMonthlySummaryRepository(db, logger)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Users:     users,
		Settings:  settings,
		Plans:     plans,
		Requests:  requests,
		Workdays:  workdays,
		Timers:    timers,
		Summaries: summaries,
	}, nil
}
