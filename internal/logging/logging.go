// Package logging настраивает logrus: текстовый формат и, при необходимости,
// файл с ротацией через lumberjack.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB  = 10
	maxBackups = 5
	maxAgeDays = 30
)

// New создает логгер. Пустой file - только stdout.
// Неизвестный уровень заменяется на info.
func New(level, file string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	logger.SetOutput(Output(file))

	if err != nil && level != "" {
		logger.WithField("level", level).Warn("Unknown log level, falling back to info")
	}

	return logger
}

// Output возвращает stdout или stdout вместе с ротируемым файлом
func Output(file string) io.Writer {
	if file == "" {
		return os.Stdout
	}

	return io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	})
}
