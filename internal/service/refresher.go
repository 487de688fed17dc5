package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"worktime-bot/internal/timer"
)

// StatsRefresher по расписанию пересчитывает месячные сводки всех пользователей
type StatsRefresher struct {
	cron      *cron.Cron
	summaries *SummaryService
	clock     timer.Clock
	logger    *logrus.Logger
}

func NewStatsRefresher(spec string, summaries *SummaryService, clock timer.Clock, loc *time.Location, logger *logrus.Logger) (*StatsRefresher, error) {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}

	r := &StatsRefresher{
		cron:      cron.New(cron.WithLocation(loc)),
		summaries: summaries,
		clock:     clock,
		logger:    logger,
	}

	if _, err := r.cron.AddFunc(spec, r.Run); err != nil {
		return nil, err
	}

	return r, nil
}

// Run пересчитывает текущий и предыдущий месяц
func (r *StatsRefresher) Run() {
	now := r.clock()
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)

	for _, m := range []time.Time{prev, now} {
		if _, err := r.summaries.RefreshAll(m.Year(), m.Month()); err != nil {
			r.logger.WithError(err).WithFields(logrus.Fields{
				"year":  m.Year(),
				"month": int(m.Month()),
			}).Error("Scheduled summary refresh failed")
		}
	}
}

func (r *StatsRefresher) Start() {
	r.cron.Start()
	r.logger.Info("Stats refresher started")
}

// Stop останавливает планировщик; контекст завершается, когда закончатся запущенные задачи
func (r *StatsRefresher) Stop() context.Context {
	return r.cron.Stop()
}
