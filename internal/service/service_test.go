package service

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"worktime-bot/internal/models"
	"worktime-bot/internal/repository"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type testEnv struct {
	repos     *repository.Repositories
	clock     *fakeClock
	loc       *time.Location
	users     *UserService
	settings  *SettingsService
	summaries *SummaryService
	leaves    *LeaveService
	workdays  *WorkdayService
	timers    *TimerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger, _ := test.NewNullLogger()
	db, err := repository.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	repos, err := repository.NewRepositories(db, logger)
	require.NoError(t, err)

	loc, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	// Понедельник, 2 июня 2025
	clock := &fakeClock{now: time.Date(2025, 6, 2, 9, 0, 0, 0, loc)}

	env := &testEnv{repos: repos, clock: clock, loc: loc}
	env.users = NewUserService(repos.Users, logger)
	env.settings = NewSettingsService(repos.Settings, logger)
	require.NoError(t, env.settings.Init(models.Settings{IncludePolishHolidays: true, IncludeCustomHolidays: true}))
	env.summaries = NewSummaryService(repos, env.settings, nil, loc, logger)
	env.leaves = NewLeaveService(repos, env.settings, env.summaries, nil, logger)
	env.workdays = NewWorkdayService(repos.Workdays, env.summaries, logger)
	env.timers = NewTimerService(repos, env.settings, env.summaries, clock.Now, logger)

	t.Cleanup(env.summaries.Wait)

	return env
}

func (e *testEnv) user(t *testing.T, chatID int64) *models.User {
	t.Helper()
	user, err := e.users.Register(chatID, "", "User", "")
	require.NoError(t, err)
	return user
}

func (e *testEnv) admin(t *testing.T, chatID int64) *models.User {
	t.Helper()
	require.NoError(t, e.users.InitializeAdmin(chatID))
	user, err := e.users.GetUser(chatID)
	require.NoError(t, err)
	return user
}
