// Package timer - клиентская проекция активной сессии учета времени.
// Источник истины - хранилище, трекер только повторяет подтвержденные переходы.
package timer

import (
	"context"
	"errors"
	"sync"
	"time"

	"worktime-bot/internal/calendar"
	"worktime-bot/internal/leave"
	"worktime-bot/internal/models"
)

// State - состояние трекера
type State int

const (
	Idle State = iota
	Running
	OnBreak
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case OnBreak:
		return "on_break"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

var (
	ErrAlreadyActiveSession = errors.New("active session already exists")
	ErrNotActiveSession     = errors.New("no active session")
)

// Clock возвращает текущее время; часовой пояс результата определяет "сегодня"
type Clock func() time.Time

// StartRequest - данные для запуска: метаданные сессии и все, что нужно для проверки даты
type StartRequest struct {
	Description      string
	TaskID           *uint
	IsOvertime       bool
	WorkdayEntries   []models.WorkdayEntry
	AcceptedRequests []models.LeaveRequest
	Settings         models.Settings
}

// MetaUpdate - частичное обновление; nil означает "не менять"
type MetaUpdate struct {
	Description *string
	TaskID      *uint
	ClearTask   bool
	IsOvertime  *bool
}

// Checkpoint - снимок внутреннего состояния для отката после ошибки хранилища
type Checkpoint struct {
	state        State
	active       models.ActiveTimerState
	accrued      time.Duration
	runningSince time.Time
}

type Tracker struct {
	mu     sync.Mutex
	userID uint
	now    Clock

	state        State
	active       models.ActiveTimerState
	accrued      time.Duration // накапливается только в Running
	runningSince time.Time
}

func New(userID uint, now Clock) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		userID: userID,
		now:    now,
		state:  Idle,
	}
}

func (t *Tracker) UserID() uint {
	return t.userID
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Start запускает сессию, если сегодняшняя дата проходит проверку.
// Блокировка возвращается как Decision, а не как ошибка.
func (t *Tracker) Start(req StartRequest) (leave.Decision, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == Running || t.state == OnBreak {
		return leave.Decision{}, ErrAlreadyActiveSession
	}

	now := t.now()
	decision, err := leave.CanStartSession(calendar.DateOf(now), req.WorkdayEntries, req.AcceptedRequests, req.Settings)
	if err != nil {
		return leave.Decision{}, err
	}
	if !decision.Allowed {
		return decision, nil
	}

	t.active = models.ActiveTimerState{
		UserID:          t.userID,
		Active:          true,
		StartTime:       now,
		IsBreak:         false,
		IsOvertime:      req.IsOvertime,
		WorkDescription: req.Description,
		TaskID:          copyID(req.TaskID),
	}
	t.accrued = 0
	t.runningSince = now
	t.state = Running

	return decision, nil
}

// Pause останавливает накопление. Повторная пауза - no-op.
func (t *Tracker) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case OnBreak:
		return nil
	case Running:
		t.accrued += t.now().Sub(t.runningSince)
		t.state = OnBreak
		t.active.IsBreak = true
		return nil
	}
	return ErrNotActiveSession
}

// Resume продолжает накопление с новой точки отсчета. Повторный вызов - no-op.
func (t *Tracker) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case Running:
		return nil
	case OnBreak:
		t.runningSince = t.now()
		t.state = Running
		t.active.IsBreak = false
		return nil
	}
	return ErrNotActiveSession
}

// UpdateMeta меняет описание, задачу и флаг сверхурочных без смены состояния
func (t *Tracker) UpdateMeta(update MetaUpdate) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Running && t.state != OnBreak {
		return ErrNotActiveSession
	}

	if update.Description != nil {
		t.active.WorkDescription = *update.Description
	}
	if update.ClearTask {
		t.active.TaskID = nil
	} else if update.TaskID != nil {
		t.active.TaskID = copyID(update.TaskID)
	}
	if update.IsOvertime != nil {
		t.active.IsOvertime = *update.IsOvertime
	}
	return nil
}

// Stop завершает сессию и возвращает неизменяемую запись о ней
func (t *Tracker) Stop() (models.TimerSession, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Running && t.state != OnBreak {
		return models.TimerSession{}, ErrNotActiveSession
	}

	now := t.now()
	elapsed := t.elapsedAt(now)

	session := models.TimerSession{
		UserID:          t.userID,
		StartTime:       t.active.StartTime,
		EndTime:         now,
		DurationSeconds: int64(elapsed / time.Second),
		IsOvertime:      t.active.IsOvertime,
		WorkDescription: t.active.WorkDescription,
		TaskID:          copyID(t.active.TaskID),
	}

	t.state = Stopped
	t.reset()

	return session, nil
}

// Elapsed - сумма всех интервалов Running
func (t *Tracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsedAt(t.now())
}

func (t *Tracker) elapsedAt(now time.Time) time.Duration {
	switch t.state {
	case Running:
		return t.accrued + now.Sub(t.runningSince)
	case OnBreak:
		return t.accrued
	}
	return 0
}

// Active возвращает состояние в виде записи для хранилища
func (t *Tracker) Active() (models.ActiveTimerState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Running && t.state != OnBreak {
		return models.ActiveTimerState{}, false
	}

	st := t.active
	st.TaskID = copyID(t.active.TaskID)
	st.AccruedNanos = int64(t.accrued)
	if t.state == Running {
		since := t.runningSince
		st.RunningSince = &since
	}
	return st, true
}

// Restore восстанавливает трекер из записи хранилища; nil переводит в Idle
func (t *Tracker) Restore(st *models.ActiveTimerState) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if st == nil || !st.Active {
		t.reset()
		return
	}

	t.active = *st
	t.active.TaskID = copyID(st.TaskID)
	t.accrued = time.Duration(st.AccruedNanos)

	if st.IsBreak {
		t.state = OnBreak
		t.runningSince = time.Time{}
		return
	}

	t.state = Running
	if st.RunningSince != nil {
		t.runningSince = *st.RunningSince
	} else {
		t.runningSince = st.StartTime
	}
}

func (t *Tracker) Checkpoint() Checkpoint {
	t.mu.Lock()
	defer t.mu.Unlock()

	active := t.active
	active.TaskID = copyID(t.active.TaskID)
	return Checkpoint{
		state:        t.state,
		active:       active,
		accrued:      t.accrued,
		runningSince: t.runningSince,
	}
}

func (t *Tracker) Rollback(cp Checkpoint) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = cp.state
	t.active = cp.active
	t.accrued = cp.accrued
	t.runningSince = cp.runningSince
}

// Watch раз в interval передает в fn текущее состояние и прошедшее время.
// Ничего не меняет; таймер освобождается при отмене ctx.
func (t *Tracker) Watch(ctx context.Context, interval time.Duration, fn func(State, time.Duration)) {
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.mu.Lock()
			state, elapsed := t.state, t.elapsedAt(t.now())
			t.mu.Unlock()
			fn(state, elapsed)
		}
	}
}

func (t *Tracker) reset() {
	t.state = Idle
	t.active = models.ActiveTimerState{}
	t.accrued = 0
	t.runningSince = time.Time{}
}

func copyID(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
