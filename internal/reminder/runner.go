package reminder

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"CareBridge/internal/push"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// GatewayHealth is the slice of the push gateway the runner needs.
type GatewayHealth interface {
	WarmUp() error
	Status() push.Status
}

// TokenCleaner prunes device tokens that can never be dispatch targets.
type TokenCleaner interface {
	CleanupDisabledTokens(ctx context.Context) (int64, error)
}

// JobStatus is the externally visible state of one scheduled job.
type JobStatus struct {
	Name      string    `json:"name"`
	Running   bool      `json:"running"`
	LastRun   time.Time `json:"last_run,omitempty"`
	NextRun   time.Time `json:"next_run,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

type jobState struct {
	entryID   cron.EntryID
	running   bool
	lastRun   time.Time
	lastError string
}

const (
	jobDailyReminders = "daily-reminders"
	jobHealthCheck    = "gateway-healthcheck"
	jobTokenCleanup   = "token-cleanup"

	gatewayWaitTimeout = 5 * time.Second
)

// CronRunner owns the calendar timers that drive the daily reminder pass and
// its maintenance jobs, all evaluated in one fixed timezone. Job errors and
// panics are logged and never unschedule the job.
type CronRunner struct {
	mu          sync.Mutex
	cron        *cron.Cron
	jobs        map[string]*jobState
	initialized bool

	scheduler *DailyScheduler
	gateway   GatewayHealth
	cleaner   TokenCleaner
	location  *time.Location
	dailySpec string
	logger    *zap.SugaredLogger
}

func NewCronRunner(scheduler *DailyScheduler, gateway GatewayHealth, cleaner TokenCleaner, logger *zap.SugaredLogger) *CronRunner {
	location := time.UTC
	if tz := os.Getenv("REMINDER_TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			logger.Warnw("Invalid REMINDER_TZ, falling back to UTC", "tz", tz)
		} else {
			location = loc
		}
	}
	dailySpec := os.Getenv("REMINDER_CRON")
	if dailySpec == "" {
		dailySpec = "0 8 * * *"
	}
	return &CronRunner{
		jobs:      make(map[string]*jobState),
		scheduler: scheduler,
		gateway:   gateway,
		cleaner:   cleaner,
		location:  location,
		dailySpec: dailySpec,
		logger:    logger,
	}
}

// Initialize registers and starts all jobs. Calling it twice is a no-op with
// a warning. It waits briefly for the push gateway, then proceeds regardless;
// a gateway that is still down at fire time surfaces as per-user failures.
func (r *CronRunner) Initialize() error {
	r.mu.Lock()
	if r.initialized {
		r.mu.Unlock()
		r.logger.Warn("Cron runner already initialized, ignoring")
		return nil
	}
	r.initialized = true
	r.mu.Unlock()

	r.waitForGateway()

	c := cron.New(cron.WithLocation(r.location))

	specs := []struct {
		name string
		spec string
		fn   func(context.Context) error
	}{
		{jobDailyReminders, r.dailySpec, r.runDailyReminders},
		{jobHealthCheck, "*/15 * * * *", r.runHealthCheck},
		{jobTokenCleanup, "0 3 * * *", r.runTokenCleanup},
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, job := range specs {
		name, fn := job.name, job.fn
		entryID, err := c.AddFunc(job.spec, func() { r.runJob(name, fn) })
		if err != nil {
			// Roll back so a later Initialize (or Restart) is not a no-op
			// against a runner that never started.
			r.jobs = make(map[string]*jobState)
			r.initialized = false
			return fmt.Errorf("failed to schedule %s: %w", name, err)
		}
		r.jobs[name] = &jobState{entryID: entryID}
	}
	c.Start()
	r.cron = c
	r.logger.Infow("Cron runner started",
		"tz", r.location.String(),
		"daily_spec", r.dailySpec,
		"jobs", len(r.jobs))
	return nil
}

func (r *CronRunner) waitForGateway() {
	deadline := time.Now().Add(gatewayWaitTimeout)
	for time.Now().Before(deadline) {
		if err := r.gateway.WarmUp(); err == nil {
			return
		}
		time.Sleep(500 * time.Millisecond)
	}
	r.logger.Warn("Push gateway not ready after wait, scheduling anyway")
}

// runJob wraps every scheduled invocation: in-flight guard, panic recovery,
// state bookkeeping. An overlapping tick is skipped, not queued.
func (r *CronRunner) runJob(name string, fn func(context.Context) error) {
	r.mu.Lock()
	state, ok := r.jobs[name]
	if !ok || state.running {
		r.mu.Unlock()
		r.logger.Warnw("Skipping job tick", "job", name)
		return
	}
	state.running = true
	state.lastRun = time.Now()
	r.mu.Unlock()

	defer func() {
		var errMsg string
		if rec := recover(); rec != nil {
			errMsg = fmt.Sprintf("panic: %v", rec)
			r.logger.Errorw("Job panicked", "job", name, "panic", rec)
		}
		r.mu.Lock()
		state.running = false
		if errMsg != "" {
			state.lastError = errMsg
		}
		r.mu.Unlock()
	}()

	if err := fn(context.Background()); err != nil {
		r.logger.Errorw("Job failed", "job", name, "error", err)
		r.mu.Lock()
		state.lastError = err.Error()
		r.mu.Unlock()
		return
	}
	r.mu.Lock()
	state.lastError = ""
	r.mu.Unlock()
}

func (r *CronRunner) runDailyReminders(ctx context.Context) error {
	r.scheduler.RunOnce(ctx, time.Now().In(r.location))
	return nil
}

func (r *CronRunner) runHealthCheck(ctx context.Context) error {
	if err := r.gateway.WarmUp(); err != nil {
		return fmt.Errorf("gateway not ready: %w", err)
	}
	status := r.gateway.Status()
	r.logger.Infow("Gateway health check", "ready", status.Ready, "provider", status.Provider)
	return nil
}

func (r *CronRunner) runTokenCleanup(ctx context.Context) error {
	cleared, err := r.cleaner.CleanupDisabledTokens(ctx)
	if err != nil {
		return err
	}
	if cleared > 0 {
		r.logger.Infow("Cleared tokens for push-disabled users", "count", cleared)
	}
	return nil
}

// TriggerNow runs the daily reminder pass out of band and returns its result.
// It intentionally bypasses the in-flight guard: re-running on the same day
// resends still-due reminders, which is the documented at-least-once
// behavior.
func (r *CronRunner) TriggerNow(ctx context.Context) RunResult {
	return r.scheduler.RunOnce(ctx, time.Now().In(r.location))
}

// Status reports every job's state with its next fire time.
func (r *CronRunner) Status() []JobStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	statuses := make([]JobStatus, 0, len(r.jobs))
	for _, name := range []string{jobDailyReminders, jobHealthCheck, jobTokenCleanup} {
		state, ok := r.jobs[name]
		if !ok {
			continue
		}
		status := JobStatus{
			Name:      name,
			Running:   state.running,
			LastRun:   state.lastRun,
			LastError: state.lastError,
		}
		if r.cron != nil {
			status.NextRun = r.cron.Entry(state.entryID).Next
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// StopAll stops the timers and waits for in-flight jobs to drain.
func (r *CronRunner) StopAll() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.initialized = false
	r.jobs = make(map[string]*jobState)
	r.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	r.logger.Info("Cron runner stopped")
}

// Restart stops everything and initializes again.
func (r *CronRunner) Restart() error {
	r.StopAll()
	return r.Initialize()
}

// Start wires the runner into the application lifecycle.
func (r *CronRunner) Start(lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := r.Initialize(); err != nil {
					r.logger.Errorw("Failed to initialize cron runner", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			r.StopAll()
			return nil
		},
	})
}
