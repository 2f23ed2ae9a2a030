package reminder

import (
	"context"
	"fmt"
	"time"

	"CareBridge/internal/cycle"
	"CareBridge/internal/push"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Directory enumerates users eligible for menstrual reminders.
type Directory interface {
	FindEligibleUsers(ctx context.Context) ([]cycle.EligibleUser, error)
}

// Sender delivers one payload to one user.
type Sender interface {
	SendToUser(ctx context.Context, userID string, payload push.Payload) bool
}

// UserError records why one user's reminders could not be delivered. The run
// itself always completes.
type UserError struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// RunResult is the aggregate outcome of one reminder pass.
type RunResult struct {
	RunID          string      `json:"run_id"`
	Date           time.Time   `json:"date"`
	Processed      int         `json:"processed"`
	Success        int         `json:"success"`
	TotalReminders int         `json:"total_reminders"`
	Errors         []UserError `json:"errors,omitempty"`
	StartedAt      time.Time   `json:"started_at"`
	FinishedAt     time.Time   `json:"finished_at"`
}

// DailyScheduler performs one full pass over eligible users: evaluate due
// reminders, dispatch them, aggregate counts. Re-running on the same day
// resends still-due reminders; due-ness is recomputed from date equality and
// never persisted.
type DailyScheduler struct {
	directory Directory
	sender    Sender
	limiter   *rate.Limiter
	logger    *zap.SugaredLogger
}

// Spacing between users keeps the run inside the push provider's rate limits.
const interUserSpacing = 100 * time.Millisecond

func NewDailyScheduler(directory Directory, sender Sender, logger *zap.SugaredLogger) *DailyScheduler {
	return &DailyScheduler{
		directory: directory,
		sender:    sender,
		limiter:   rate.NewLimiter(rate.Every(interUserSpacing), 1),
		logger:    logger,
	}
}

// RunOnce processes every eligible user for the given day. A single user's
// failure never aborts the run. Processed counts users actually evaluated;
// cancellation stops the walk before the next user is counted.
func (s *DailyScheduler) RunOnce(ctx context.Context, today time.Time) RunResult {
	result := RunResult{
		RunID:     uuid.NewString(),
		Date:      cycle.DateOnly(today),
		StartedAt: time.Now(),
	}

	users, err := s.directory.FindEligibleUsers(ctx)
	if err != nil {
		s.logger.Errorw("Failed to load eligible users", "run_id", result.RunID, "error", err)
		result.Errors = append(result.Errors, UserError{Reason: "directory query failed: " + err.Error()})
		result.FinishedAt = time.Now()
		return result
	}

	for _, user := range users {
		if err := s.limiter.Wait(ctx); err != nil {
			result.Errors = append(result.Errors, UserError{UserID: user.UserID, Reason: "run cancelled"})
			break
		}
		result.Processed++

		delivered, attempted, err := s.processUser(ctx, user, today)
		result.TotalReminders += delivered
		switch {
		case err != nil:
			result.Errors = append(result.Errors, UserError{UserID: user.UserID, Reason: err.Error()})
		case attempted > 0 && delivered == 0:
			result.Errors = append(result.Errors, UserError{UserID: user.UserID, Reason: "all sends failed"})
		default:
			result.Success++
		}
	}

	result.FinishedAt = time.Now()
	s.logger.Infow("Reminder run finished",
		"run_id", result.RunID,
		"date", result.Date.Format("2006-01-02"),
		"processed", result.Processed,
		"success", result.Success,
		"reminders", result.TotalReminders,
		"errors", len(result.Errors))
	return result
}

// processUser evaluates and dispatches one user's reminders. Panics from
// malformed cycle data are converted to a per-user error.
func (s *DailyScheduler) processUser(ctx context.Context, user cycle.EligibleUser, today time.Time) (delivered, attempted int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("evaluation panicked: %v", r)
		}
	}()

	events := cycle.Evaluate(user.Profile, user.Prefs, today)
	for _, event := range events {
		attempted++
		payload := push.Payload{Title: event.Title, Body: event.Body, Data: event.Data}
		if s.sender.SendToUser(ctx, user.UserID, payload) {
			delivered++
		}
	}
	return delivered, attempted, nil
}
