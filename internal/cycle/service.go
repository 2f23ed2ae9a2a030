package cycle

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Service handles business logic for cycle tracking.
type Service struct {
	repo   *Repository
	logger *zap.SugaredLogger
}

func NewService(repo *Repository, logger *zap.SugaredLogger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Overview is the profile plus current predictions, shaped for the API.
type Overview struct {
	Profile       *CycleProfile  `json:"profile"`
	NextPeriod    *time.Time     `json:"next_period,omitempty"`
	Ovulation     *time.Time     `json:"ovulation,omitempty"`
	FertileWindow *FertileWindow `json:"fertile_window,omitempty"`
}

// GetOverview returns the user's profile with predicted dates attached.
// Predictions are omitted when the profile has no logged period.
func (s *Service) GetOverview(ctx context.Context, userID string) (*Overview, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.New("cycle profile not found")
	}

	overview := &Overview{Profile: profile}
	if next, ok := NextPeriod(profile.LastPeriodStart, profile.CycleLengthDays); ok {
		overview.NextPeriod = &next
	}
	if ov, ok := Ovulation(profile.LastPeriodStart, profile.CycleLengthDays); ok {
		overview.Ovulation = &ov
	}
	if win, ok := PredictFertileWindow(profile.LastPeriodStart, profile.CycleLengthDays); ok {
		overview.FertileWindow = &win
	}
	return overview, nil
}

// LogPeriod records a period start date for the user.
func (s *Service) LogPeriod(ctx context.Context, userID string, start time.Time, notes string) error {
	if start.After(time.Now().AddDate(0, 0, 1)) {
		return errors.New("period start date cannot be in the future")
	}
	if err := s.repo.LogPeriodStart(ctx, userID, start, notes); err != nil {
		return err
	}
	s.logger.Infow("Period logged", "user_id", userID, "start", DateOnly(start))
	return nil
}

// UpdateSettings validates and stores cycle length and period duration.
func (s *Service) UpdateSettings(ctx context.Context, userID string, cycleLength, periodDuration int) error {
	if cycleLength <= 0 {
		return errors.New("cycle length must be positive")
	}
	if periodDuration <= 0 || periodDuration >= cycleLength {
		return errors.New("period duration must be positive and shorter than the cycle length")
	}
	return s.repo.UpdateSettings(ctx, userID, cycleLength, periodDuration)
}

// SetReminderFlags stores the user's reminder selection.
func (s *Service) SetReminderFlags(ctx context.Context, userID string, flags ReminderFlags) error {
	return s.repo.SetReminderFlags(ctx, userID, flags)
}

// History returns past cycle records, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]CycleRecord, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.New("cycle profile not found")
	}
	history := make([]CycleRecord, len(profile.History))
	for i, record := range profile.History {
		history[len(profile.History)-1-i] = record
	}
	return history, nil
}
