package ratings

import (
	"context"
	"errors"
	"time"

	"CareBridge/internal/auth"

	"github.com/montanaflynn/stats"
)

type Service struct {
	repo     *Repository
	userRepo *auth.UserRepository
}

func NewService(repo *Repository, userRepo *auth.UserRepository) *Service {
	return &Service{repo: repo, userRepo: userRepo}
}

func (s *Service) Rate(ctx context.Context, patientID string, req RateRequest) error {
	if req.Score < 1 || req.Score > 5 {
		return errors.New("score must be between 1 and 5")
	}
	doctor, err := s.userRepo.FindByID(ctx, req.DoctorID)
	if err != nil {
		return err
	}
	if doctor == nil || doctor.Role != auth.RoleDoctor {
		return errors.New("doctor not found")
	}
	return s.repo.Upsert(ctx, &Rating{
		DoctorID:  req.DoctorID,
		PatientID: patientID,
		Score:     req.Score,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	})
}

// Summarize computes count, mean and median of a doctor's scores.
func (s *Service) Summarize(ctx context.Context, doctorID string) (*Summary, error) {
	list, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	summary := &Summary{DoctorID: doctorID, Count: len(list)}
	if len(list) == 0 {
		return summary, nil
	}

	scores := make([]float64, len(list))
	for i, rating := range list {
		scores[i] = float64(rating.Score)
	}
	if summary.Average, err = stats.Mean(scores); err != nil {
		return nil, err
	}
	if summary.Median, err = stats.Median(scores); err != nil {
		return nil, err
	}
	return summary, nil
}
