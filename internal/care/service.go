package care

import (
	"context"
	"errors"
	"time"

	"CareBridge/internal/auth"
	"CareBridge/internal/push"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Service struct {
	repo     *Repository
	userRepo *auth.UserRepository
	gateway  *push.Gateway
}

func NewService(repo *Repository, userRepo *auth.UserRepository, gateway *push.Gateway) *Service {
	return &Service{repo: repo, userRepo: userRepo, gateway: gateway}
}

// Assign links a doctor or nurse to a patient, replacing any active
// assignment of the same role.
func (s *Service) Assign(ctx context.Context, req AssignRequest) (*Assignment, error) {
	patient, err := s.userRepo.FindByID(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil || patient.Role != auth.RolePatient {
		return nil, errors.New("patient not found")
	}
	staff, err := s.userRepo.FindByID(ctx, req.StaffID)
	if err != nil {
		return nil, err
	}
	if staff == nil || (staff.Role != auth.RoleDoctor && staff.Role != auth.RoleNurse) {
		return nil, errors.New("staff member must be a doctor or nurse")
	}

	assignment := &Assignment{
		ID:         primitive.NewObjectID(),
		PatientID:  req.PatientID,
		StaffID:    req.StaffID,
		StaffRole:  staff.Role,
		Active:     true,
		AssignedAt: time.Now(),
	}
	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *Service) AssignmentsForPatient(ctx context.Context, patientID string) ([]*Assignment, error) {
	return s.repo.ListAssignmentsForPatient(ctx, patientID)
}

func (s *Service) AssignmentsForStaff(ctx context.Context, staffID string) ([]*Assignment, error) {
	return s.repo.ListAssignmentsForStaff(ctx, staffID)
}

// AddLabReport stores report metadata and pushes a "results ready" note to
// the patient.
func (s *Service) AddLabReport(ctx context.Context, uploaderID string, req AddLabReportRequest) (*LabReport, error) {
	if req.PatientID == "" || req.Title == "" || req.FileURL == "" {
		return nil, errors.New("patient_id, title and file_url are required")
	}
	patient, err := s.userRepo.FindByID(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, errors.New("patient not found")
	}

	report := &LabReport{
		ID:            primitive.NewObjectID(),
		PatientID:     req.PatientID,
		Title:         req.Title,
		FileURL:       req.FileURL,
		ResultSummary: req.ResultSummary,
		UploadedBy:    uploaderID,
		UploadedAt:    time.Now(),
	}
	if err := s.repo.InsertLabReport(ctx, report); err != nil {
		return nil, err
	}

	s.gateway.SendToUser(ctx, req.PatientID, push.Payload{
		Title: "Lab results ready",
		Body:  "Your " + req.Title + " results are available.",
		Data:  map[string]string{"screen": "lab_reports", "report_id": report.ID.Hex()},
	})
	return report, nil
}

func (s *Service) LabReports(ctx context.Context, patientID string) ([]*LabReport, error) {
	return s.repo.ListLabReports(ctx, patientID)
}
