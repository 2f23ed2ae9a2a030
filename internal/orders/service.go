package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CareBridge/internal/auth"
	"CareBridge/internal/config"
	"CareBridge/internal/push"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Service struct {
	repo         *Repository
	userRepo     *auth.UserRepository
	emailService *config.EmailService
	gateway      *push.Gateway
	logger       *zap.SugaredLogger
}

func NewService(repo *Repository, userRepo *auth.UserRepository, emailService *config.EmailService, gateway *push.Gateway, logger *zap.SugaredLogger) *Service {
	return &Service{repo: repo, userRepo: userRepo, emailService: emailService, gateway: gateway, logger: logger}
}

func validStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s *Service) CreateOrder(ctx context.Context, patientID string, req CreateOrderRequest) (*Order, error) {
	if req.PharmacyID == "" {
		return nil, errors.New("pharmacy_id is required")
	}
	if len(req.Items) == 0 {
		return nil, errors.New("order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.Name == "" || item.Quantity <= 0 {
			return nil, errors.New("each item needs a name and a positive quantity")
		}
	}

	pharmacy, err := s.userRepo.FindByID(ctx, req.PharmacyID)
	if err != nil {
		return nil, err
	}
	if pharmacy == nil || pharmacy.Role != auth.RolePharmacy {
		return nil, errors.New("pharmacy not found")
	}

	now := time.Now()
	order := &Order{
		ID:         primitive.NewObjectID(),
		PatientID:  patientID,
		PharmacyID: req.PharmacyID,
		Items:      req.Items,
		Status:     StatusPending,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID string) ([]*Order, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) ListForPharmacy(ctx context.Context, pharmacyID string) ([]*Order, error) {
	return s.repo.ListByPharmacy(ctx, pharmacyID)
}

// UpdateStatus moves an order through the workflow and notifies the patient
// by email and push. Notification failures do not roll back the update.
func (s *Service) UpdateStatus(ctx context.Context, pharmacyID, orderID, status string) error {
	if !validStatus(status) {
		return errors.New("unknown status")
	}
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return errors.New("invalid order id")
	}
	order, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return err
	}
	if order == nil {
		return errors.New("order not found")
	}
	if order.PharmacyID != pharmacyID {
		return errors.New("order belongs to another pharmacy")
	}

	if err := s.repo.UpdateStatus(ctx, oid, status); err != nil {
		return err
	}
	s.notifyPatient(ctx, order, status)
	return nil
}

func (s *Service) notifyPatient(ctx context.Context, order *Order, status string) {
	patient, err := s.userRepo.FindByID(ctx, order.PatientID)
	if err != nil || patient == nil {
		s.logger.Warnw("Could not load patient for order notification", "order_id", order.ID.Hex())
		return
	}

	subject := fmt.Sprintf("Your order is %s", status)
	body := fmt.Sprintf("<p>Hi %s, your medicine order is now <b>%s</b>.</p>", patient.Name, status)
	if err := s.emailService.SendEmail(patient.Email, subject, body); err != nil {
		s.logger.Warnw("Order email failed", "order_id", order.ID.Hex(), "error", err)
	}

	s.gateway.SendToUser(ctx, order.PatientID, push.Payload{
		Title: "Order update",
		Body:  fmt.Sprintf("Your medicine order is now %s.", status),
		Data:  map[string]string{"screen": "orders", "order_id": order.ID.Hex()},
	})
}
