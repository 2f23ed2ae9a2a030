package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"CareBridge/internal/config"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserService struct {
	repo         *UserRepository
	emailService *config.EmailService
	logger       *zap.SugaredLogger
}

func NewUserService(repo *UserRepository, emailService *config.EmailService, logger *zap.SugaredLogger) *UserService {
	return &UserService{repo: repo, emailService: emailService, logger: logger}
}

func validRole(role string) bool {
	switch role {
	case RolePatient, RoleDoctor, RoleNurse, RolePharmacy, RoleAdmin:
		return true
	}
	return false
}

func (s *UserService) RegisterUser(ctx context.Context, req RegisterRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return errors.New("a valid email is required")
	}
	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if req.Role == "" {
		req.Role = RolePatient
	}
	if !validRole(req.Role) {
		return errors.New("unknown role")
	}
	if req.Role == RoleDoctor && req.Specialty == "" {
		return errors.New("specialty is required for doctors")
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New("Email already registered")
	}

	hashPassword, err := HashPassword(req.Password)
	if err != nil {
		return err
	}

	now := time.Now()
	user := &User{
		ID:           primitive.NewObjectID(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hashPassword,
		Role:         req.Role,
		Specialty:    req.Specialty,
		PushEnabled:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return err
	}

	// Welcome email is best effort; registration succeeds without it.
	if err := s.emailService.SendEmail(user.Email, "Welcome to CareBridge",
		"<p>Hi "+user.Name+", your CareBridge account is ready.</p>"); err != nil {
		s.logger.Warnw("Failed to send welcome email", "email", user.Email, "error", err)
	}
	return nil
}

func (s *UserService) AuthenticateUser(ctx context.Context, cred Credential) (string, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(cred.Email)))
	if err != nil {
		return "", err
	}
	if user == nil || !CheckPasswordHash(cred.Password, user.PasswordHash) {
		return "", errors.New("invalid credentials")
	}
	return GenerateJWT(user.ID.Hex(), user.Name, user.Email, user.Role, 24*time.Hour)
}

func (s *UserService) Profile(ctx context.Context, userID string) (*ProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return &ProfileResponse{
		ID:                 user.ID.Hex(),
		Name:               user.Name,
		Email:              user.Email,
		Phone:              user.Phone,
		Role:               user.Role,
		Specialty:          user.Specialty,
		PushEnabled:        user.PushEnabled,
		DeviceRegistered:   user.DeviceToken != "",
		MenstrualReminders: user.MenstrualReminders,
	}, nil
}

func (s *UserService) RegisterDevice(ctx context.Context, userID string, req DeviceTokenRequest) error {
	if req.Token == "" {
		return errors.New("token is required")
	}
	if req.Platform != "ios" && req.Platform != "android" {
		return errors.New("platform must be ios or android")
	}
	return s.repo.UpdateDeviceToken(ctx, userID, req.Token)
}

func (s *UserService) UnregisterDevice(ctx context.Context, userID string) error {
	return s.repo.UpdateDeviceToken(ctx, userID, "")
}

func (s *UserService) UpdateNotificationPrefs(ctx context.Context, userID string, req NotificationPrefsRequest) error {
	return s.repo.UpdateNotificationPrefs(ctx, userID, req.PushEnabled, req.MenstrualReminders)
}
