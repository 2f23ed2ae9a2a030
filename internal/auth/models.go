package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles understood by the RBAC policy.
const (
	RolePatient  = "patient"
	RoleDoctor   = "doctor"
	RoleNurse    = "nurse"
	RolePharmacy = "pharmacy"
	RoleAdmin    = "admin"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	Phone        string             `bson:"phone,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	Specialty    string             `bson:"specialty,omitempty"` // Doctors only

	// Push notification preferences, read by the reminder pipeline.
	PushEnabled        bool   `bson:"push_enabled"`
	DeviceToken        string `bson:"device_token"`
	MenstrualReminders bool   `bson:"menstrual_reminders"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Specialty string `json:"specialty"`
}

type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type DeviceTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"` // "ios" or "android"
}

type NotificationPrefsRequest struct {
	PushEnabled        bool `json:"push_enabled"`
	MenstrualReminders bool `json:"menstrual_reminders"`
}

// ProfileResponse omits credentials and the raw device token.
type ProfileResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone,omitempty"`
	Role               string `json:"role"`
	Specialty          string `json:"specialty,omitempty"`
	PushEnabled        bool   `json:"push_enabled"`
	DeviceRegistered   bool   `json:"device_registered"`
	MenstrualReminders bool   `json:"menstrual_reminders"`
}
