package orders

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses follow the pharmacy workflow.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

type OrderItem struct {
	Name     string `bson:"name" json:"name"`
	Dosage   string `bson:"dosage,omitempty" json:"dosage,omitempty"`
	Quantity int    `bson:"quantity" json:"quantity"`
}

type Order struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID  string             `bson:"patient_id" json:"patient_id"`
	PharmacyID string             `bson:"pharmacy_id" json:"pharmacy_id"`
	Items      []OrderItem        `bson:"items" json:"items"`
	Status     string             `bson:"status" json:"status"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

type CreateOrderRequest struct {
	PharmacyID string      `json:"pharmacy_id"`
	Items      []OrderItem `json:"items"`
	Notes      string      `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
