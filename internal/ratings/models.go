package ratings

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Rating struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DoctorID  string             `bson:"doctor_id" json:"doctor_id"`
	PatientID string             `bson:"patient_id" json:"patient_id"`
	Score     int                `bson:"score" json:"score"` // 1..5
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type RateRequest struct {
	DoctorID string `json:"doctor_id"`
	Score    int    `json:"score"`
	Comment  string `json:"comment"`
}

// Summary aggregates a doctor's ratings.
type Summary struct {
	DoctorID string  `json:"doctor_id"`
	Count    int     `json:"count"`
	Average  float64 `json:"average"`
	Median   float64 `json:"median"`
}
