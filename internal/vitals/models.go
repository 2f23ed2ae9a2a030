package vitals

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entry is one vitals measurement logged by or for a patient. Zero-valued
// readings are treated as not measured.
type Entry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID    string             `bson:"patient_id" json:"patient_id"`
	Systolic     int                `bson:"systolic,omitempty" json:"systolic,omitempty"`
	Diastolic    int                `bson:"diastolic,omitempty" json:"diastolic,omitempty"`
	GlucoseMgDl  float64            `bson:"glucose_mg_dl,omitempty" json:"glucose_mg_dl,omitempty"`
	WeightKg     float64            `bson:"weight_kg,omitempty" json:"weight_kg,omitempty"`
	TemperatureC float64            `bson:"temperature_c,omitempty" json:"temperature_c,omitempty"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	RecordedAt   time.Time          `bson:"recorded_at" json:"recorded_at"`
}

type AddEntryRequest struct {
	Systolic     int     `json:"systolic"`
	Diastolic    int     `json:"diastolic"`
	GlucoseMgDl  float64 `json:"glucose_mg_dl"`
	WeightKg     float64 `json:"weight_kg"`
	TemperatureC float64 `json:"temperature_c"`
	Notes        string  `json:"notes"`
}
