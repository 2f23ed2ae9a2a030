package care

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment links a doctor or nurse to a patient they look after.
type Assignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID  string             `bson:"patient_id" json:"patient_id"`
	StaffID    string             `bson:"staff_id" json:"staff_id"`
	StaffRole  string             `bson:"staff_role" json:"staff_role"` // doctor or nurse
	Active     bool               `bson:"active" json:"active"`
	AssignedAt time.Time          `bson:"assigned_at" json:"assigned_at"`
}

type AssignRequest struct {
	PatientID string `json:"patient_id"`
	StaffID   string `json:"staff_id"`
}

// LabReport is metadata for an uploaded lab result document.
type LabReport struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID     string             `bson:"patient_id" json:"patient_id"`
	Title         string             `bson:"title" json:"title"`
	FileURL       string             `bson:"file_url" json:"file_url"`
	ResultSummary string             `bson:"result_summary,omitempty" json:"result_summary,omitempty"`
	UploadedBy    string             `bson:"uploaded_by" json:"uploaded_by"`
	UploadedAt    time.Time          `bson:"uploaded_at" json:"uploaded_at"`
}

type AddLabReportRequest struct {
	PatientID     string `json:"patient_id"`
	Title         string `json:"title"`
	FileURL       string `json:"file_url"`
	ResultSummary string `json:"result_summary"`
}
