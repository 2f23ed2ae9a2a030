package care

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository struct {
	assignments *mongo.Collection
	labReports  *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		assignments: db.Collection("assignments"),
		labReports:  db.Collection("lab_reports"),
	}
}

// CreateAssignment deactivates any previous assignment of the same staff role
// for the patient, then inserts the new one.
func (r *Repository) CreateAssignment(ctx context.Context, assignment *Assignment) error {
	_, err := r.assignments.UpdateMany(ctx,
		bson.M{"patient_id": assignment.PatientID, "staff_role": assignment.StaffRole, "active": true},
		bson.M{"$set": bson.M{"active": false}})
	if err != nil {
		return err
	}
	_, err = r.assignments.InsertOne(ctx, assignment)
	return err
}

func (r *Repository) ListAssignmentsForPatient(ctx context.Context, patientID string) ([]*Assignment, error) {
	cursor, err := r.assignments.Find(ctx, bson.M{"patient_id": patientID, "active": true})
	if err != nil {
		return nil, err
	}
	var list []*Assignment
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) ListAssignmentsForStaff(ctx context.Context, staffID string) ([]*Assignment, error) {
	cursor, err := r.assignments.Find(ctx, bson.M{"staff_id": staffID, "active": true})
	if err != nil {
		return nil, err
	}
	var list []*Assignment
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) InsertLabReport(ctx context.Context, report *LabReport) error {
	_, err := r.labReports.InsertOne(ctx, report)
	return err
}

func (r *Repository) ListLabReports(ctx context.Context, patientID string) ([]*LabReport, error) {
	cursor, err := r.labReports.Find(ctx,
		bson.M{"patient_id": patientID},
		options.Find().SetSort(bson.M{"uploaded_at": -1}))
	if err != nil {
		return nil, err
	}
	var list []*LabReport
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
