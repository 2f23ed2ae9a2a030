package ratings

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection("ratings")}
}

// Upsert keeps one rating per patient per doctor; re-rating replaces it.
func (r *Repository) Upsert(ctx context.Context, rating *Rating) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"doctor_id": rating.DoctorID, "patient_id": rating.PatientID},
		bson.M{"$set": bson.M{
			"score":      rating.Score,
			"comment":    rating.Comment,
			"created_at": time.Now(),
		}},
		options.Update().SetUpsert(true))
	return err
}

func (r *Repository) ListByDoctor(ctx context.Context, doctorID string) ([]*Rating, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"doctor_id": doctorID})
	if err != nil {
		return nil, err
	}
	var list []*Rating
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
