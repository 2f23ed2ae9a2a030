package vitals

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection("vitals")}
}

func (r *Repository) Insert(ctx context.Context, entry *Entry) error {
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *Repository) ListByPatient(ctx context.Context, patientID string) ([]*Entry, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"patient_id": patientID},
		options.Find().SetSort(bson.M{"recorded_at": -1}))
	if err != nil {
		return nil, err
	}
	var entries []*Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Repository) Latest(ctx context.Context, patientID string) (*Entry, error) {
	var entry Entry
	err := r.collection.FindOne(ctx,
		bson.M{"patient_id": patientID},
		options.FindOne().SetSort(bson.M{"recorded_at": -1})).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}
