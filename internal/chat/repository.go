package chat

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
	return &Repository{collection: db.Collection("messages")}
}

func (r *Repository) Insert(ctx context.Context, msg *Message) error {
	_, err := r.collection.InsertOne(ctx, msg)
	return err
}

// Conversation returns all messages between two users, oldest first.
func (r *Repository) Conversation(ctx context.Context, userA, userB string) ([]*Message, error) {
	filter := bson.M{"$or": []bson.M{
		{"sender_id": userA, "recipient_id": userB},
		{"sender_id": userB, "recipient_id": userA},
	}}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"sent_at": 1}))
	if err != nil {
		return nil, err
	}
	var messages []*Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead flags every unread message the peer sent to the reader.
func (r *Repository) MarkRead(ctx context.Context, readerID, peerID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"sender_id": peerID, "recipient_id": readerID, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	return err
}
