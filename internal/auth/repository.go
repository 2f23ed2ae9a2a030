package auth

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type UserRepository struct {
	collection *mongo.Collection
	logger     *zap.SugaredLogger
}

func NewUserRepository(db *mongo.Database, logger *zap.SugaredLogger) *UserRepository {
	return &UserRepository{collection: db.Collection("users"), logger: logger}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user id")
	}
	var user User
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *User) error {
	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New("Email already registered")
		}
		return err
	}
	return nil
}

// UpdateDeviceToken stores a fresh device token for the user. An empty token
// unregisters the device.
func (r *UserRepository) UpdateDeviceToken(ctx context.Context, userID, token string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return errors.New("invalid user id")
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"device_token": token, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("user not found")
	}
	return nil
}

// UpdateNotificationPrefs switches push and menstrual reminders on or off.
func (r *UserRepository) UpdateNotificationPrefs(ctx context.Context, userID string, pushEnabled, menstrualReminders bool) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return errors.New("invalid user id")
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"push_enabled":        pushEnabled,
			"menstrual_reminders": menstrualReminders,
			"updated_at":          time.Now(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("user not found")
	}
	return nil
}

// DeviceTokenFor resolves the user's stored device token. Returns an empty
// string when no device is registered or push is disabled.
func (r *UserRepository) DeviceTokenFor(ctx context.Context, userID string) (string, error) {
	user, err := r.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil || !user.PushEnabled {
		return "", nil
	}
	return user.DeviceToken, nil
}

// ClearDeviceToken removes a stale token. The token value is part of the
// filter so a token the user re-registered in the meantime is left alone.
func (r *UserRepository) ClearDeviceToken(ctx context.Context, userID, token string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return errors.New("invalid user id")
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "device_token": token},
		bson.M{"$set": bson.M{"device_token": "", "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.ModifiedCount > 0 {
		r.logger.Infow("Cleared stale device token", "user_id", userID)
	}
	return nil
}
