package cycle

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Repository handles DB operations for cycle profiles. Eligibility queries
// join against the users collection, which owns notification preferences.
type Repository struct {
	profiles *mongo.Collection
	users    *mongo.Collection
	logger   *zap.SugaredLogger
}

func NewRepository(db *mongo.Database, logger *zap.SugaredLogger) *Repository {
	return &Repository{
		profiles: db.Collection("cycle_profiles"),
		users:    db.Collection("users"),
		logger:   logger,
	}
}

// FindByUserID returns the user's cycle profile, or nil when none exists yet.
func (r *Repository) FindByUserID(ctx context.Context, userID string) (*CycleProfile, error) {
	var profile CycleProfile
	err := r.profiles.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// LogPeriodStart records a new period start. The previous cycle, if any, is
// closed out into history with the day before the new start as its end date.
func (r *Repository) LogPeriodStart(ctx context.Context, userID string, start time.Time, notes string) error {
	start = DateOnly(start)
	now := time.Now()

	existing, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if existing == nil {
		profile := CycleProfile{
			ID:                 primitive.NewObjectID(),
			UserID:             userID,
			LastPeriodStart:    &start,
			CycleLengthDays:    DefaultCycleLength,
			PeriodDurationDays: DefaultPeriodDuration,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		_, err := r.profiles.InsertOne(ctx, profile)
		return err
	}

	update := bson.M{
		"$set": bson.M{"last_period_start": start, "updated_at": now},
	}
	if existing.LastPeriodStart != nil {
		end := start.AddDate(0, 0, -1)
		record := CycleRecord{StartDate: *existing.LastPeriodStart, EndDate: &end, Notes: notes}
		update["$push"] = bson.M{"history": record}
	}

	res, err := r.profiles.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("cycle profile not found")
	}
	return nil
}

// UpdateSettings changes cycle length and period duration.
func (r *Repository) UpdateSettings(ctx context.Context, userID string, cycleLength, periodDuration int) error {
	res, err := r.profiles.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{
			"cycle_length_days":    cycleLength,
			"period_duration_days": periodDuration,
			"updated_at":           time.Now(),
		}},
		options.Update().SetUpsert(true))
	if err != nil {
		return err
	}
	if res.UpsertedCount > 0 {
		r.logger.Infow("Created cycle profile from settings update", "user_id", userID)
	}
	return nil
}

// SetReminderFlags replaces the user's reminder selection.
func (r *Repository) SetReminderFlags(ctx context.Context, userID string, flags ReminderFlags) error {
	_, err := r.profiles.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"reminders": flags, "updated_at": time.Now()}},
		options.Update().SetUpsert(true))
	return err
}

// eligibleUserDoc is the projection of a user document the reminder run needs.
type eligibleUserDoc struct {
	ID                 primitive.ObjectID `bson:"_id"`
	PushEnabled        bool               `bson:"push_enabled"`
	DeviceToken        string             `bson:"device_token"`
	MenstrualReminders bool               `bson:"menstrual_reminders"`
}

// FindEligibleUsers returns all users that are valid reminder targets along
// with their cycle profiles. Users without a cycle profile are skipped.
func (r *Repository) FindEligibleUsers(ctx context.Context) ([]EligibleUser, error) {
	filter := bson.M{
		"push_enabled":        true,
		"menstrual_reminders": true,
		"device_token":        bson.M{"$ne": ""},
	}
	cursor, err := r.users.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var docs []eligibleUserDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(docs))
	prefsByID := make(map[string]NotificationPrefs, len(docs))
	for _, doc := range docs {
		id := doc.ID.Hex()
		ids = append(ids, id)
		prefsByID[id] = NotificationPrefs{
			PushEnabled:        doc.PushEnabled,
			DeviceToken:        doc.DeviceToken,
			MenstrualReminders: doc.MenstrualReminders,
		}
	}

	profCursor, err := r.profiles.Find(ctx, bson.M{"user_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var profiles []CycleProfile
	if err := profCursor.All(ctx, &profiles); err != nil {
		return nil, err
	}

	eligible := make([]EligibleUser, 0, len(profiles))
	for _, profile := range profiles {
		prefs, ok := prefsByID[profile.UserID]
		if !ok {
			continue
		}
		eligible = append(eligible, EligibleUser{UserID: profile.UserID, Profile: profile, Prefs: prefs})
	}
	return eligible, nil
}

// CleanupDisabledTokens clears stored device tokens for users who turned push
// off, so the daily run never resolves them again. Returns how many were
// cleared.
func (r *Repository) CleanupDisabledTokens(ctx context.Context) (int64, error) {
	res, err := r.users.UpdateMany(ctx,
		bson.M{"push_enabled": false, "device_token": bson.M{"$ne": ""}},
		bson.M{"$set": bson.M{"device_token": ""}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
