package cycle

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultCycleLength    = 28
	DefaultPeriodDuration = 5
)

// ReminderFlags selects which cycle phase reminders a user wants.
type ReminderFlags struct {
	NextPeriod    bool `bson:"next_period" json:"next_period"`
	Ovulation     bool `bson:"ovulation" json:"ovulation"`
	FertileWindow bool `bson:"fertile_window" json:"fertile_window"`
}

// CycleRecord is one completed cycle kept in the profile history.
type CycleRecord struct {
	StartDate time.Time  `bson:"start_date" json:"start_date"`
	EndDate   *time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`
	Notes     string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// CycleProfile holds per-user cycle tracking data. LastPeriodStart may be nil
// for users who have not logged a period yet; predictions are unavailable
// until it is set.
type CycleProfile struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID             string             `bson:"user_id" json:"user_id"`
	LastPeriodStart    *time.Time         `bson:"last_period_start,omitempty" json:"last_period_start,omitempty"`
	CycleLengthDays    int                `bson:"cycle_length_days" json:"cycle_length_days"`
	PeriodDurationDays int                `bson:"period_duration_days" json:"period_duration_days"`
	Reminders          ReminderFlags      `bson:"reminders" json:"reminders"`
	History            []CycleRecord      `bson:"history,omitempty" json:"history,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

// NotificationPrefs is the slice of the user document the reminder pipeline
// reads. Users with no device token or with menstrual reminders switched off
// are never dispatch targets.
type NotificationPrefs struct {
	PushEnabled        bool   `bson:"push_enabled" json:"push_enabled"`
	DeviceToken        string `bson:"device_token" json:"-"`
	MenstrualReminders bool   `bson:"menstrual_reminders" json:"menstrual_reminders"`
}

// Eligible returns whether these preferences allow menstrual reminder pushes.
func (p NotificationPrefs) Eligible() bool {
	return p.PushEnabled && p.DeviceToken != "" && p.MenstrualReminders
}

// EligibleUser pairs a cycle profile with the owning user's notification
// preferences, as returned by the directory query the daily run consumes.
type EligibleUser struct {
	UserID  string
	Profile CycleProfile
	Prefs   NotificationPrefs
}
