package cycle

import (
	"fmt"
	"time"
)

// EventKind identifies the cycle phase a reminder is about.
type EventKind string

const (
	KindNextPeriod    EventKind = "next_period"
	KindOvulation     EventKind = "ovulation"
	KindFertileWindow EventKind = "fertile_window"
)

// ReminderEvent is a due reminder computed for one user on one day. Events are
// never persisted; they exist only for the duration of a scheduler run.
type ReminderEvent struct {
	Kind   EventKind
	UserID string
	Title  string
	Body   string
	Data   map[string]string
}

func newEvent(kind EventKind, userID, title, body string) ReminderEvent {
	return ReminderEvent{
		Kind:   kind,
		UserID: userID,
		Title:  title,
		Body:   body,
		Data: map[string]string{
			"screen": "cycle",
			"kind":   string(kind),
		},
	}
}

// Evaluate determines which reminders are due for this user today. It returns
// an empty slice when the user is not a dispatch target or has no logged
// period. Multiple kinds can fire on the same day when predicted dates
// coincide; they are distinct events and are not deduplicated.
func Evaluate(profile CycleProfile, prefs NotificationPrefs, today time.Time) []ReminderEvent {
	if !prefs.Eligible() {
		return nil
	}
	if profile.LastPeriodStart == nil {
		return nil
	}

	var events []ReminderEvent

	if profile.Reminders.NextPeriod {
		if next, ok := NextPeriod(profile.LastPeriodStart, profile.CycleLengthDays); ok && SameDay(today, next) {
			events = append(events, newEvent(KindNextPeriod, profile.UserID,
				"Period reminder",
				"Your period is predicted to start today."))
		}
	}

	if profile.Reminders.Ovulation {
		if ov, ok := Ovulation(profile.LastPeriodStart, profile.CycleLengthDays); ok && SameDay(today, ov) {
			events = append(events, newEvent(KindOvulation, profile.UserID,
				"Ovulation day",
				"Today is your predicted ovulation day."))
		}
	}

	if profile.Reminders.FertileWindow {
		// Fires only on the window's first day, not every day of the window.
		if win, ok := PredictFertileWindow(profile.LastPeriodStart, profile.CycleLengthDays); ok && SameDay(today, win.Start) {
			events = append(events, newEvent(KindFertileWindow, profile.UserID,
				"Fertile window",
				fmt.Sprintf("Your fertile window starts today and spans %d days.", fertileSpanTotal)))
		}
	}

	return events
}
