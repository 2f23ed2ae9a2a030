package cycle

import (
	"testing"
	"time"
)

func eligiblePrefs() NotificationPrefs {
	return NotificationPrefs{PushEnabled: true, DeviceToken: "tok-1", MenstrualReminders: true}
}

func profileWith(last time.Time, length int, flags ReminderFlags) CycleProfile {
	return CycleProfile{
		UserID:             "u1",
		LastPeriodStart:    &last,
		CycleLengthDays:    length,
		PeriodDurationDays: DefaultPeriodDuration,
		Reminders:          flags,
	}
}

func kinds(events []ReminderEvent) map[EventKind]int {
	counts := make(map[EventKind]int)
	for _, e := range events {
		counts[e.Kind]++
	}
	return counts
}

func TestEvaluateNextPeriodDue(t *testing.T) {
	profile := profileWith(date(2024, time.January, 1), 28, ReminderFlags{NextPeriod: true})
	events := Evaluate(profile, eligiblePrefs(), date(2024, time.January, 29))
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Kind != KindNextPeriod {
		t.Errorf("kind = %q, want %q", events[0].Kind, KindNextPeriod)
	}
	if events[0].Data["screen"] == "" {
		t.Error("event data must carry a screen routing hint")
	}
	if events[0].UserID != "u1" {
		t.Errorf("user id = %q, want u1", events[0].UserID)
	}
}

func TestEvaluateOvulationDue(t *testing.T) {
	profile := profileWith(date(2024, time.January, 1), 28, ReminderFlags{Ovulation: true})
	events := Evaluate(profile, eligiblePrefs(), date(2024, time.January, 15))
	if len(events) != 1 || events[0].Kind != KindOvulation {
		t.Fatalf("expected exactly one ovulation event, got %v", kinds(events))
	}
}

func TestEvaluateFertileWindowFiresOnlyOnStartDay(t *testing.T) {
	profile := profileWith(date(2024, time.January, 1), 28, ReminderFlags{FertileWindow: true})

	events := Evaluate(profile, eligiblePrefs(), date(2024, time.January, 13))
	if len(events) != 1 || events[0].Kind != KindFertileWindow {
		t.Fatalf("expected a fertile window event on the start day, got %v", kinds(events))
	}

	// Mid-window days stay silent.
	for d := 14; d <= 17; d++ {
		if got := Evaluate(profile, eligiblePrefs(), date(2024, time.January, d)); len(got) != 0 {
			t.Errorf("day %d: events = %d, want 0", d, len(got))
		}
	}
}

func TestEvaluateNoDeviceToken(t *testing.T) {
	profile := profileWith(date(2024, time.January, 1), 28, ReminderFlags{NextPeriod: true, Ovulation: true, FertileWindow: true})
	prefs := eligiblePrefs()
	prefs.DeviceToken = ""
	if got := Evaluate(profile, prefs, date(2024, time.January, 29)); len(got) != 0 {
		t.Errorf("events = %d, want 0 when no device token", len(got))
	}
}

func TestEvaluateRemindersDisabled(t *testing.T) {
	profile := profileWith(date(2024, time.January, 1), 28, ReminderFlags{NextPeriod: true})
	prefs := eligiblePrefs()
	prefs.MenstrualReminders = false
	if got := Evaluate(profile, prefs, date(2024, time.January, 29)); len(got) != 0 {
		t.Errorf("events = %d, want 0 when menstrual reminders disabled", len(got))
	}
}

func TestEvaluateNoLastPeriod(t *testing.T) {
	profile := profileWith(time.Time{}, 28, ReminderFlags{NextPeriod: true})
	profile.LastPeriodStart = nil
	if got := Evaluate(profile, eligiblePrefs(), date(2024, time.January, 29)); len(got) != 0 {
		t.Errorf("events = %d, want 0 without a logged period", len(got))
	}
}

func TestEvaluateDisabledFlagsStaySilent(t *testing.T) {
	profile := profileWith(date(2024, time.January, 1), 28, ReminderFlags{})
	if got := Evaluate(profile, eligiblePrefs(), date(2024, time.January, 29)); len(got) != 0 {
		t.Errorf("events = %d, want 0 with all flags off", len(got))
	}
}

// A sixteen-day cycle puts ovulation on day 2 and the fertile window start on
// day 0, the same day as the logged period start plus zero. Coinciding
// predictions each emit their own event.
func TestEvaluateCoincidingKinds(t *testing.T) {
	last := date(2024, time.February, 1)
	profile := profileWith(last, 16, ReminderFlags{NextPeriod: true, Ovulation: true, FertileWindow: true})

	// Ovulation lands on Feb 3 (16-14 = 2 days after start).
	events := Evaluate(profile, eligiblePrefs(), date(2024, time.February, 3))
	counts := kinds(events)
	if counts[KindOvulation] != 1 {
		t.Errorf("ovulation events = %d, want 1", counts[KindOvulation])
	}
	if counts[KindNextPeriod] != 0 {
		t.Errorf("next period events = %d, want 0", counts[KindNextPeriod])
	}

	// Fertile window starts Feb 1, the same day as the period itself.
	events = Evaluate(profile, eligiblePrefs(), date(2024, time.February, 1))
	if kinds(events)[KindFertileWindow] != 1 {
		t.Errorf("fertile window events = %d, want 1 on the start day", kinds(events)[KindFertileWindow])
	}
}
