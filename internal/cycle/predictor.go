package cycle

import "time"

// Pure date arithmetic for cycle phase predictions. All functions truncate to
// calendar days and report ok=false when no prediction can be made (missing
// last period date or a non-positive cycle length).

const (
	lutealPhaseDays  = 14
	fertileSpanDays  = 2
	fertileSpanTotal = 2*fertileSpanDays + 1
)

// DateOnly strips the time of day, keeping the location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay compares two instants at calendar-day granularity.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// NextPeriod predicts the start of the next period.
func NextPeriod(lastStart *time.Time, cycleLength int) (time.Time, bool) {
	if lastStart == nil || cycleLength <= 0 {
		return time.Time{}, false
	}
	return DateOnly(*lastStart).AddDate(0, 0, cycleLength), true
}

// Ovulation predicts the ovulation day, fourteen days before the next period.
// Cycle lengths under fourteen days yield a date before lastStart; callers
// must tolerate that rather than expect a clamped value.
func Ovulation(lastStart *time.Time, cycleLength int) (time.Time, bool) {
	if lastStart == nil || cycleLength <= 0 {
		return time.Time{}, false
	}
	return DateOnly(*lastStart).AddDate(0, 0, cycleLength-lutealPhaseDays), true
}

// FertileWindow is the five-day span of elevated conception probability
// centered on the predicted ovulation day.
type FertileWindow struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Ovulation time.Time `json:"ovulation"`
}

// PredictFertileWindow computes the fertile window around ovulation.
func PredictFertileWindow(lastStart *time.Time, cycleLength int) (FertileWindow, bool) {
	ov, ok := Ovulation(lastStart, cycleLength)
	if !ok {
		return FertileWindow{}, false
	}
	return FertileWindow{
		Start:     ov.AddDate(0, 0, -fertileSpanDays),
		End:       ov.AddDate(0, 0, fertileSpanDays),
		Ovulation: ov,
	}, true
}
