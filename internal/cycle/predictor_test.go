package cycle

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextPeriod(t *testing.T) {
	last := date(2024, time.January, 1)
	got, ok := NextPeriod(&last, 28)
	if !ok {
		t.Fatal("expected a prediction")
	}
	if want := date(2024, time.January, 29); !got.Equal(want) {
		t.Errorf("next period = %v, want %v", got, want)
	}
}

func TestNextPeriodStripsTimeOfDay(t *testing.T) {
	last := time.Date(2024, time.January, 1, 17, 45, 12, 0, time.UTC)
	got, ok := NextPeriod(&last, 28)
	if !ok {
		t.Fatal("expected a prediction")
	}
	if want := date(2024, time.January, 29); !got.Equal(want) {
		t.Errorf("next period = %v, want %v", got, want)
	}
}

func TestOvulation(t *testing.T) {
	last := date(2024, time.January, 1)
	got, ok := Ovulation(&last, 28)
	if !ok {
		t.Fatal("expected a prediction")
	}
	if want := date(2024, time.January, 15); !got.Equal(want) {
		t.Errorf("ovulation = %v, want %v", got, want)
	}
}

// Cycle lengths under fourteen days produce an ovulation date before the last
// period start. That is the documented behavior, not a bug to correct.
func TestOvulationShortCycleUnderflows(t *testing.T) {
	last := date(2024, time.January, 10)
	got, ok := Ovulation(&last, 10)
	if !ok {
		t.Fatal("expected a prediction")
	}
	if want := date(2024, time.January, 6); !got.Equal(want) {
		t.Errorf("ovulation = %v, want %v", got, want)
	}
	if !got.Before(last) {
		t.Error("expected the short-cycle ovulation date to precede lastStart")
	}
}

func TestPredictFertileWindow(t *testing.T) {
	last := date(2024, time.January, 1)
	win, ok := PredictFertileWindow(&last, 28)
	if !ok {
		t.Fatal("expected a prediction")
	}
	if want := date(2024, time.January, 13); !win.Start.Equal(want) {
		t.Errorf("window start = %v, want %v", win.Start, want)
	}
	if want := date(2024, time.January, 17); !win.End.Equal(want) {
		t.Errorf("window end = %v, want %v", win.End, want)
	}
	if !win.Start.Equal(win.Ovulation.AddDate(0, 0, -2)) || !win.End.Equal(win.Ovulation.AddDate(0, 0, 2)) {
		t.Error("window must span ovulation-2 to ovulation+2")
	}
}

func TestPredictionsRequireLastStart(t *testing.T) {
	if _, ok := NextPeriod(nil, 28); ok {
		t.Error("NextPeriod without lastStart should not predict")
	}
	if _, ok := Ovulation(nil, 28); ok {
		t.Error("Ovulation without lastStart should not predict")
	}
	if _, ok := PredictFertileWindow(nil, 28); ok {
		t.Error("PredictFertileWindow without lastStart should not predict")
	}
}

func TestPredictionsRequirePositiveCycleLength(t *testing.T) {
	last := date(2024, time.January, 1)
	for _, length := range []int{0, -5} {
		if _, ok := NextPeriod(&last, length); ok {
			t.Errorf("NextPeriod with cycle length %d should not predict", length)
		}
		if _, ok := Ovulation(&last, length); ok {
			t.Errorf("Ovulation with cycle length %d should not predict", length)
		}
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, time.March, 5, 0, 1, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Error("expected same calendar day")
	}
	if SameDay(a, b.AddDate(0, 0, 1)) {
		t.Error("expected different calendar days")
	}
}
