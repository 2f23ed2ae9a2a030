package reminder

import (
	"context"
	"sort"
	"testing"
	"time"

	"CareBridge/internal/push"

	"go.uber.org/zap"
)

type fakeGateway struct {
	warmUpErr error
}

func (g *fakeGateway) WarmUp() error { return g.warmUpErr }

func (g *fakeGateway) Status() push.Status {
	return push.Status{Ready: g.warmUpErr == nil, Provider: "fake"}
}

type fakeCleaner struct {
	cleared int64
}

func (c *fakeCleaner) CleanupDisabledTokens(ctx context.Context) (int64, error) {
	return c.cleared, nil
}

func newTestRunner(t *testing.T) *CronRunner {
	t.Helper()
	scheduler := NewDailyScheduler(&fakeDirectory{}, newFakeSender(), zap.NewNop().Sugar())
	return NewCronRunner(scheduler, &fakeGateway{}, &fakeCleaner{}, zap.NewNop().Sugar())
}

func jobNames(statuses []JobStatus) []string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.Name
	}
	sort.Strings(names)
	return names
}

func TestInitializeSchedulesAllJobs(t *testing.T) {
	runner := newTestRunner(t)
	defer runner.StopAll()

	if err := runner.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	statuses := runner.Status()
	if len(statuses) != 3 {
		t.Fatalf("jobs = %d, want 3", len(statuses))
	}
	for _, status := range statuses {
		if status.Running {
			t.Errorf("job %s should not be running right after init", status.Name)
		}
		if !status.NextRun.After(time.Now()) {
			t.Errorf("job %s next run %v should be in the future", status.Name, status.NextRun)
		}
	}
}

func TestInitializeMalformedSpecCanBeRetried(t *testing.T) {
	runner := newTestRunner(t)
	runner.dailySpec = "not a cron spec"

	if err := runner.Initialize(); err == nil {
		t.Fatal("expected error for malformed daily schedule")
	}
	if statuses := runner.Status(); len(statuses) != 0 {
		t.Errorf("jobs after failed initialize = %d, want 0", len(statuses))
	}

	// The failed attempt must not latch the runner initialized: a retry with
	// the same bad spec surfaces the error again instead of no-opping.
	if err := runner.Initialize(); err == nil {
		t.Error("retry after failure should surface the error, not no-op")
	}

	runner.dailySpec = "0 8 * * *"
	defer runner.StopAll()
	if err := runner.Initialize(); err != nil {
		t.Fatalf("initialize after correcting the spec failed: %v", err)
	}
	if statuses := runner.Status(); len(statuses) != 3 {
		t.Errorf("jobs = %d, want 3", len(statuses))
	}
}

func TestInitializeTwiceIsNoOp(t *testing.T) {
	runner := newTestRunner(t)
	defer runner.StopAll()

	if err := runner.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	before := jobNames(runner.Status())

	if err := runner.Initialize(); err != nil {
		t.Fatalf("second initialize should be a no-op, got %v", err)
	}
	after := jobNames(runner.Status())

	if len(before) != len(after) {
		t.Errorf("job set changed across duplicate initialize: %v vs %v", before, after)
	}
}

func TestRestartKeepsJobSet(t *testing.T) {
	runner := newTestRunner(t)
	defer runner.StopAll()

	if err := runner.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	before := jobNames(runner.Status())

	if err := runner.Restart(); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	after := runner.Status()

	if got := jobNames(after); len(got) != len(before) {
		t.Fatalf("jobs after restart = %v, want %v", got, before)
	}
	for i, name := range jobNames(after) {
		if name != before[i] {
			t.Errorf("job %d = %s, want %s", i, name, before[i])
		}
	}
	for _, status := range after {
		if !status.NextRun.After(time.Now()) {
			t.Errorf("job %s next run %v should be in the future after restart", status.Name, status.NextRun)
		}
	}
}

func TestStopAllClearsJobs(t *testing.T) {
	runner := newTestRunner(t)

	if err := runner.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	runner.StopAll()

	if statuses := runner.Status(); len(statuses) != 0 {
		t.Errorf("jobs after stop = %d, want 0", len(statuses))
	}
}

func TestTriggerNowReturnsRunResult(t *testing.T) {
	runner := newTestRunner(t)

	result := runner.TriggerNow(context.Background())
	if result.RunID == "" {
		t.Error("trigger result must carry a run id")
	}
	if result.Processed != 0 || result.Success != 0 {
		t.Errorf("result = %+v, want empty run for empty directory", result)
	}
}

func TestRunJobRecoversFromPanic(t *testing.T) {
	runner := newTestRunner(t)
	defer runner.StopAll()
	if err := runner.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	runner.runJob(jobHealthCheck, func(ctx context.Context) error {
		panic("boom")
	})

	for _, status := range runner.Status() {
		if status.Name != jobHealthCheck {
			continue
		}
		if status.Running {
			t.Error("job should not be stuck running after panic")
		}
		if status.LastError == "" {
			t.Error("panic should be recorded as the job's last error")
		}
	}
}
