package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aryankumar/rangeminer/internal/partition"
	"github.com/aryankumar/rangeminer/internal/predicate"
)

func TestAggregate_OrderIndependentOfCompletion(t *testing.T) {
	pool := newTestPool(t, 4)

	// Later tasks finish first.
	handles := make([]*Handle, 0, 4)
	for i := 0; i < 4; i++ {
		delay := time.Duration(4-i) * 10 * time.Millisecond
		line := fmt.Sprintf("task-%d\n", i)
		h, err := pool.Submit(RunnerFunc(func(ctx context.Context) (TaskResult, error) {
			time.Sleep(delay)
			return TaskResult{Count: 1, Text: line}, nil
		}))
		if err != nil {
			t.Fatalf("failed to submit task: %v", err)
		}
		handles = append(handles, h)
	}
	pool.Shutdown()
	awaitOrFail(t, pool)

	report := Aggregate(context.Background(), handles, pool.Recorder(), quietLogger())

	want := "task-0\ntask-1\ntask-2\ntask-3\n"
	if report.CombinedText != want {
		t.Errorf("expected %q, got %q", want, report.CombinedText)
	}
	if report.TotalCount != 4 {
		t.Errorf("expected total 4, got %d", report.TotalCount)
	}
	if !report.Complete() {
		t.Error("expected complete report")
	}
	if report.Errors() != nil {
		t.Errorf("expected no errors, got %v", report.Errors())
	}
	for i, o := range report.Tasks {
		if o.ID != handles[i].ID() {
			t.Errorf("outcome %d has id %d, want %d", i, o.ID, handles[i].ID())
		}
		if !o.Timed {
			t.Errorf("outcome %d should be timed", i)
		}
	}
}

func TestAggregate_SkipsFailures(t *testing.T) {
	pool := newTestPool(t, 2)

	var handles []*Handle
	for _, r := range []Runner{
		valueRunner(2, "a\n"),
		RunnerFunc(func(ctx context.Context) (TaskResult, error) { return TaskResult{Count: 99}, errors.New("fail") }),
		RunnerFunc(func(ctx context.Context) (TaskResult, error) { panic("boom") }),
		valueRunner(3, "b\n"),
	} {
		h, err := pool.Submit(r)
		if err != nil {
			t.Fatalf("failed to submit task: %v", err)
		}
		handles = append(handles, h)
	}
	pool.Shutdown()
	awaitOrFail(t, pool)

	report := Aggregate(context.Background(), handles, pool.Recorder(), quietLogger())

	if report.TotalCount != 5 {
		t.Errorf("expected failed contributions to be dropped, total %d", report.TotalCount)
	}
	if report.CombinedText != "a\nb\n" {
		t.Errorf("unexpected text %q", report.CombinedText)
	}

	summary := report.Summary()
	if summary.Successful != 2 || summary.Failed != 2 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if report.Complete() {
		t.Error("report with failures must not be complete")
	}
	if !errors.Is(report.Errors(), ErrTaskPanicked) {
		t.Errorf("expected collected errors to include the panic, got %v", report.Errors())
	}
}

func TestAggregate_DoesNotBlockAfterContextEnds(t *testing.T) {
	ready := newHandle(1, "ready")
	ready.resolve(TaskResult{Count: 2, Text: "x\ny\n"}, nil)
	pending := newHandle(2, "pending")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan Report)
	go func() {
		done <- Aggregate(ctx, []*Handle{ready, pending}, NewRecorder(), quietLogger())
	}()

	select {
	case report := <-done:
		if report.TotalCount != 2 {
			t.Errorf("expected the resolved handle to contribute, got %d", report.TotalCount)
		}
		if !errors.Is(report.Tasks[1].Err, context.Canceled) {
			t.Errorf("expected pending handle to be skipped with context error, got %v", report.Tasks[1].Err)
		}
	case <-time.After(time.Second):
		t.Fatal("Aggregate blocked on an unfinished handle after its context ended")
	}
}

func TestAggregate_StatisticsFolded(t *testing.T) {
	clock := newFakeClock()
	recorder := NewRecorder(WithClock(clock.Now))

	handles := make([]*Handle, 0, 3)
	for i, d := range []time.Duration{100 * time.Millisecond, 300 * time.Millisecond} {
		id := TaskID(i + 1)
		recorder.Start(id)
		clock.Advance(d)
		recorder.End(id)
		h := newHandle(id, "")
		h.resolve(TaskResult{Count: 1}, nil)
		handles = append(handles, h)
	}
	dropped := newHandle(3, "")
	dropped.resolve(TaskResult{}, &TaskError{ID: 3, Err: ErrNotExecuted})
	handles = append(handles, dropped)

	report := Aggregate(context.Background(), handles, recorder, quietLogger())

	if report.MaxTaskDurationMillis != 300 {
		t.Errorf("expected max 300ms, got %d", report.MaxTaskDurationMillis)
	}
	if report.MeanTaskDurationMillis != 200 {
		t.Errorf("expected mean 200ms, got %d", report.MeanTaskDurationMillis)
	}
	if !report.Tasks[2].Dropped() {
		t.Error("expected third task to be reported as dropped")
	}
	if report.Tasks[2].Timed {
		t.Error("a dropped task has no timing")
	}
}

func TestAggregate_Empty(t *testing.T) {
	report := Aggregate(context.Background(), nil, nil, nil)

	if report.TotalCount != 0 || report.CombinedText != "" {
		t.Errorf("expected empty report, got %+v", report)
	}
	if report.MaxTaskDurationMillis != 0 || report.MeanTaskDurationMillis != 0 {
		t.Error("expected zero statistics for an empty run")
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	run := func() Report {
		pool := newTestPool(t, 3)
		ranges, err := partition.Split(1, 20000, 3)
		if err != nil {
			t.Fatalf("split failed: %v", err)
		}
		var handles []*Handle
		for _, r := range ranges {
			h, err := pool.Submit(Task{Range: r, Predicate: predicate.DecimalBinaryPalindrome()})
			if err != nil {
				t.Fatalf("failed to submit task: %v", err)
			}
			handles = append(handles, h)
		}
		pool.Shutdown()
		awaitOrFail(t, pool)
		return Aggregate(context.Background(), handles, pool.Recorder(), quietLogger())
	}

	first := run()
	second := run()

	if first.TotalCount != second.TotalCount {
		t.Errorf("counts differ between runs: %d vs %d", first.TotalCount, second.TotalCount)
	}
	if first.CombinedText != second.CombinedText {
		t.Error("combined text differs between runs")
	}
	// 0 is outside the range; 1, 3, 5, 7, 9, 33, 99, 313, 585, 717, 7447, 9009, 15351 are inside.
	if first.TotalCount != 13 {
		t.Errorf("expected 13 matches in 1..20000, got %d", first.TotalCount)
	}
	if !strings.HasPrefix(first.CombinedText, "\t1\tbinary: 1\n") {
		t.Errorf("unexpected text start %q", first.CombinedText[:20])
	}
}
