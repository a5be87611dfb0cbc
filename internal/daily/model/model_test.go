package model

import (
	"testing"
	"time"
)

var testStart = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestState(positions int) SessionState {
	return NewInitialState("sess-1", "user-1", 42, 7, positions, 300, testStart)
}

func TestNewInitialState(t *testing.T) {
	state := newTestState(5)

	if state.CurrentPosition != 1 {
		t.Errorf("expected current position 1, got %d", state.CurrentPosition)
	}
	if state.PositionCount() != 5 {
		t.Errorf("expected 5 positions, got %d", state.PositionCount())
	}
	for i := 1; i <= 5; i++ {
		if state.StatusAt(i) != PositionNotVisited {
			t.Errorf("position %d: expected not_visited, got %s", i, state.StatusAt(i))
		}
	}
	if state.Completed {
		t.Error("new state must not be completed")
	}
}

func TestMarkSkipped_DoesNotRevertCorrect(t *testing.T) {
	state := newTestState(3)
	state = state.MarkCorrect(2, 100)

	state = state.MarkSkipped(2)
	if state.StatusAt(2) != PositionCorrect {
		t.Errorf("correct must be final, got %s", state.StatusAt(2))
	}
}

func TestMarkSkipped_OutOfRangeIgnored(t *testing.T) {
	state := newTestState(3)
	state = state.MarkSkipped(0)
	state = state.MarkSkipped(4)

	for i := 1; i <= 3; i++ {
		if state.StatusAt(i) != PositionNotVisited {
			t.Errorf("position %d: expected not_visited, got %s", i, state.StatusAt(i))
		}
	}
}

func TestMarkCorrect_AddsScore(t *testing.T) {
	state := newTestState(3)
	state = state.MarkCorrect(1, 990)

	if state.StatusAt(1) != PositionCorrect {
		t.Errorf("expected correct, got %s", state.StatusAt(1))
	}
	if state.TotalScore != 990 {
		t.Errorf("expected score 990, got %d", state.TotalScore)
	}
}

func TestApplyPenalty_FloorsAtZero(t *testing.T) {
	state := newTestState(3)
	state = state.MarkCorrect(1, 50)

	state = state.ApplyPenalty(100)
	if state.TotalScore != 0 {
		t.Errorf("score must not go below zero, got %d", state.TotalScore)
	}
	if state.WrongGuesses != 1 {
		t.Errorf("expected 1 wrong guess, got %d", state.WrongGuesses)
	}

	state = state.ApplyPenalty(100)
	if state.WrongGuesses != 2 {
		t.Errorf("expected 2 wrong guesses, got %d", state.WrongGuesses)
	}
}

func TestImmutability(t *testing.T) {
	original := newTestState(3)
	_ = original.MarkCorrect(1, 100)
	_ = original.MarkSkipped(2)
	_ = original.ApplyPenalty(10)
	_ = original.MoveTo(3)

	if original.TotalScore != 0 || original.WrongGuesses != 0 || original.CurrentPosition != 1 {
		t.Error("methods must not mutate the receiver")
	}
	if original.StatusAt(1) != PositionNotVisited || original.StatusAt(2) != PositionNotVisited {
		t.Error("position statuses must not change on the receiver")
	}
}

func TestNextOpenPosition_PrefersForwardNotVisited(t *testing.T) {
	state := newTestState(4)
	state = state.MarkSkipped(1)

	next, ok := state.NextOpenPosition(1)
	if !ok || next != 2 {
		t.Errorf("expected next position 2, got %d ok=%v", next, ok)
	}
}

func TestNextOpenPosition_WrapsToSkipped(t *testing.T) {
	state := newTestState(3)
	state = state.MarkSkipped(1)
	state = state.MarkCorrect(2, 10)
	state = state.MarkSkipped(3)

	// 3 이후에는 not_visited가 없으므로 앞쪽 skipped로 되돌아간다.
	next, ok := state.NextOpenPosition(3)
	if !ok || next != 1 {
		t.Errorf("expected wrap to position 1, got %d ok=%v", next, ok)
	}
}

func TestNextOpenPosition_Exhausted(t *testing.T) {
	state := newTestState(2)
	state = state.MarkCorrect(1, 10)
	state = state.MarkSkipped(2)

	// 2를 제외하면 남은 열린 포지션이 없다.
	if _, ok := state.NextOpenPosition(2); ok {
		t.Error("expected no open position")
	}
}

func TestAllCorrect(t *testing.T) {
	state := newTestState(2)
	if state.AllCorrect() {
		t.Error("fresh state must not be all correct")
	}

	state = state.MarkCorrect(1, 10)
	state = state.MarkCorrect(2, 10)
	if !state.AllCorrect() {
		t.Error("expected all correct")
	}
	if state.HasRemaining() {
		t.Error("expected no remaining positions")
	}
}

func TestTimeExpired(t *testing.T) {
	state := newTestState(2)

	if state.TimeExpired(testStart.Add(299 * time.Second)) {
		t.Error("must not be expired before the limit")
	}
	if !state.TimeExpired(testStart.Add(300 * time.Second)) {
		t.Error("must be expired at the limit")
	}
	if !state.TimeExpired(testStart.Add(10 * time.Hour)) {
		t.Error("must be expired long after the limit")
	}
}

func TestTimeExpired_NoLimit(t *testing.T) {
	state := NewInitialState("s", "u", 1, 1, 2, 0, testStart)
	if state.TimeExpired(testStart.Add(100 * time.Hour)) {
		t.Error("zero limit must never expire")
	}
}

func TestMarkCompleted(t *testing.T) {
	state := newTestState(2)
	now := testStart.Add(time.Minute)

	done := state.MarkCompleted(CompletionForfeited, now)
	if !done.Completed {
		t.Error("expected completed")
	}
	if done.CompletionReason != CompletionForfeited {
		t.Errorf("expected forfeited, got %s", done.CompletionReason)
	}
	if done.CompletedAt == nil || !done.CompletedAt.Equal(now) {
		t.Error("completed_at mismatch")
	}
}

func TestToSnapshot_RemainingMillis(t *testing.T) {
	state := newTestState(3)

	snap := state.ToSnapshot(testStart.Add(100 * time.Second))
	if snap.RemainingMillis != 200_000 {
		t.Errorf("expected 200000ms remaining, got %d", snap.RemainingMillis)
	}

	snap = state.ToSnapshot(testStart.Add(400 * time.Second))
	if snap.RemainingMillis != 0 {
		t.Errorf("expected 0 remaining after expiry, got %d", snap.RemainingMillis)
	}

	done := state.MarkCompleted(CompletionAllCorrect, testStart.Add(10*time.Second))
	snap = done.ToSnapshot(testStart.Add(20 * time.Second))
	if snap.RemainingMillis != 0 {
		t.Errorf("completed snapshot must report 0 remaining, got %d", snap.RemainingMillis)
	}
	if !snap.IsCompleted || snap.CompletionReason != CompletionAllCorrect {
		t.Error("completed snapshot flags mismatch")
	}
}

func TestParseCompletionReason(t *testing.T) {
	for _, valid := range []string{"all_correct", "TIME_EXPIRED", " forfeited "} {
		if _, err := ParseCompletionReason(valid); err != nil {
			t.Errorf("expected %q to parse: %v", valid, err)
		}
	}
	if _, err := ParseCompletionReason("gave_up"); err == nil {
		t.Error("expected unknown reason to fail")
	}
}
