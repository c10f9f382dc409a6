package session

import (
	"testing"
	"time"
)

func TestSnapshotRoundTrip(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)
	s.Start(testExam())
	s.SelectAnswer("q1", "a")
	s.ToggleMarkForReview("q3")
	s.NextQuestion()
	s.Tick()
	s.Tick()
	s.Pause()

	restored := Restore(s.Snapshot(), clock.Now)

	if restored.CurrentIndex() != 1 {
		t.Errorf("expected index 1, got %d", restored.CurrentIndex())
	}
	if restored.TimeRemaining() != 30*60-2 {
		t.Errorf("expected %d remaining, got %d", 30*60-2, restored.TimeRemaining())
	}
	if !restored.Started() {
		t.Error("started flag should persist")
	}
	if !restored.IsQuestionAnswered("q1") || !restored.IsQuestionMarked("q3") {
		t.Error("answers and marks should persist")
	}

	// Transient flags reset on reload.
	if restored.Paused() {
		t.Error("pause must not survive a restore")
	}
	if restored.Completed() || restored.LastResult() != nil {
		t.Error("completion state must not survive a restore")
	}
}

func TestRestoreResetsQuestionClock(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)
	s.Start(testExam())
	clock.Advance(time.Hour) // a long gap before the snapshot restore

	restored := Restore(s.Snapshot(), clock.Now)
	clock.Advance(6 * time.Second)
	restored.SelectAnswer("q1", "a")

	// Only the post-restore seconds count; the gap is not charged.
	if got := restored.Answers()["q1"].TimeSpent; got != 6 {
		t.Errorf("expected 6s after restore, got %d", got)
	}
}

func TestRestoreDefensiveDefaults(t *testing.T) {
	t.Run("empty snapshot", func(t *testing.T) {
		s := Restore(Snapshot{}, newFakeClock().Now)
		if s.Started() || s.Exam() != nil {
			t.Error("empty snapshot must restore to an idle session")
		}
	})

	t.Run("out-of-range index clamps to zero", func(t *testing.T) {
		snap := Snapshot{
			Exam:                 testExam(),
			CurrentQuestionIndex: 99,
			TimeRemaining:        -5,
			IsExamStarted:        true,
		}
		s := Restore(snap, newFakeClock().Now)
		if s.CurrentIndex() != 0 {
			t.Errorf("expected clamped index 0, got %d", s.CurrentIndex())
		}
		if s.TimeRemaining() != 0 {
			t.Errorf("negative time must floor at 0, got %d", s.TimeRemaining())
		}
	})
}
