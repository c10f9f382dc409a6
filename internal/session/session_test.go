package session

import (
	"errors"
	"testing"
	"time"

	"github.com/certifyai/certify-backend/internal/model"
)

// fakeClock is an adjustable time source for deterministic tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func mcq(id, topic, correct string) model.Question {
	return model.Question{
		ID:    id,
		Text:  "Question " + id,
		Topic: topic,
		Type:  model.QuestionMultipleChoice,
		Options: []model.Option{
			{ID: "a", Label: "A", Text: "option a"},
			{ID: "b", Label: "B", Text: "option b"},
			{ID: "c", Label: "C", Text: "option c"},
		},
		CorrectAnswer: correct,
	}
}

func testExam() *model.Exam {
	return &model.Exam{
		ID:           "aws-saa",
		Name:         "AWS Solutions Architect",
		TimeLimit:    30, // minutes
		PassingScore: 70,
		Questions: []model.Question{
			mcq("q1", "Networking", "a"),
			mcq("q2", "Networking", "b"),
			mcq("q3", "Storage", "c"),
			{
				ID:             "q4",
				Text:           "Pick all that apply",
				Topic:          "Storage",
				Type:           model.QuestionMultipleSelect,
				CorrectAnswers: []string{"a", "c"},
			},
		},
	}
}

func TestStart(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)
	s.Start(testExam())

	if !s.Started() {
		t.Fatal("expected session to be started")
	}
	if s.TimeRemaining() != 30*60 {
		t.Errorf("expected 1800s remaining, got %d", s.TimeRemaining())
	}
	if s.CurrentIndex() != 0 {
		t.Errorf("expected index 0, got %d", s.CurrentIndex())
	}
	if s.Completed() || s.Paused() {
		t.Error("new attempt must not be completed or paused")
	}
}

func TestStartReplacesInProgressAttempt(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)
	s.Start(testExam())
	s.SelectAnswer("q1", "a")
	s.ToggleMarkForReview("q2")
	s.NextQuestion()

	s.Start(testExam())

	if len(s.Answers()) != 0 {
		t.Error("restart must discard answers")
	}
	if len(s.Marked()) != 0 {
		t.Error("restart must discard review marks")
	}
	if s.CurrentIndex() != 0 {
		t.Error("restart must rewind to the first question")
	}
}

func TestAnswerUpsertAndTimeAccrual(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)
	s.Start(testExam())

	clock.Advance(10 * time.Second)
	s.SelectAnswer("q1", "a")
	if got := s.Answers()["q1"].TimeSpent; got != 10 {
		t.Errorf("expected 10s spent, got %d", got)
	}

	// Changing the answer accrues more time onto the same question.
	clock.Advance(5 * time.Second)
	s.SelectAnswer("q1", "b")
	if got := s.Answers()["q1"].TimeSpent; got != 15 {
		t.Errorf("expected 15s accumulated, got %d", got)
	}
	if got := s.Answers()["q1"].SelectedOption; got != "b" {
		t.Errorf("expected answer replaced with b, got %s", got)
	}
}

func TestAnswerShapeReplacement(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)
	s.Start(testExam())

	s.SelectAnswer("q4", "a")
	s.SelectMultipleAnswers("q4", []string{"a", "c"})

	ans := s.Answers()["q4"]
	if ans.SelectedOption != "" {
		t.Error("multi-select answer must clear the single-choice field")
	}
	if len(ans.SelectedOptions) != 2 {
		t.Errorf("expected 2 selected options, got %d", len(ans.SelectedOptions))
	}
}

func TestClearAnswerDropsAccruedTime(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)
	s.Start(testExam())

	clock.Advance(20 * time.Second)
	s.SelectAnswer("q1", "a")
	s.ClearAnswer("q1")

	if s.IsQuestionAnswered("q1") {
		t.Fatal("answer should be gone")
	}

	// Re-answering starts time from the clear point, not zero history.
	clock.Advance(3 * time.Second)
	s.SelectAnswer("q1", "a")
	if got := s.Answers()["q1"].TimeSpent; got != 3 {
		t.Errorf("expected 3s after re-answer, got %d", got)
	}
}

func TestToggleMarkForReview(t *testing.T) {
	s := New(newFakeClock().Now)
	s.Start(testExam())

	s.ToggleMarkForReview("q2")
	if !s.IsQuestionMarked("q2") {
		t.Fatal("expected q2 marked")
	}
	s.ToggleMarkForReview("q2")
	if s.IsQuestionMarked("q2") {
		t.Fatal("expected q2 unmarked after second toggle")
	}
}

func TestNavigationClamps(t *testing.T) {
	s := New(newFakeClock().Now)
	s.Start(testExam())

	s.PreviousQuestion()
	if s.CurrentIndex() != 0 {
		t.Error("previous at index 0 must clamp")
	}

	for i := 0; i < 10; i++ {
		s.NextQuestion()
	}
	if s.CurrentIndex() != 3 {
		t.Errorf("next past the end must clamp at 3, got %d", s.CurrentIndex())
	}

	s.GoToQuestion(1)
	if s.CurrentIndex() != 1 {
		t.Errorf("goto 1 failed, at %d", s.CurrentIndex())
	}

	s.GoToQuestion(99)
	s.GoToQuestion(-1)
	if s.CurrentIndex() != 1 {
		t.Errorf("out-of-bounds goto must be a no-op, at %d", s.CurrentIndex())
	}
}

func TestNavigationRestartsQuestionClock(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)
	s.Start(testExam())

	clock.Advance(30 * time.Second)
	s.NextQuestion()
	clock.Advance(4 * time.Second)
	s.SelectAnswer("q2", "b")

	// Only the 4 seconds since navigation count against q2.
	if got := s.Answers()["q2"].TimeSpent; got != 4 {
		t.Errorf("expected 4s on q2, got %d", got)
	}
}

func TestTick(t *testing.T) {
	s := New(newFakeClock().Now)
	s.Start(testExam())

	s.Tick()
	if s.TimeRemaining() != 30*60-1 {
		t.Errorf("expected one second elapsed, got %d", s.TimeRemaining())
	}

	t.Run("paused ticks are ignored", func(t *testing.T) {
		s.Pause()
		before := s.TimeRemaining()
		s.Tick()
		if s.TimeRemaining() != before {
			t.Error("tick must be a no-op while paused")
		}
		s.Resume()
		s.Tick()
		if s.TimeRemaining() != before-1 {
			t.Error("tick must resume after Resume")
		}
	})

	t.Run("floors at zero", func(t *testing.T) {
		s2 := New(newFakeClock().Now)
		exam := testExam()
		exam.TimeLimit = 0
		s2.Start(exam)
		s2.Tick()
		if s2.TimeRemaining() != 0 {
			t.Errorf("timer must not go negative, got %d", s2.TimeRemaining())
		}
	})
}

func TestSubmitScoring(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)
	s.Start(testExam())

	// 2 of 4 correct: q1 right, q2 wrong, q4 exact set, q3 unanswered.
	s.SelectAnswer("q1", "a")
	s.SelectAnswer("q2", "c")
	s.SelectMultipleAnswers("q4", []string{"a", "c"})

	for i := 0; i < 120; i++ {
		s.Tick()
	}

	result, err := s.Submit()
	if err != nil {
		t.Fatal(err)
	}

	if result.Score != 50 {
		t.Errorf("expected score 50, got %d", result.Score)
	}
	if result.CorrectAnswers != 2 || result.IncorrectAnswers != 1 || result.Unanswered != 1 {
		t.Errorf("got correct=%d incorrect=%d unanswered=%d",
			result.CorrectAnswers, result.IncorrectAnswers, result.Unanswered)
	}
	if result.Passed {
		t.Error("50 must not pass a 70 threshold")
	}
	if result.TimeTaken != 120 {
		t.Errorf("expected 120s taken, got %d", result.TimeTaken)
	}
	if !s.Completed() {
		t.Error("submit must mark the attempt completed")
	}

	t.Run("topic breakdown in first-seen order", func(t *testing.T) {
		if len(result.TopicBreakdown) != 2 {
			t.Fatalf("expected 2 topics, got %d", len(result.TopicBreakdown))
		}
		if result.TopicBreakdown[0].Topic != "Networking" || result.TopicBreakdown[1].Topic != "Storage" {
			t.Errorf("unexpected topic order: %+v", result.TopicBreakdown)
		}
		if result.TopicBreakdown[0].Score != 50 {
			t.Errorf("Networking 1/2 should score 50, got %d", result.TopicBreakdown[0].Score)
		}
	})
}

func TestSubmitWithoutStart(t *testing.T) {
	s := New(newFakeClock().Now)
	if _, err := s.Submit(); !errors.Is(err, ErrNoActiveExam) {
		t.Fatalf("expected ErrNoActiveExam, got %v", err)
	}
}

func TestMultipleSelectScoring(t *testing.T) {
	cases := []struct {
		name     string
		selected []string
		want     bool
	}{
		{"exact set", []string{"a", "c"}, true},
		{"exact set different order", []string{"c", "a"}, true},
		{"subset", []string{"a"}, false},
		{"superset", []string{"a", "b", "c"}, false},
		{"disjoint", []string{"b"}, false},
		{"empty", []string{}, false},
	}

	q := &model.Question{
		ID:             "q",
		Type:           model.QuestionMultipleSelect,
		CorrectAnswers: []string{"a", "c"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ans := &model.UserAnswer{QuestionID: "q", SelectedOptions: tc.selected}
			if got := isCorrect(q, ans); got != tc.want {
				t.Errorf("selected %v: got %v, want %v", tc.selected, got, tc.want)
			}
		})
	}

	t.Run("unanswered is incorrect", func(t *testing.T) {
		if isCorrect(q, nil) {
			t.Error("nil answer must be incorrect")
		}
	})

	t.Run("free text never auto-scores", func(t *testing.T) {
		ft := &model.Question{ID: "ft", Type: model.QuestionFreeText}
		ans := &model.UserAnswer{QuestionID: "ft", TextResponse: "anything"}
		if isCorrect(ft, ans) {
			t.Error("free-text must never count as correct")
		}
	})
}

func TestRoundPercentHalfUp(t *testing.T) {
	cases := []struct {
		part, total, want int
	}{
		{7, 12, 58}, // 58.33
		{5, 8, 63},  // 62.5 rounds up
		{1, 3, 33},  // 33.33
		{2, 3, 67},  // 66.67
		{0, 4, 0},
		{4, 4, 100},
	}
	for _, tc := range cases {
		if got := roundPercent(tc.part, tc.total); got != tc.want {
			t.Errorf("roundPercent(%d, %d) = %d, want %d", tc.part, tc.total, got, tc.want)
		}
	}
}

func TestItemSetFlattening(t *testing.T) {
	exam := &model.Exam{
		ID:           "cpa",
		Name:         "CPA Financial",
		TimeLimit:    10,
		PassingScore: 50,
		Questions: []model.Question{
			{
				ID:    "set1",
				Topic: "Reporting",
				Type:  model.QuestionItemSet,
				Stem:  "ACME Corp's year-end figures...",
				SubQuestions: []model.SubQuestion{
					{ID: "set1-a", Text: "Sub A", CorrectAnswer: "a"},
					{ID: "set1-b", Text: "Sub B", CorrectAnswer: "b"},
				},
			},
			mcq("q2", "Audit", "a"),
		},
	}

	s := New(newFakeClock().Now)
	s.Start(exam)

	s.SelectAnswer("set1-a", "a")
	s.SelectAnswer("set1-b", "b")
	s.SelectAnswer("q2", "a")

	result, err := s.Submit()
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalQuestions != 3 {
		t.Errorf("item-set must expand to sub-questions, total=%d", result.TotalQuestions)
	}
	if result.Score != 100 {
		t.Errorf("expected 100, got %d", result.Score)
	}

	// Sub-questions inherit the parent topic.
	if result.TopicBreakdown[0].Topic != "Reporting" || result.TopicBreakdown[0].TotalQuestions != 2 {
		t.Errorf("unexpected breakdown: %+v", result.TopicBreakdown)
	}
}

func TestPauseDoesNotStopTimeSpentAccrual(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)
	s.Start(testExam())

	s.Pause()
	clock.Advance(42 * time.Second)
	s.Resume()
	s.SelectAnswer("q1", "a")

	// Wall-clock keeps charging the visible question while paused; only the
	// countdown stops.
	if got := s.Answers()["q1"].TimeSpent; got != 42 {
		t.Errorf("expected 42s accrued across the pause, got %d", got)
	}
}

func TestReset(t *testing.T) {
	s := New(newFakeClock().Now)
	s.Start(testExam())
	s.SelectAnswer("q1", "a")
	if _, err := s.Submit(); err != nil {
		t.Fatal(err)
	}

	s.Reset()

	if s.Started() || s.Completed() {
		t.Error("reset must clear lifecycle flags")
	}
	if s.Exam() != nil || s.LastResult() != nil {
		t.Error("reset must drop the exam and result")
	}
	if _, err := s.Submit(); !errors.Is(err, ErrNoActiveExam) {
		t.Error("submit after reset must fail")
	}
}

func TestProgress(t *testing.T) {
	s := New(newFakeClock().Now)
	s.Start(testExam())
	s.SelectAnswer("q1", "a")
	s.SelectAnswer("q2", "b")
	s.ToggleMarkForReview("q3")

	p := s.Progress()
	if p.TotalQuestions != 4 || p.AnsweredQuestions != 2 || p.MarkedQuestions != 1 {
		t.Errorf("unexpected progress: %+v", p)
	}
	if p.PercentComplete != 50 {
		t.Errorf("expected 50%% complete, got %d", p.PercentComplete)
	}
}
