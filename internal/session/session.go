// Package session implements the exam attempt state machine: question
// navigation, answer capture, per-question time accounting, the countdown
// timer, and final scoring. It is a pure in-memory engine; persistence and
// HTTP plumbing live in the service layer.
package session

import (
	"errors"
	"time"

	"github.com/certifyai/certify-backend/internal/model"
)

// ErrNoActiveExam is returned by Submit when no exam has been started.
var ErrNoActiveExam = errors.New("no active exam to submit")

// Session tracks one exam attempt end-to-end. It is not safe for concurrent
// use; callers serialize access (single writer per user).
type Session struct {
	exam      *model.Exam
	questions []model.Question // flattened, item-sets expanded

	currentIndex int
	answers      map[string]*model.UserAnswer
	marked       []string // insertion order preserved

	timeRemaining int // seconds, floored at 0
	// questionStartTime marks when the visible question last became visible.
	// Reset on every navigation and on every answer action.
	questionStartTime time.Time

	started   bool
	completed bool
	paused    bool

	lastResult *model.ExamResult

	now func() time.Time
}

// New creates an empty session. The now func is the session's clock; pass
// time.Now in production.
func New(now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		answers: make(map[string]*model.UserAnswer),
		now:     now,
	}
}

// Start begins a fresh attempt on exam, discarding any in-progress state.
func (s *Session) Start(exam *model.Exam) {
	s.exam = exam
	s.questions = exam.AllQuestions()
	s.currentIndex = 0
	s.answers = make(map[string]*model.UserAnswer)
	s.marked = nil
	s.timeRemaining = exam.TimeLimit * 60
	s.questionStartTime = s.now()
	s.started = true
	s.completed = false
	s.paused = false
	s.lastResult = nil
}

// accrueTime charges elapsed wall-clock time since the question became
// visible to the given answer, then restarts the clock. Time accumulates
// across repeated visits; it is never overwritten.
func (s *Session) accrueTime(prev *model.UserAnswer) int {
	elapsed := int(s.now().Sub(s.questionStartTime).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	total := elapsed
	if prev != nil {
		total += prev.TimeSpent
	}
	s.questionStartTime = s.now()
	return total
}

// SelectAnswer records a single-choice answer, replacing any previous answer
// shape for the question.
func (s *Session) SelectAnswer(questionID, optionID string) {
	if s.exam == nil {
		return
	}
	s.answers[questionID] = &model.UserAnswer{
		QuestionID:     questionID,
		SelectedOption: optionID,
		AnsweredAt:     s.now(),
		TimeSpent:      s.accrueTime(s.answers[questionID]),
	}
}

// SelectMultipleAnswers records a multi-select answer.
func (s *Session) SelectMultipleAnswers(questionID string, optionIDs []string) {
	if s.exam == nil {
		return
	}
	selected := make([]string, len(optionIDs))
	copy(selected, optionIDs)
	s.answers[questionID] = &model.UserAnswer{
		QuestionID:      questionID,
		SelectedOptions: selected,
		AnsweredAt:      s.now(),
		TimeSpent:       s.accrueTime(s.answers[questionID]),
	}
}

// SetTextResponse records a free-text answer.
func (s *Session) SetTextResponse(questionID, text string) {
	if s.exam == nil {
		return
	}
	s.answers[questionID] = &model.UserAnswer{
		QuestionID:   questionID,
		TextResponse: text,
		AnsweredAt:   s.now(),
		TimeSpent:    s.accrueTime(s.answers[questionID]),
	}
}

// ClearAnswer deletes the stored answer entirely. Accumulated time on the
// question is deliberately lost with it, matching answer upsert semantics.
func (s *Session) ClearAnswer(questionID string) {
	delete(s.answers, questionID)
}

// ToggleMarkForReview flips the question's membership in the review set.
// Independent of answer state.
func (s *Session) ToggleMarkForReview(questionID string) {
	for i, id := range s.marked {
		if id == questionID {
			s.marked = append(s.marked[:i], s.marked[i+1:]...)
			return
		}
	}
	s.marked = append(s.marked, questionID)
}

// NextQuestion advances the pointer, clamped at the last question.
func (s *Session) NextQuestion() {
	if s.exam != nil && s.currentIndex < len(s.questions)-1 {
		s.currentIndex++
		s.questionStartTime = s.now()
	}
}

// PreviousQuestion moves the pointer back, clamped at the first question.
func (s *Session) PreviousQuestion() {
	if s.currentIndex > 0 {
		s.currentIndex--
		s.questionStartTime = s.now()
	}
}

// GoToQuestion jumps directly to index; out-of-bounds is a no-op.
func (s *Session) GoToQuestion(index int) {
	if s.exam != nil && index >= 0 && index < len(s.questions) {
		s.currentIndex = index
		s.questionStartTime = s.now()
	}
}

// Tick decrements the countdown by one second. Driven by an external
// once-per-second source; a no-op while paused, completed, or expired.
func (s *Session) Tick() {
	if !s.paused && !s.completed && s.timeRemaining > 0 {
		s.timeRemaining--
	}
}

// Pause suspends the countdown. Wall-clock time still accrues into TimeSpent
// on the visible question via answer actions; see the product note in the
// repository design doc.
func (s *Session) Pause() { s.paused = true }

// Resume restarts the countdown.
func (s *Session) Resume() { s.paused = false }

// Submit freezes the attempt and computes its final result. Calling it again
// recomputes from the frozen answers; callers guard against double-recording.
func (s *Session) Submit() (*model.ExamResult, error) {
	if s.exam == nil {
		return nil, ErrNoActiveExam
	}

	result := s.scoreAttempt()
	s.completed = true
	s.lastResult = result
	return result, nil
}

// Reset returns the session to the empty initial state.
func (s *Session) Reset() {
	s.exam = nil
	s.questions = nil
	s.currentIndex = 0
	s.answers = make(map[string]*model.UserAnswer)
	s.marked = nil
	s.timeRemaining = 0
	s.questionStartTime = time.Time{}
	s.started = false
	s.completed = false
	s.paused = false
	s.lastResult = nil
}

// ─── Read-only accessors ───────────────────────────────────────────────

func (s *Session) Exam() *model.Exam             { return s.exam }
func (s *Session) CurrentIndex() int             { return s.currentIndex }
func (s *Session) TimeRemaining() int            { return s.timeRemaining }
func (s *Session) Started() bool                 { return s.started }
func (s *Session) Completed() bool               { return s.completed }
func (s *Session) Paused() bool                  { return s.paused }
func (s *Session) LastResult() *model.ExamResult { return s.lastResult }

// CurrentQuestion returns the visible question, or nil with no active exam.
func (s *Session) CurrentQuestion() *model.Question {
	if s.currentIndex < 0 || s.currentIndex >= len(s.questions) {
		return nil
	}
	q := s.questions[s.currentIndex]
	return &q
}

// IsQuestionAnswered reports whether an answer is stored for the question.
func (s *Session) IsQuestionAnswered(questionID string) bool {
	_, ok := s.answers[questionID]
	return ok
}

// IsQuestionMarked reports review-set membership.
func (s *Session) IsQuestionMarked(questionID string) bool {
	for _, id := range s.marked {
		if id == questionID {
			return true
		}
	}
	return false
}

// Answers returns the stored answers keyed by question id.
func (s *Session) Answers() map[string]*model.UserAnswer { return s.answers }

// Marked returns the marked-for-review question ids in toggle order.
func (s *Session) Marked() []string { return s.marked }

// Progress summarizes attempt completion for the question navigator.
func (s *Session) Progress() model.ExamProgress {
	total := len(s.questions)
	answered := len(s.answers)
	pct := 0
	if total > 0 {
		pct = roundPercent(answered, total)
	}
	return model.ExamProgress{
		TotalQuestions:    total,
		AnsweredQuestions: answered,
		MarkedQuestions:   len(s.marked),
		PercentComplete:   pct,
	}
}
