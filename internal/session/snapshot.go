package session

import (
	"time"

	"github.com/certifyai/certify-backend/internal/model"
)

// Snapshot is the persisted subset of session state. Transient fields
// (pause flag, completion flag, last result, question clock) are excluded
// and reset to defaults on restore.
type Snapshot struct {
	Exam                 *model.Exam                  `json:"exam"`
	Answers              map[string]*model.UserAnswer `json:"answers"`
	MarkedForReview      []string                     `json:"marked_for_review"`
	CurrentQuestionIndex int                          `json:"current_question_index"`
	TimeRemaining        int                          `json:"time_remaining"`
	IsExamStarted        bool                         `json:"is_exam_started"`
}

// Snapshot captures the persisted subset of the session's state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Exam:                 s.exam,
		Answers:              s.answers,
		MarkedForReview:      s.marked,
		CurrentQuestionIndex: s.currentIndex,
		TimeRemaining:        s.timeRemaining,
		IsExamStarted:        s.started,
	}
}

// Restore rebuilds a session from a snapshot. The question clock restarts at
// now; paused/completed/lastResult reset to their defaults.
func Restore(snap Snapshot, now func() time.Time) *Session {
	s := New(now)
	if snap.Exam == nil {
		return s
	}
	s.exam = snap.Exam
	s.questions = snap.Exam.AllQuestions()
	s.currentIndex = snap.CurrentQuestionIndex
	if s.currentIndex < 0 || s.currentIndex >= len(s.questions) {
		s.currentIndex = 0
	}
	s.answers = snap.Answers
	if s.answers == nil {
		s.answers = make(map[string]*model.UserAnswer)
	}
	s.marked = snap.MarkedForReview
	s.timeRemaining = snap.TimeRemaining
	if s.timeRemaining < 0 {
		s.timeRemaining = 0
	}
	s.started = snap.IsExamStarted
	s.questionStartTime = s.now()
	return s
}
