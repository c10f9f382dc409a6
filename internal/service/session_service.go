package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/certifyai/certify-backend/internal/model"
	"github.com/certifyai/certify-backend/internal/repository"
	"github.com/certifyai/certify-backend/internal/session"
	"github.com/certifyai/certify-backend/internal/store"
	"github.com/rs/zerolog"
)

// Session errors surfaced to handlers.
var (
	ErrNoActiveExam     = session.ErrNoActiveExam
	ErrAlreadySubmitted = errors.New("exam attempt already submitted")
	ErrBadAnswerShape   = errors.New("exactly one answer shape must be provided")
)

// SessionService owns the live exam session engines, one per user, and
// write-through persists their snapshots. Access is serialized: the engines
// are single-writer state machines.
type SessionService struct {
	examRepo *repository.ExamRepository
	snaps    *store.SessionStore
	log      zerolog.Logger
	now      func() time.Time

	mu   sync.Mutex
	live map[int]*session.Session
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	examRepo *repository.ExamRepository,
	snaps *store.SessionStore,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		examRepo: examRepo,
		snaps:    snaps,
		log:      log.With().Str("component", "session_service").Logger(),
		now:      time.Now,
		live:     make(map[int]*session.Session),
	}
}

// SessionState is the client-facing view of an attempt.
type SessionState struct {
	ExamID               string                       `json:"exam_id,omitempty"`
	ExamName             string                       `json:"exam_name,omitempty"`
	CurrentQuestionIndex int                          `json:"current_question_index"`
	TimeRemaining        int                          `json:"time_remaining"`
	IsExamStarted        bool                         `json:"is_exam_started"`
	IsExamCompleted      bool                         `json:"is_exam_completed"`
	IsPaused             bool                         `json:"is_paused"`
	Answers              map[string]*model.UserAnswer `json:"answers"`
	MarkedForReview      []string                     `json:"marked_for_review"`
	Progress             model.ExamProgress           `json:"progress"`
	LastResult           *model.ExamResult            `json:"last_result,omitempty"`
}

// getSession returns the user's live engine, restoring it from its snapshot
// on first access after a restart. Callers hold s.mu.
func (s *SessionService) getSession(ctx context.Context, userID int) (*session.Session, error) {
	if sess, ok := s.live[userID]; ok {
		return sess, nil
	}

	snap, err := s.snaps.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	var sess *session.Session
	if snap != nil {
		sess = session.Restore(*snap, s.now)
	} else {
		sess = session.New(s.now)
	}
	s.live[userID] = sess
	return sess, nil
}

func (s *SessionService) persist(ctx context.Context, userID int, sess *session.Session) error {
	if err := s.snaps.Save(ctx, userID, sess.Snapshot()); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// StartExam begins a fresh attempt, discarding any live one. The previous
// attempt's already-recorded results are unaffected.
func (s *SessionService) StartExam(ctx context.Context, userID int, examID string) (*SessionState, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.Start(exam)
	if err := s.persist(ctx, userID, sess); err != nil {
		return nil, err
	}

	s.log.Info().Int("user_id", userID).Str("exam_id", examID).Msg("Exam started")
	return s.viewOf(sess), nil
}

// Answer upserts the answer for one question. Exactly one answer shape must
// be present in the request.
func (s *SessionService) Answer(ctx context.Context, userID int, req *model.AnswerRequest) (*SessionState, error) {
	shapes := 0
	if req.SelectedOption != nil {
		shapes++
	}
	if req.SelectedOptions != nil {
		shapes++
	}
	if req.TextResponse != nil {
		shapes++
	}
	if shapes != 1 {
		return nil, ErrBadAnswerShape
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch {
	case req.SelectedOption != nil:
		sess.SelectAnswer(req.QuestionID, *req.SelectedOption)
	case req.SelectedOptions != nil:
		sess.SelectMultipleAnswers(req.QuestionID, req.SelectedOptions)
	default:
		sess.SetTextResponse(req.QuestionID, *req.TextResponse)
	}

	if err := s.persist(ctx, userID, sess); err != nil {
		return nil, err
	}
	return s.viewOf(sess), nil
}

// ClearAnswer deletes the stored answer for a question.
func (s *SessionService) ClearAnswer(ctx context.Context, userID int, questionID string) (*SessionState, error) {
	return s.mutate(ctx, userID, func(sess *session.Session) {
		sess.ClearAnswer(questionID)
	})
}

// ToggleMark flips a question's review mark.
func (s *SessionService) ToggleMark(ctx context.Context, userID int, questionID string) (*SessionState, error) {
	return s.mutate(ctx, userID, func(sess *session.Session) {
		sess.ToggleMarkForReview(questionID)
	})
}

// Navigate moves the current question pointer.
func (s *SessionService) Navigate(ctx context.Context, userID int, req *model.NavigateRequest) (*SessionState, error) {
	return s.mutate(ctx, userID, func(sess *session.Session) {
		switch req.Direction {
		case "next":
			sess.NextQuestion()
		case "previous":
			sess.PreviousQuestion()
		case "goto":
			if req.Index != nil {
				sess.GoToQuestion(*req.Index)
			}
		}
	})
}

// Tick advances the countdown by one second. Driven by the client at most
// once per elapsed second.
func (s *SessionService) Tick(ctx context.Context, userID int) (*SessionState, error) {
	return s.mutate(ctx, userID, func(sess *session.Session) {
		sess.Tick()
	})
}

// Pause suspends the countdown. The pause flag is transient and not persisted.
func (s *SessionService) Pause(ctx context.Context, userID int) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.getSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.Pause()
	return s.viewOf(sess), nil
}

// Resume restarts the countdown.
func (s *SessionService) Resume(ctx context.Context, userID int) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.getSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.Resume()
	return s.viewOf(sess), nil
}

// Submit freezes the attempt and returns its result. A second submit of the
// same attempt fails with ErrAlreadySubmitted so the progress ledger records
// each attempt exactly once.
func (s *SessionService) Submit(ctx context.Context, userID int) (*model.ExamResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess.Completed() {
		return nil, ErrAlreadySubmitted
	}

	result, err := sess.Submit()
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, userID, sess); err != nil {
		return nil, err
	}

	s.log.Info().
		Int("user_id", userID).
		Str("exam_id", result.ExamID).
		Int("score", result.Score).
		Bool("passed", result.Passed).
		Msg("Exam submitted")
	return result, nil
}

// Reset clears the attempt back to the empty initial state.
func (s *SessionService) Reset(ctx context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(ctx, userID)
	if err != nil {
		return err
	}
	sess.Reset()
	return s.snaps.Delete(ctx, userID)
}

// State returns the current attempt view, restoring from the snapshot when
// no live engine exists (page reload path).
func (s *SessionService) State(ctx context.Context, userID int) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.viewOf(sess), nil
}

func (s *SessionService) mutate(ctx context.Context, userID int, fn func(*session.Session)) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	fn(sess)
	if err := s.persist(ctx, userID, sess); err != nil {
		return nil, err
	}
	return s.viewOf(sess), nil
}

// viewOf builds a detached view of the engine. Callers hold s.mu; the handler
// marshals the view after the lock is released, so the live answers map and
// marked slice must not escape. Answer values are replaced wholesale on
// upsert, so sharing the *UserAnswer pointers is safe.
func (s *SessionService) viewOf(sess *session.Session) *SessionState {
	answers := make(map[string]*model.UserAnswer, len(sess.Answers()))
	for id, ans := range sess.Answers() {
		answers[id] = ans
	}

	state := &SessionState{
		CurrentQuestionIndex: sess.CurrentIndex(),
		TimeRemaining:        sess.TimeRemaining(),
		IsExamStarted:        sess.Started(),
		IsExamCompleted:      sess.Completed(),
		IsPaused:             sess.Paused(),
		Answers:              answers,
		MarkedForReview:      append([]string(nil), sess.Marked()...),
		Progress:             sess.Progress(),
		LastResult:           sess.LastResult(),
	}
	if exam := sess.Exam(); exam != nil {
		state.ExamID = exam.ID
		state.ExamName = exam.Name
	}
	return state
}
