package service

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/certifyai/certify-backend/internal/model"
	"github.com/certifyai/certify-backend/internal/session"
)

func viewTestExam() *model.Exam {
	q := func(id string) model.Question {
		return model.Question{
			ID:    id,
			Text:  "Question " + id,
			Topic: "Networking",
			Type:  model.QuestionMultipleChoice,
			Options: []model.Option{
				{ID: "a", Label: "A", Text: "option a"},
				{ID: "b", Label: "B", Text: "option b"},
			},
			CorrectAnswer: "a",
		}
	}
	return &model.Exam{
		ID:           "aws-saa",
		Name:         "AWS Solutions Architect",
		TimeLimit:    30,
		PassingScore: 70,
		Questions:    []model.Question{q("q1"), q("q2"), q("q3")},
	}
}

func TestViewOfDetachesFromEngine(t *testing.T) {
	svc := &SessionService{}
	sess := session.New(func() time.Time {
		return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	})
	sess.Start(viewTestExam())
	sess.SelectAnswer("q1", "a")
	sess.ToggleMarkForReview("q1")

	view := svc.viewOf(sess)

	sess.SelectAnswer("q2", "b")
	sess.ToggleMarkForReview("q2")
	sess.ClearAnswer("q1")

	if len(view.Answers) != 1 {
		t.Fatalf("expected view to keep 1 answer, got %d", len(view.Answers))
	}
	if _, ok := view.Answers["q1"]; !ok {
		t.Error("expected view to retain the q1 answer taken at view time")
	}
	if _, ok := view.Answers["q2"]; ok {
		t.Error("later engine mutation leaked into the view's answers map")
	}
	if len(view.MarkedForReview) != 1 || view.MarkedForReview[0] != "q1" {
		t.Errorf("expected marked [q1], got %v", view.MarkedForReview)
	}
}

// The handler serializes the view after the service releases its lock, so
// encoding must not touch engine-owned state while another request mutates it.
func TestViewOfMarshalSafeDuringMutation(t *testing.T) {
	svc := &SessionService{}
	sess := session.New(time.Now)
	sess.Start(viewTestExam())
	sess.SelectAnswer("q1", "a")

	view := svc.viewOf(sess)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if _, err := json.Marshal(view); err != nil {
				t.Errorf("marshal view: %v", err)
				return
			}
		}
	}()

	for i := 0; i < 200; i++ {
		sess.SelectAnswer("q2", "b")
		sess.ToggleMarkForReview("q3")
	}
	wg.Wait()
}
