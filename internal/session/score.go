package session

import (
	"math"

	"github.com/certifyai/certify-backend/internal/model"
)

// roundPercent computes round(100 * part/total) with half-up rounding.
func roundPercent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}

// isCorrect decides correctness by question type. Unanswered questions are
// always incorrect. Multiple-select requires exact set equality: every
// correct id selected and nothing extra. Free-text answers are captured but
// never auto-scored.
func isCorrect(q *model.Question, answer *model.UserAnswer) bool {
	if answer == nil {
		return false
	}
	if q.Type == model.QuestionMultipleSelect {
		if len(answer.SelectedOptions) != len(q.CorrectAnswers) {
			return false
		}
		correct := make(map[string]struct{}, len(q.CorrectAnswers))
		for _, id := range q.CorrectAnswers {
			correct[id] = struct{}{}
		}
		for _, id := range answer.SelectedOptions {
			if _, ok := correct[id]; !ok {
				return false
			}
		}
		return true
	}
	return q.CorrectAnswer != "" && answer.SelectedOption == q.CorrectAnswer
}

// scoreAttempt computes the ExamResult for the current answers.
func (s *Session) scoreAttempt() *model.ExamResult {
	questionResults := make([]model.QuestionResult, 0, len(s.questions))
	topicTotals := make(map[string]*model.TopicScore)
	topicOrder := make([]string, 0)

	correctCount := 0
	for i := range s.questions {
		q := &s.questions[i]
		answer := s.answers[q.ID]
		ok := isCorrect(q, answer)
		if ok {
			correctCount++
		}

		questionResults = append(questionResults, model.QuestionResult{
			QuestionID:     q.ID,
			QuestionText:   q.Text,
			Topic:          q.Topic,
			UserAnswer:     answer,
			CorrectAnswer:  q.CorrectAnswer,
			CorrectAnswers: q.CorrectAnswers,
			IsCorrect:      ok,
			Explanation:    q.Explanation,
		})

		// Topics group by exact, case-sensitive label.
		t, seen := topicTotals[q.Topic]
		if !seen {
			t = &model.TopicScore{Topic: q.Topic}
			topicTotals[q.Topic] = t
			topicOrder = append(topicOrder, q.Topic)
		}
		t.TotalQuestions++
		if ok {
			t.CorrectAnswers++
		}
	}

	breakdown := make([]model.TopicScore, 0, len(topicOrder))
	for _, topic := range topicOrder {
		t := topicTotals[topic]
		t.Score = roundPercent(t.CorrectAnswers, t.TotalQuestions)
		breakdown = append(breakdown, *t)
	}

	total := len(s.questions)
	answered := len(s.answers)
	score := 0
	if total > 0 {
		score = roundPercent(correctCount, total)
	}

	return &model.ExamResult{
		ExamID:           s.exam.ID,
		ExamName:         s.exam.Name,
		CompletedAt:      s.now(),
		TimeTaken:        s.exam.TimeLimit*60 - s.timeRemaining,
		TotalQuestions:   total,
		CorrectAnswers:   correctCount,
		IncorrectAnswers: answered - correctCount,
		Unanswered:       total - answered,
		Score:            score,
		Passed:           score >= s.exam.PassingScore,
		TopicBreakdown:   breakdown,
		QuestionResults:  questionResults,
	}
}
