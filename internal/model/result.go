package model

import "time"

// UserAnswer captures a taker's answer to a single question. Exactly one of
// SelectedOption, SelectedOptions, or TextResponse is set.
type UserAnswer struct {
	QuestionID      string    `json:"question_id"`
	SelectedOption  string    `json:"selected_option,omitempty"`
	SelectedOptions []string  `json:"selected_options,omitempty"`
	TextResponse    string    `json:"text_response,omitempty"`
	AnsweredAt      time.Time `json:"answered_at"`
	// TimeSpent accumulates across repeated visits to the question, in seconds.
	TimeSpent int `json:"time_spent"`
}

// ExamResult is the immutable outcome of one submitted exam attempt.
type ExamResult struct {
	ExamID           string           `json:"exam_id"`
	ExamName         string           `json:"exam_name"`
	CompletedAt      time.Time        `json:"completed_at"`
	TimeTaken        int              `json:"time_taken"` // seconds
	TotalQuestions   int              `json:"total_questions"`
	CorrectAnswers   int              `json:"correct_answers"`
	IncorrectAnswers int              `json:"incorrect_answers"`
	Unanswered       int              `json:"unanswered"`
	Score            int              `json:"score"` // percent
	Passed           bool             `json:"passed"`
	TopicBreakdown   []TopicScore     `json:"topic_breakdown"`
	QuestionResults  []QuestionResult `json:"question_results"`
}

// TopicScore is per-topic accuracy within one exam result.
type TopicScore struct {
	Topic          string `json:"topic"`
	TotalQuestions int    `json:"total_questions"`
	CorrectAnswers int    `json:"correct_answers"`
	Score          int    `json:"score"` // percent
}

// QuestionResult is the per-question review row of an exam result.
type QuestionResult struct {
	QuestionID     string      `json:"question_id"`
	QuestionText   string      `json:"question_text"`
	Topic          string      `json:"topic"`
	UserAnswer     *UserAnswer `json:"user_answer"`
	CorrectAnswer  string      `json:"correct_answer,omitempty"`
	CorrectAnswers []string    `json:"correct_answers,omitempty"`
	IsCorrect      bool        `json:"is_correct"`
	Explanation    string      `json:"explanation,omitempty"`
}

// ExamProgress summarizes attempt completion for the question navigator.
type ExamProgress struct {
	TotalQuestions    int `json:"total_questions"`
	AnsweredQuestions int `json:"answered_questions"`
	MarkedQuestions   int `json:"marked_questions"`
	PercentComplete   int `json:"percent_complete"`
}
