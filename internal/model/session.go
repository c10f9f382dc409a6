package model

// StartExamRequest begins a new attempt, discarding any live one.
type StartExamRequest struct {
	ExamID string `json:"exam_id" binding:"required,min=1,max=100"`
}

// AnswerRequest upserts the answer for one question. Exactly one of
// SelectedOption, SelectedOptions, or TextResponse must be set; handlers
// reject ambiguous payloads.
type AnswerRequest struct {
	QuestionID      string   `json:"question_id" binding:"required"`
	SelectedOption  *string  `json:"selected_option" binding:"omitempty"`
	SelectedOptions []string `json:"selected_options" binding:"omitempty"`
	TextResponse    *string  `json:"text_response" binding:"omitempty"`
}

// QuestionRef names a question for clear/mark operations.
type QuestionRef struct {
	QuestionID string `json:"question_id" binding:"required"`
}

// NavigateRequest moves the current question pointer.
type NavigateRequest struct {
	Direction string `json:"direction" binding:"required,oneof=next previous goto"`
	Index     *int   `json:"index" binding:"omitempty,min=0"` // goto only
}
