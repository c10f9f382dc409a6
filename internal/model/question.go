package model

// QuestionType enumerates supported question formats.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionMultipleSelect QuestionType = "multiple-select"
	QuestionItemSet        QuestionType = "item-set"
	QuestionFreeText       QuestionType = "free-text"
)

// Option is one selectable answer choice.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"` // A, B, C, D
	Text  string `json:"text"`
}

// Question represents a single exam question. Only the fields matching its
// Type are populated.
type Question struct {
	ID         string       `json:"id"`
	Text       string       `json:"text"`
	Topic      string       `json:"topic"`
	Difficulty Difficulty   `json:"difficulty"`
	Type       QuestionType `json:"type"`
	Options    []Option     `json:"options,omitempty"`
	// CorrectAnswer holds the option id for multiple-choice questions.
	CorrectAnswer string `json:"correct_answer,omitempty"`
	// CorrectAnswers holds the option id set for multiple-select questions.
	CorrectAnswers []string `json:"correct_answers,omitempty"`
	Explanation    string   `json:"explanation,omitempty"`
	// Stem is the case-study passage for item-set questions (and is copied
	// onto flattened sub-questions).
	Stem         string        `json:"stem,omitempty"`
	SubQuestions []SubQuestion `json:"sub_questions,omitempty"`
}

// SubQuestion is one question inside an item-set.
type SubQuestion struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []Option `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}
