package model

// Difficulty grades exams and questions.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ExamCategory buckets exams in the catalog.
type ExamCategory string

const (
	CategoryFinance     ExamCategory = "finance"
	CategoryCloud       ExamCategory = "cloud"
	CategoryDevelopment ExamCategory = "development"
	CategoryData        ExamCategory = "data"
	CategorySecurity    ExamCategory = "security"
	CategoryManagement  ExamCategory = "management"
	CategoryOther       ExamCategory = "other"
)

// Exam is an immutable exam definition supplied by the catalog.
type Exam struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description,omitempty"`
	Category       ExamCategory `json:"category"`
	Difficulty     Difficulty   `json:"difficulty"`
	TotalQuestions int          `json:"total_questions"`
	TimeLimit      int          `json:"time_limit"`    // minutes
	PassingScore   int          `json:"passing_score"` // percent
	Topics         []string     `json:"topics,omitempty"`
	Questions      []Question   `json:"questions"`
	Icon           string       `json:"icon,omitempty"`
	Color          string       `json:"color,omitempty"`
}

// AllQuestions flattens the exam into a single ordered question sequence.
// Item-set questions expand into their sub-questions, each carrying the
// parent's stem and topic so they score and display like standalone questions.
func (e *Exam) AllQuestions() []Question {
	out := make([]Question, 0, len(e.Questions))
	for _, q := range e.Questions {
		if q.Type == QuestionItemSet {
			for _, sub := range q.SubQuestions {
				out = append(out, Question{
					ID:            sub.ID,
					Text:          sub.Text,
					Topic:         q.Topic,
					Difficulty:    q.Difficulty,
					Type:          QuestionMultipleChoice,
					Options:       sub.Options,
					CorrectAnswer: sub.CorrectAnswer,
					Explanation:   sub.Explanation,
					Stem:          q.Stem,
				})
			}
			continue
		}
		out = append(out, q)
	}
	return out
}

// ExamSummary is the catalog listing shape (no questions).
type ExamSummary struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description,omitempty"`
	Category       ExamCategory `json:"category"`
	Difficulty     Difficulty   `json:"difficulty"`
	TotalQuestions int          `json:"total_questions"`
	TimeLimit      int          `json:"time_limit"`
	PassingScore   int          `json:"passing_score"`
	Topics         []string     `json:"topics,omitempty"`
	Icon           string       `json:"icon,omitempty"`
	Color          string       `json:"color,omitempty"`
}

// ExamPayload is the Redis-cached payload sent to exam takers (no correct answers).
type ExamPayload struct {
	ExamID         string            `json:"exam_id"`
	Name           string            `json:"name"`
	TimeLimit      int               `json:"time_limit"`
	PassingScore   int               `json:"passing_score"`
	TotalQuestions int               `json:"total_questions"`
	Questions      []QuestionSummary `json:"questions"`
}

// QuestionSummary is a question without its correct answer or explanation.
type QuestionSummary struct {
	ID         string       `json:"id"`
	Text       string       `json:"text"`
	Topic      string       `json:"topic"`
	Difficulty Difficulty   `json:"difficulty"`
	Type       QuestionType `json:"type"`
	Options    []Option     `json:"options,omitempty"`
	Stem       string       `json:"stem,omitempty"`
}
