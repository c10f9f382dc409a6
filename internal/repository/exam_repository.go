package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/certifyai/certify-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExamRepository handles exam catalog data access. Question sequences are
// stored as JSONB alongside the exam row.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// List returns catalog summaries for all exams (no questions).
func (r *ExamRepository) List(ctx context.Context) ([]model.ExamSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, category, difficulty, total_questions,
		        time_limit, passing_score, topics, icon, color
		 FROM exams
		 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ExamSummary
	for rows.Next() {
		var s model.ExamSummary
		var topics []byte
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Category, &s.Difficulty,
			&s.TotalQuestions, &s.TimeLimit, &s.PassingScore, &topics, &s.Icon, &s.Color); err != nil {
			return nil, err
		}
		if len(topics) > 0 {
			if err := json.Unmarshal(topics, &s.Topics); err != nil {
				return nil, fmt.Errorf("decode topics for exam %s: %w", s.ID, err)
			}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByID retrieves a full exam definition including its questions.
func (r *ExamRepository) GetByID(ctx context.Context, id string) (*model.Exam, error) {
	e := &model.Exam{}
	var topics, questions []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, category, difficulty, total_questions,
		        time_limit, passing_score, topics, questions, icon, color
		 FROM exams
		 WHERE id = $1`, id,
	).Scan(&e.ID, &e.Name, &e.Description, &e.Category, &e.Difficulty,
		&e.TotalQuestions, &e.TimeLimit, &e.PassingScore, &topics, &questions, &e.Icon, &e.Color)
	if err != nil {
		return nil, err
	}
	if len(topics) > 0 {
		if err := json.Unmarshal(topics, &e.Topics); err != nil {
			return nil, fmt.Errorf("decode topics for exam %s: %w", id, err)
		}
	}
	if err := json.Unmarshal(questions, &e.Questions); err != nil {
		return nil, fmt.Errorf("decode questions for exam %s: %w", id, err)
	}
	return e, nil
}

// Upsert inserts or replaces an exam definition (used by the seeder).
func (r *ExamRepository) Upsert(ctx context.Context, e *model.Exam) error {
	topics, err := json.Marshal(e.Topics)
	if err != nil {
		return fmt.Errorf("encode topics: %w", err)
	}
	questions, err := json.Marshal(e.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO exams (id, name, description, category, difficulty, total_questions,
		                    time_limit, passing_score, topics, questions, icon, color)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name, description = EXCLUDED.description,
		     category = EXCLUDED.category, difficulty = EXCLUDED.difficulty,
		     total_questions = EXCLUDED.total_questions, time_limit = EXCLUDED.time_limit,
		     passing_score = EXCLUDED.passing_score, topics = EXCLUDED.topics,
		     questions = EXCLUDED.questions, icon = EXCLUDED.icon,
		     color = EXCLUDED.color, updated_at = NOW()`,
		e.ID, e.Name, e.Description, e.Category, e.Difficulty, e.TotalQuestions,
		e.TimeLimit, e.PassingScore, topics, questions, e.Icon, e.Color)
	return err
}
