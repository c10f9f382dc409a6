package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/certifyai/certify-backend/internal/config"
	"github.com/certifyai/certify-backend/internal/model"
	"github.com/certifyai/certify-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ExamService serves the exam catalog. Sanitized payloads (no correct
// answers) are cached in Redis and prewarmed at startup so catalog reads
// bypass PostgreSQL.
type ExamService struct {
	examRepo *repository.ExamRepository
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(examRepo *repository.ExamRepository, rdb *redis.Client, log zerolog.Logger) *ExamService {
	return &ExamService{
		examRepo: examRepo,
		rdb:      rdb,
		log:      log.With().Str("component", "exam_service").Logger(),
	}
}

// ListExams returns catalog summaries.
func (s *ExamService) ListExams(ctx context.Context) ([]model.ExamSummary, error) {
	return s.examRepo.List(ctx)
}

// GetExam returns the full exam definition, correct answers included.
// Server-side use only; handlers expose GetExamPayload instead.
func (s *ExamService) GetExam(ctx context.Context, examID string) (*model.Exam, error) {
	return s.examRepo.GetByID(ctx, examID)
}

// GetExamPayload returns the sanitized taker-facing payload, preferring the
// Redis cache and self-healing it on a miss.
func (s *ExamService) GetExamPayload(ctx context.Context, examID string) (*model.ExamPayload, error) {
	key := config.CacheKey.ExamPayloadKey(examID)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var payload model.ExamPayload
		if err := json.Unmarshal(raw, &payload); err == nil {
			return &payload, nil
		}
		s.log.Warn().Str("exam_id", examID).Msg("Malformed cached exam payload, rebuilding")
	} else if err != redis.Nil {
		return nil, fmt.Errorf("get cached payload: %w", err)
	}

	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}

	payload := sanitizeExam(exam)
	if err := s.cachePayload(ctx, payload, exam.TimeLimit); err != nil {
		s.log.Warn().Err(err).Str("exam_id", examID).Msg("Failed to cache exam payload")
	}
	return payload, nil
}

// PrewarmAllCaches loads every exam's sanitized payload into Redis before
// the server accepts traffic.
func (s *ExamService) PrewarmAllCaches(ctx context.Context) error {
	summaries, err := s.examRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list exams: %w", err)
	}

	for _, summary := range summaries {
		exam, err := s.examRepo.GetByID(ctx, summary.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("exam_id", summary.ID).Msg("Prewarm skipped exam")
			continue
		}
		if err := s.cachePayload(ctx, sanitizeExam(exam), exam.TimeLimit); err != nil {
			return err
		}
	}

	s.log.Info().Int("count", len(summaries)).Msg("Exam payload cache prewarmed")
	return nil
}

func (s *ExamService) cachePayload(ctx context.Context, payload *model.ExamPayload, timeLimit int) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.ExamPayloadKey(payload.ExamID), raw, 0).Err(); err != nil {
		return fmt.Errorf("cache payload: %w", err)
	}
	durationKey := config.CacheKey.ExamDurationKey(payload.ExamID)
	if err := s.rdb.Set(ctx, durationKey, strconv.Itoa(timeLimit), 0).Err(); err != nil {
		return fmt.Errorf("cache duration: %w", err)
	}
	return nil
}

// sanitizeExam strips correct answers and explanations from the flattened
// question sequence.
func sanitizeExam(exam *model.Exam) *model.ExamPayload {
	flat := exam.AllQuestions()
	questions := make([]model.QuestionSummary, 0, len(flat))
	for _, q := range flat {
		questions = append(questions, model.QuestionSummary{
			ID:         q.ID,
			Text:       q.Text,
			Topic:      q.Topic,
			Difficulty: q.Difficulty,
			Type:       q.Type,
			Options:    q.Options,
			Stem:       q.Stem,
		})
	}
	return &model.ExamPayload{
		ExamID:         exam.ID,
		Name:           exam.Name,
		TimeLimit:      exam.TimeLimit,
		PassingScore:   exam.PassingScore,
		TotalQuestions: len(flat),
		Questions:      questions,
	}
}
