package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserLoginKey returns the cache key holding a user's active login JTI.
func (r *CacheKeyStruct) UserLoginKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}

// UserExamSessionKey returns the cache key for a user's live exam session snapshot.
func (r *CacheKeyStruct) UserExamSessionKey(userID int) string {
	return fmt.Sprintf("user:%d:exam_session", userID)
}

// UserProgressKey returns the cache key for a user's progress ledger snapshot.
func (r *CacheKeyStruct) UserProgressKey(userID int) string {
	return fmt.Sprintf("user:%d:progress", userID)
}

// ExamPayloadKey returns the cache key for a sanitized exam payload.
func (r *CacheKeyStruct) ExamPayloadKey(examID string) string {
	return fmt.Sprintf("exam:%s:payload", examID)
}

// ExamDurationKey returns the cache key for an exam's time limit in minutes.
func (r *CacheKeyStruct) ExamDurationKey(examID string) string {
	return fmt.Sprintf("exam:%s:duration", examID)
}

var CacheKey = NewCacheKeyStruct()
