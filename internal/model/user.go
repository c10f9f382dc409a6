package model

import "time"

// User is a registered learner account.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// PersonalizationContext carries onboarding preferences the assistant uses to
// tune its tone. The core treats it as opaque beyond the experience level.
type PersonalizationContext struct {
	ExperienceLevel   string   `json:"experience_level,omitempty"`
	Background        string   `json:"background,omitempty"`
	ExplanationStyle  string   `json:"explanation_style,omitempty"`
	PreferredLanguage string   `json:"preferred_language,omitempty"`
	WeakTopics        []string `json:"weak_topics,omitempty"`
	StrongTopics      []string `json:"strong_topics,omitempty"`
	CurrentTopic      string   `json:"current_topic,omitempty"`
}
