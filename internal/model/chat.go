package model

// ChatRole identifies who produced a chat turn.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatTurn is one message in an assistant conversation.
type ChatTurn struct {
	Role    ChatRole `json:"role" binding:"required,oneof=user assistant"`
	Content string   `json:"content" binding:"required"`
}

// ChatRequest is the payload for the streaming assistant endpoint.
type ChatRequest struct {
	Messages        []ChatTurn              `json:"messages" binding:"required,min=1,dive"`
	Context         string                  `json:"context" binding:"omitempty,max=8000"`
	Personalization *PersonalizationContext `json:"personalization" binding:"omitempty"`
}
