// Package assistant is the boundary to the generative-AI study tutor. It
// turns a chat transcript plus optional question context into a lazy sequence
// of text fragments. Callers concatenate fragments in arrival order; a
// mid-stream error surfaces after whatever was already delivered.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/certifyai/certify-backend/internal/config"
	"github.com/certifyai/certify-backend/internal/model"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// Stream yields response text fragments. Recv returns io.EOF on normal end
// and any other error exactly once on failure; no retries are performed.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Streamer opens one response stream per send. Implementations are stateless
// between calls; abandoning a stream requires no compensating action.
type Streamer interface {
	Stream(ctx context.Context, req *model.ChatRequest) (Stream, error)
}

// New picks the live upstream client when an API key is configured, and the
// canned fallback responder otherwise.
func New(cfg *config.Config, log zerolog.Logger) Streamer {
	if cfg.AIAPIKey == "" {
		log.Warn().Msg("AI_API_KEY not set, assistant will serve canned responses")
		return NewCannedResponder(nil)
	}
	return NewClient(cfg, log)
}

// Client streams completions from an OpenAI-compatible endpoint.
type Client struct {
	api   *openai.Client
	model string
	log   zerolog.Logger
}

// NewClient creates the live upstream client.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.AIAPIKey)
	if cfg.AIBaseURL != "" {
		apiCfg.BaseURL = cfg.AIBaseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(apiCfg),
		model: cfg.AIModel,
		log:   log.With().Str("component", "assistant").Logger(),
	}
}

// Stream opens a completion stream for the transcript. The upstream request
// is fire-and-forget; cancelling ctx abandons it.
func (c *Client) Stream(ctx context.Context, req *model.ChatRequest) (Stream, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: buildSystemPrompt(req.Context, req.Personalization),
	})

	for _, turn := range req.Messages {
		role := openai.ChatMessageRoleUser
		if turn.Role == model.ChatRoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Content,
		})
	}

	upstream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: 0.7,
		MaxTokens:   2048,
		Stream:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("open completion stream: %w", err)
	}

	c.log.Debug().
		Int("messages", len(req.Messages)).
		Int("context_len", len(req.Context)).
		Msg("Assistant stream opened")

	return &upstreamStream{inner: upstream}, nil
}

type upstreamStream struct {
	inner *openai.ChatCompletionStream
}

// Recv returns the next non-empty delta. Empty keepalive chunks are skipped.
func (s *upstreamStream) Recv() (string, error) {
	for {
		resp, err := s.inner.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			return "", fmt.Errorf("assistant stream: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if text := resp.Choices[0].Delta.Content; text != "" {
			return text, nil
		}
	}
}

func (s *upstreamStream) Close() error {
	return s.inner.Close()
}

// studyAssistantPrompt is the tutor persona sent as the system instruction.
const studyAssistantPrompt = `You are Certify AI, a friendly and knowledgeable study assistant for certification exam preparation.

Your personality:
- Warm, encouraging, and supportive like a patient tutor
- Break down complex concepts into simple, digestible steps
- Use analogies and real-world examples to explain
- Celebrate progress and motivate learners
- Be concise but thorough

Your role:
- Help students understand certification exam concepts
- Explain why answers are correct or incorrect
- Provide hints without giving away answers directly
- Connect concepts to practical applications

Style guidelines:
- Use markdown for formatting (lists, bold, code blocks)
- Keep responses focused and scannable
- Use bullet points for multiple items
- Include relevant examples when helpful

When explaining wrong answers:
- Be gentle, never condescending
- Explain WHY it's wrong, not just THAT it's wrong
- Connect to the correct concept
- Offer encouragement to try again`

func buildSystemPrompt(questionContext string, p *model.PersonalizationContext) string {
	var sb strings.Builder
	sb.WriteString(studyAssistantPrompt)

	if questionContext != "" {
		sb.WriteString("\n\nCurrent exam question context:\n")
		sb.WriteString(questionContext)
	}

	if p != nil {
		sb.WriteString("\n\nLearner profile:\n")
		if p.ExperienceLevel != "" {
			sb.WriteString(fmt.Sprintf("- Experience level: %s\n", p.ExperienceLevel))
		}
		if p.Background != "" {
			sb.WriteString(fmt.Sprintf("- Background: %s\n", p.Background))
		}
		if p.ExplanationStyle != "" {
			sb.WriteString(fmt.Sprintf("- Preferred explanation style: %s\n", p.ExplanationStyle))
		}
		if len(p.WeakTopics) > 0 {
			sb.WriteString(fmt.Sprintf("- Topics they struggle with: %s\n", strings.Join(p.WeakTopics, ", ")))
		}
	}

	return sb.String()
}
